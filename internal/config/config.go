package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string `yaml:"env" env-default:"prod"`
	HTTPServer `yaml:"http_server"`
	Feed       Feed `yaml:"feed"`
	SEI        SEI  `yaml:"sei"`

	// Ano de referência usado quando o cliente não manda ?year=.
	AnoPadrao int `yaml:"ano_padrao" env-default:"2025"`

	CORSOrigins []string `yaml:"cors_origins"`

	AdminLogin string `yaml:"admin_login"`
	AdminPass  string `yaml:"admin_pass"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// Feed é a exportação CSV da planilha do PCA; o template recebe o ano
// via %d.
type Feed struct {
	URLTemplate string        `yaml:"url_template" env-required:"true"`
	Timeout     time.Duration `yaml:"timeout" env-default:"30s"`
}

// SEI configura o cliente da API externa de processos.
type SEI struct {
	BaseURL        string        `yaml:"base_url" env-required:"true"`
	BatchSize      int           `yaml:"batch_size" env-default:"10"`
	BatchDelay     time.Duration `yaml:"batch_delay" env-default:"200ms"`
	SignatureDelay time.Duration `yaml:"signature_delay" env-default:"150ms"`
	RetryAttempts  int           `yaml:"retry_attempts" env-default:"3"`
	RetryDelay     time.Duration `yaml:"retry_delay" env-default:"2s"`
	RequestTimeout time.Duration `yaml:"request_timeout" env-default:"15s"`
}

func MustConfig() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/local.yaml"
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return &cfg
}
