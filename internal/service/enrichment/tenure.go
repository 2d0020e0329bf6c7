package enrichment

import (
	"time"

	"pca-golang/internal/storage"
)

// NivelPermanencia é a faixa de severidade do tempo parado no setor,
// usada só para a cor da tag no dashboard.
type NivelPermanencia string

const (
	PermanenciaNormal  NivelPermanencia = "normal"
	PermanenciaAtencao NivelPermanencia = "atencao"
	PermanenciaAlerta  NivelPermanencia = "alerta"
	PermanenciaCritica NivelPermanencia = "critica"
)

// DiasNoSetor calcula dias inteiros desde o último andamento do
// processo. Sem data de andamento o tempo é desconhecido (ok=false):
// não cai para a data de autuação, não vira zero, não gera tag.
func DiasNoSetor(info *storage.ProcessInfo, agora time.Time) (int, bool) {
	if info == nil || info.UltimoAndamento == "" {
		return 0, false
	}

	ultimo, ok := parseDataBRTolerante(info.UltimoAndamento)
	if !ok {
		return 0, false
	}

	dias := int(agora.Sub(ultimo).Hours() / 24)
	if dias < 0 {
		dias = 0
	}
	return dias, true
}

// ClassificarPermanencia aplica as faixas de severidade.
func ClassificarPermanencia(dias int) NivelPermanencia {
	switch {
	case dias >= 30:
		return PermanenciaCritica
	case dias >= 15:
		return PermanenciaAlerta
	case dias >= 7:
		return PermanenciaAtencao
	default:
		return PermanenciaNormal
	}
}

// parseDataBRTolerante aceita DD/MM/YYYY com ou sem hora.
func parseDataBRTolerante(raw string) (time.Time, bool) {
	for _, layout := range []string{"02/01/2006 15:04:05", "02/01/2006 15:04", "02/01/2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
