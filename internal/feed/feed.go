package feed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Coluna onde o sentinela de cabeçalho aparece na exportação.
const (
	colunaCabecalho    = 0
	sentinelaCabecalho = "ID PCA"
	colunaProjeto      = 3
)

var (
	ErrCabecalhoNaoEncontrado = errors.New("cabeçalho 'ID PCA' não encontrado no feed")
	ErrFeedVazio              = errors.New("feed sem linhas de dados")
)

// Client baixa e fatia a exportação CSV da planilha do PCA. Erros de
// feed são fatais para o ciclo de refresh: o chamador mantém o
// snapshot anterior.
type Client struct {
	http        *http.Client
	urlTemplate string // recebe o ano via %d
	log         *slog.Logger
}

func New(urlTemplate string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		http:        &http.Client{Timeout: timeout},
		urlTemplate: urlTemplate,
		log:         log,
	}
}

// FetchRows baixa o feed do ano pedido e devolve só as linhas de
// dados, já sem cabeçalho e sem a rabeira em branco.
func (c *Client) FetchRows(ctx context.Context, ano int) ([][]string, error) {
	const op = "feed.Client.FetchRows"

	url := fmt.Sprintf(c.urlTemplate, ano)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: feed respondeu %d", op, resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	linhas, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	dados, err := SliceRows(linhas)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.log.Info("feed baixado",
		slog.Int("ano", ano),
		slog.Int("linhas", len(dados)),
	)

	return dados, nil
}

// SliceRows localiza a linha de cabeçalho pelo sentinela "ID PCA" e
// devolve as linhas de dados até a última com a célula de nome do
// projeto preenchida; o resto é preenchimento em branco da planilha.
func SliceRows(linhas [][]string) ([][]string, error) {
	inicio := -1
	for i, l := range linhas {
		if len(l) > colunaCabecalho && strings.TrimSpace(l[colunaCabecalho]) == sentinelaCabecalho {
			inicio = i + 1
			break
		}
	}
	if inicio < 0 {
		return nil, ErrCabecalhoNaoEncontrado
	}

	fim := inicio
	for i := inicio; i < len(linhas); i++ {
		l := linhas[i]
		if len(l) > colunaProjeto && strings.TrimSpace(l[colunaProjeto]) != "" {
			fim = i + 1
		}
	}
	if fim == inicio {
		return nil, ErrFeedVazio
	}

	return linhas[inicio:fim], nil
}
