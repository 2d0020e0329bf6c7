package sei

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"pca-golang/internal/storage"
)

// Client fala com a API REST do SEI: consulta de processos em lote,
// assinaturas de documento e download de binário. Cada requisição tem
// timeout próprio via contexto; falhas são retentadas um número
// limitado de vezes com intervalo fixo, nunca quando o contexto já
// foi cancelado.
type Client struct {
	baseURL        string
	http           *http.Client
	log            *slog.Logger
	retryAttempts  int
	retryDelay     time.Duration
	requestTimeout time.Duration
}

type Options struct {
	BaseURL        string
	RetryAttempts  int
	RetryDelay     time.Duration
	RequestTimeout time.Duration
}

func New(opts Options, log *slog.Logger) *Client {
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 2 * time.Second
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 15 * time.Second
	}
	return &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		http:           &http.Client{},
		log:            log,
		retryAttempts:  opts.RetryAttempts,
		retryDelay:     opts.RetryDelay,
		requestTimeout: opts.RequestTimeout,
	}
}

// processoDTO é o formato documentado de um processo na resposta.
type processoDTO struct {
	NumeroProcesso  string         `json:"numero_processo"`
	Setor           setorDTO       `json:"setor"`
	UltimoAndamento string         `json:"ultimo_andamento"`
	DataAutuacao    string         `json:"data_autuacao"`
	Transicoes      []transicaoDTO `json:"andamentos"`
	Documentos      []documentoDTO `json:"documentos"`
	Sigiloso        bool           `json:"sigiloso"`
}

type setorDTO struct {
	ID        string `json:"id"`
	Descricao string `json:"descricao"`
}

type transicaoDTO struct {
	Sequencia int      `json:"sequencia"`
	DataHora  string   `json:"data_hora"`
	Origem    setorDTO `json:"origem"`
	Destino   setorDTO `json:"destino"`
	Acao      string   `json:"acao"`
}

type documentoDTO struct {
	ID        string `json:"id"`
	Descricao string `json:"descricao"`
	Ano       int    `json:"ano"`
}

// lookupResponse é o envelope documentado da consulta em lote.
type lookupResponse struct {
	Data struct {
		Lista []processoDTO `json:"lista"`
	} `json:"data"`
}

// LookupProcesses consulta um lote de números de processo (o chamador
// particiona em lotes de até 10). A resposta documentada é
// {"data":{"lista":[...]}}; como único fallback, aceita o array no
// topo do corpo (formato legado da API), registrado em log.
func (c *Client) LookupProcesses(ctx context.Context, numeros []string) ([]*storage.ProcessInfo, error) {
	const op = "client.sei.LookupProcesses"

	body, err := json.Marshal(map[string][]string{"processos": numeros})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	raw, err := c.doWithRetry(ctx, http.MethodPost, c.baseURL+"/processos/consulta", body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var env lookupResponse
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data.Lista) > 0 {
		return converterProcessos(env.Data.Lista), nil
	}

	var legada []processoDTO
	if err := json.Unmarshal(raw, &legada); err == nil && len(legada) > 0 {
		c.log.Warn("resposta da consulta de processos no formato legado",
			slog.Int("processos", len(legada)))
		return converterProcessos(legada), nil
	}

	return nil, fmt.Errorf("%s: resposta em formato desconhecido", op)
}

// LookupDocumentSignatures devolve os signatários de um documento.
func (c *Client) LookupDocumentSignatures(ctx context.Context, documentoID string) ([]storage.Signatario, error) {
	const op = "client.sei.LookupDocumentSignatures"

	raw, err := c.doWithRetry(ctx, http.MethodGet,
		fmt.Sprintf("%s/documentos/%s/assinaturas", c.baseURL, documentoID), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var env struct {
		Data struct {
			Lista []storage.Signatario `json:"lista"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.Data.Lista != nil {
		return env.Data.Lista, nil
	}

	var legada []storage.Signatario
	if err := json.Unmarshal(raw, &legada); err == nil {
		c.log.Warn("resposta de assinaturas no formato legado",
			slog.String("documento", documentoID))
		return legada, nil
	}

	return nil, fmt.Errorf("%s: resposta em formato desconhecido", op)
}

// DocumentBinary abre o stream do binário do documento (PDF). O
// chamador fecha o reader.
func (c *Client) DocumentBinary(ctx context.Context, documentoID string) (io.ReadCloser, string, error) {
	const op = "client.sei.DocumentBinary"

	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/documentos/%s/binario", c.baseURL, documentoID), nil)
	if err != nil {
		cancel()
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, "", fmt.Errorf("%s: API respondeu %d", op, resp.StatusCode)
	}

	return &cancelReadCloser{ReadCloser: resp.Body, cancel: cancel},
		resp.Header.Get("Content-Type"), nil
}

type cancelReadCloser struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelReadCloser) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

// doWithRetry executa a requisição com timeout por tentativa e no
// máximo retryAttempts tentativas. Cancelamento do contexto
// interrompe a sequência na hora.
func (c *Client) doWithRetry(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.retryAttempts; attempt++ {
		raw, err := c.doOnce(ctx, method, url, body)
		if err == nil {
			return raw, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
		if attempt < c.retryAttempts {
			c.log.Warn("requisição ao SEI falhou, retentando",
				slog.String("url", url),
				slog.Int("tentativa", attempt),
				slog.String("error", err.Error()),
			)
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API respondeu %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

const formatoDataHora = "02/01/2006 15:04"

func converterProcessos(dtos []processoDTO) []*storage.ProcessInfo {
	infos := make([]*storage.ProcessInfo, 0, len(dtos))
	for _, dto := range dtos {
		info := &storage.ProcessInfo{
			NumeroProcesso:  dto.NumeroProcesso,
			Setor:           storage.Setor{ID: dto.Setor.ID, Descricao: dto.Setor.Descricao},
			UltimoAndamento: dto.UltimoAndamento,
			DataAutuacao:    dto.DataAutuacao,
			Sigiloso:        dto.Sigiloso,
		}
		for _, t := range dto.Transicoes {
			ts, ok := parseDataHora(t.DataHora)
			if !ok {
				continue
			}
			info.Transicoes = append(info.Transicoes, storage.Transicao{
				Sequencia: t.Sequencia,
				Timestamp: ts,
				DeSetor:   storage.Setor{ID: t.Origem.ID, Descricao: t.Origem.Descricao},
				ParaSetor: storage.Setor{ID: t.Destino.ID, Descricao: t.Destino.Descricao},
				Acao:      t.Acao,
			})
		}
		for _, doc := range dto.Documentos {
			info.Documentos = append(info.Documentos, storage.Documento{
				ID:        doc.ID,
				Descricao: doc.Descricao,
				Ano:       doc.Ano,
			})
		}
		infos = append(infos, info)
	}
	return infos
}

func parseDataHora(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	for _, layout := range []string{formatoDataHora, "02/01/2006 15:04:05", "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
