package sei

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func novoClient(baseURL string) *Client {
	return New(Options{
		BaseURL:        baseURL,
		RetryAttempts:  3,
		RetryDelay:     10 * time.Millisecond,
		RequestTimeout: 2 * time.Second,
	}, slog.Default())
}

func TestLookupProcesses_FormatoDocumentado(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/processos/consulta", r.URL.Path)

		var req map[string][]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"100/2024-0"}, req["processos"])

		w.Write([]byte(`{"data":{"lista":[{
			"numero_processo":"100/2024-0",
			"setor":{"id":"7","descricao":"TI"},
			"ultimo_andamento":"10/03/2025",
			"data_autuacao":"01/01/2025",
			"andamentos":[{"sequencia":1,"data_hora":"02/01/2025 09:30","origem":{"id":"1","descricao":"Protocolo"},"destino":{"id":"7","descricao":"TI"},"acao":"Remessa"}],
			"documentos":[{"id":"DOC-1","descricao":"Parecer Jurídico","ano":2025}]
		}]}}`))
	}))
	defer srv.Close()

	infos, err := novoClient(srv.URL).LookupProcesses(context.Background(), []string{"100/2024-0"})
	require.NoError(t, err)
	require.Len(t, infos, 1)

	info := infos[0]
	assert.Equal(t, "TI", info.Setor.Descricao)
	assert.Equal(t, "10/03/2025", info.UltimoAndamento)
	require.Len(t, info.Transicoes, 1)
	assert.Equal(t, "Protocolo", info.Transicoes[0].DeSetor.Descricao)
	assert.Equal(t, 9, info.Transicoes[0].Timestamp.Hour())
	require.Len(t, info.Documentos, 1)
	assert.Equal(t, "DOC-1", info.Documentos[0].ID)
}

func TestLookupProcesses_FormatoLegado(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// formato antigo: array direto no topo
		w.Write([]byte(`[{"numero_processo":"100/2024-0","setor":{"id":"7","descricao":"TI"}}]`))
	}))
	defer srv.Close()

	infos, err := novoClient(srv.URL).LookupProcesses(context.Background(), []string{"100/2024-0"})
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "7", infos[0].Setor.ID)
}

func TestLookupProcesses_FormatoDesconhecido(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	_, err := novoClient(srv.URL).LookupProcesses(context.Background(), []string{"100/2024-0"})
	assert.Error(t, err)
}

func TestLookupProcesses_RetentaAteSucesso(t *testing.T) {
	var chamadas atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if chamadas.Add(1) < 3 {
			http.Error(w, "erro transitório", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"data":{"lista":[{"numero_processo":"100/2024-0"}]}}`))
	}))
	defer srv.Close()

	infos, err := novoClient(srv.URL).LookupProcesses(context.Background(), []string{"100/2024-0"})
	require.NoError(t, err)
	assert.Len(t, infos, 1)
	assert.Equal(t, int32(3), chamadas.Load())
}

func TestLookupProcesses_EsgotaTentativas(t *testing.T) {
	var chamadas atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chamadas.Add(1)
		http.Error(w, "fora do ar", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := novoClient(srv.URL).LookupProcesses(context.Background(), []string{"100/2024-0"})
	require.Error(t, err)
	assert.Equal(t, int32(3), chamadas.Load())
}

func TestLookupProcesses_CancelamentoInterrompe(t *testing.T) {
	var chamadas atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chamadas.Add(1)
		http.Error(w, "erro", http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := novoClient(srv.URL).LookupProcesses(ctx, []string{"100/2024-0"})
	require.Error(t, err)
	assert.LessOrEqual(t, chamadas.Load(), int32(1), "contexto cancelado não gera novas tentativas")
}

func TestLookupDocumentSignatures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/documentos/DOC-1/assinaturas", r.URL.Path)
		w.Write([]byte(`{"data":{"lista":[{"nome":"Ana","cargo":"Procuradora"}]}}`))
	}))
	defer srv.Close()

	sigs, err := novoClient(srv.URL).LookupDocumentSignatures(context.Background(), "DOC-1")
	require.NoError(t, err)
	require.Len(t, sigs, 1)
	assert.Equal(t, "Ana", sigs[0].Nome)
}

func TestDocumentBinary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/documentos/DOC-1/binario", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.7"))
	}))
	defer srv.Close()

	body, contentType, err := novoClient(srv.URL).DocumentBinary(context.Background(), "DOC-1")
	require.NoError(t, err)
	defer body.Close()

	assert.Equal(t, "application/pdf", contentType)
}

func TestParseDataHora(t *testing.T) {
	ts, ok := parseDataHora("02/01/2025 09:30")
	require.True(t, ok)
	assert.Equal(t, 30, ts.Minute())

	ts, ok = parseDataHora("02/01/2025")
	require.True(t, ok)
	assert.Equal(t, 2, ts.Day())

	_, ok = parseDataHora("2025-01-02")
	assert.False(t, ok)
}
