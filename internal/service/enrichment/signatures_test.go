package enrichment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pca-golang/internal/constants"
	"pca-golang/internal/storage"
	"pca-golang/internal/storage/memory"
)

type MockSignatureLookup struct {
	mock.Mock
}

func (m *MockSignatureLookup) LookupDocumentSignatures(ctx context.Context, documentoID string) ([]storage.Signatario, error) {
	args := m.Called(ctx, documentoID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	sigs, ok := args.Get(0).([]storage.Signatario)
	if !ok {
		return nil, fmt.Errorf("expected []storage.Signatario, got %T", args.Get(0))
	}

	return sigs, args.Error(1)
}

func montarAggregator(t *testing.T) (*MockSignatureLookup, *memory.ProcessCache, *SignatureAggregator) {
	t.Helper()
	mockLookup := new(MockSignatureLookup)
	processos := memory.NewProcessCache()
	agg := NewSignatureAggregator(mockLookup, memory.NewSignatureCache(), processos, slog.Default(), 0)
	return mockLookup, processos, agg
}

func projetoSEI(id, processo, tipo string) *storage.ProjectRecord {
	return &storage.ProjectRecord{
		IDPca:       id,
		Tipo:        tipo,
		Status:      "EM CONTRATAÇÃO 🤝",
		ProcessoSEI: processo,
	}
}

func TestAggregate_InverteParaAssinantes(t *testing.T) {
	mockLookup, processos, agg := montarAggregator(t)

	processos.Put(&storage.ProcessInfo{
		NumeroProcesso: "100/2024-0",
		Documentos: []storage.Documento{
			{ID: "DOC-1", Descricao: "Parecer Jurídico nº 1/2025", Ano: 2025},
			{ID: "DOC-2", Descricao: "Termo de Referência", Ano: 2025},
		},
	})

	// um parecer com dois assinantes conta para os dois
	mockLookup.On("LookupDocumentSignatures", mock.Anything, "DOC-1").
		Return([]storage.Signatario{{Nome: "Ana"}, {Nome: "Bruno"}}, nil)

	res, err := agg.Aggregate(context.Background(), 2025,
		[]*storage.ProjectRecord{projetoSEI("1", "100/2024-0", constants.TipoAquisicao)})
	require.NoError(t, err)

	assert.Equal(t, 1, res.TotalPareceres, "TR não é parecer jurídico")
	require.Len(t, res.PorSignatario["Ana"], 1)
	require.Len(t, res.PorSignatario["Bruno"], 1)
	assert.Equal(t, "DOC-1", res.PorSignatario["Ana"][0].DocumentoID)
	assert.Empty(t, res.DocumentosFalhos)

	mockLookup.AssertNumberOfCalls(t, "LookupDocumentSignatures", 1)
}

func TestAggregate_FiltroDeAnoSoParaRenovacao(t *testing.T) {
	mockLookup, processos, agg := montarAggregator(t)

	processos.Put(&storage.ProcessInfo{
		NumeroProcesso: "100/2024-0",
		Documentos: []storage.Documento{
			{ID: "DOC-velho", Descricao: "Parecer Jurídico", Ano: 2023},
		},
	})
	processos.Put(&storage.ProcessInfo{
		NumeroProcesso: "200/2024-0",
		Documentos: []storage.Documento{
			{ID: "DOC-aquis", Descricao: "Parecer Jurídico", Ano: 2023},
		},
	})

	mockLookup.On("LookupDocumentSignatures", mock.Anything, "DOC-aquis").
		Return([]storage.Signatario{{Nome: "Ana"}}, nil)

	res, err := agg.Aggregate(context.Background(), 2025, []*storage.ProjectRecord{
		// renovação: parecer de 2023 não conta para o ciclo de 2025
		projetoSEI("1", "100/2024-0", constants.TipoRenovacao),
		// aquisição: sem filtro de ano
		projetoSEI("2", "200/2024-0", constants.TipoAquisicao),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.TotalPareceres)
	mockLookup.AssertNotCalled(t, "LookupDocumentSignatures", mock.Anything, "DOC-velho")
}

func TestAggregate_SemAssinanteVaiParaSentinela(t *testing.T) {
	mockLookup, processos, agg := montarAggregator(t)

	processos.Put(&storage.ProcessInfo{
		NumeroProcesso: "100/2024-0",
		Documentos:     []storage.Documento{{ID: "DOC-1", Descricao: "Parecer Jurídico", Ano: 2025}},
	})

	mockLookup.On("LookupDocumentSignatures", mock.Anything, "DOC-1").
		Return([]storage.Signatario{}, nil)

	res, err := agg.Aggregate(context.Background(), 2025,
		[]*storage.ProjectRecord{projetoSEI("1", "100/2024-0", constants.TipoAquisicao)})
	require.NoError(t, err)

	require.Len(t, res.PorSignatario[AssinanteNaoIdentificado], 1)
	assert.Empty(t, res.DocumentosFalhos, "resposta vazia não é falha")
}

func TestAggregate_FalhaEntraNoConjuntoFalho(t *testing.T) {
	mockLookup, processos, agg := montarAggregator(t)

	processos.Put(&storage.ProcessInfo{
		NumeroProcesso: "100/2024-0",
		Documentos:     []storage.Documento{{ID: "DOC-1", Descricao: "Parecer Jurídico", Ano: 2025}},
	})

	mockLookup.On("LookupDocumentSignatures", mock.Anything, "DOC-1").
		Return(nil, errors.New("HTTP 500"))

	projetos := []*storage.ProjectRecord{projetoSEI("1", "100/2024-0", constants.TipoAquisicao)}

	res, err := agg.Aggregate(context.Background(), 2025, projetos)
	require.NoError(t, err)

	assert.Equal(t, []string{"DOC-1"}, res.DocumentosFalhos)
	// parecer falho aparece como sem assinante, não desaparece
	require.Len(t, res.PorSignatario[AssinanteNaoIdentificado], 1)
	assert.Equal(t, 1, agg.FailedCount())

	// passada seguinte não reconsulta documento falho
	res2, err := agg.Aggregate(context.Background(), 2025, projetos)
	require.NoError(t, err)
	assert.Equal(t, []string{"DOC-1"}, res2.DocumentosFalhos)
	mockLookup.AssertNumberOfCalls(t, "LookupDocumentSignatures", 1)
}

func TestRetryFailed_RearmaDocumentos(t *testing.T) {
	mockLookup, processos, agg := montarAggregator(t)

	processos.Put(&storage.ProcessInfo{
		NumeroProcesso: "100/2024-0",
		Documentos:     []storage.Documento{{ID: "DOC-1", Descricao: "Parecer Jurídico", Ano: 2025}},
	})

	projetos := []*storage.ProjectRecord{projetoSEI("1", "100/2024-0", constants.TipoAquisicao)}

	mockLookup.On("LookupDocumentSignatures", mock.Anything, "DOC-1").
		Return(nil, errors.New("HTTP 500")).Once()
	mockLookup.On("LookupDocumentSignatures", mock.Anything, "DOC-1").
		Return([]storage.Signatario{{Nome: "Ana"}}, nil)

	_, err := agg.Aggregate(context.Background(), 2025, projetos)
	require.NoError(t, err)
	require.Equal(t, 1, agg.FailedCount())

	// Falhou → Pendente por ação explícita do usuário
	assert.Equal(t, 1, agg.RetryFailed())
	assert.Equal(t, 0, agg.FailedCount())

	res, err := agg.Aggregate(context.Background(), 2025, projetos)
	require.NoError(t, err)
	assert.Empty(t, res.DocumentosFalhos)
	require.Len(t, res.PorSignatario["Ana"], 1)
}

func TestAggregate_DeduplicaPorProcessoDocumento(t *testing.T) {
	mockLookup, processos, agg := montarAggregator(t)

	processos.Put(&storage.ProcessInfo{
		NumeroProcesso: "100/2024-0",
		Documentos:     []storage.Documento{{ID: "DOC-1", Descricao: "Parecer Jurídico", Ano: 2025}},
	})

	mockLookup.On("LookupDocumentSignatures", mock.Anything, "DOC-1").
		Return([]storage.Signatario{{Nome: "Ana"}}, nil)

	// dois registros do PCA apontando para o mesmo processo, com
	// grafias diferentes do número
	projetos := []*storage.ProjectRecord{
		projetoSEI("1", "100/2024-0", constants.TipoAquisicao),
		projetoSEI("2", "100/2024-0", constants.TipoAquisicao),
	}

	res, err := agg.Aggregate(context.Background(), 2025, projetos)
	require.NoError(t, err)

	// o mesmo parecer nunca aparece duas vezes sob o mesmo assinante
	assert.Len(t, res.PorSignatario["Ana"], 1)
}
