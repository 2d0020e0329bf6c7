package enrichment

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pca-golang/internal/constants"
	"pca-golang/internal/storage"
	"pca-golang/internal/storage/memory"
)

// A agregação de assinaturas roda depois da resolução de setores e
// enxerga os documentos que ela acabou de colocar no cache.
func TestEnrichAll_AssinaturasVeemCacheRecemPreenchido(t *testing.T) {
	processLookup := new(MockProcessLookup)
	sigLookup := new(MockSignatureLookup)
	processos := memory.NewProcessCache()

	resolver := NewSectorResolver(processLookup, processos, slog.Default(), 10, 0)
	agg := NewSignatureAggregator(sigLookup, memory.NewSignatureCache(), processos, slog.Default(), 0)
	enricher := NewEnricher(resolver, agg, slog.Default())

	processLookup.On("LookupProcesses", mock.Anything, []string{"100/2024-0"}).
		Return([]*storage.ProcessInfo{
			{
				NumeroProcesso: "100/2024-0",
				Setor:          storage.Setor{ID: "1", Descricao: "TI"},
				Documentos: []storage.Documento{
					{ID: "DOC-1", Descricao: "Parecer Jurídico nº 7/2025", Ano: 2025},
				},
			},
		}, nil)
	sigLookup.On("LookupDocumentSignatures", mock.Anything, "DOC-1").
		Return([]storage.Signatario{{Nome: "Ana"}}, nil)

	projetos := []*storage.ProjectRecord{
		{IDPca: "1", Tipo: constants.TipoAquisicao, Status: "EM CONTRATAÇÃO 🤝", ProcessoSEI: "100/2024-0"},
	}

	setores, assinaturas, err := enricher.EnrichAll(context.Background(), 2025, projetos)
	require.NoError(t, err)

	require.Len(t, setores.Grupos, 1)
	assert.Equal(t, "TI", setores.Grupos[0].Setor.Descricao)

	// o parecer só existe no cache porque a resolução rodou antes
	assert.Equal(t, 1, assinaturas.TotalPareceres)
	require.Len(t, assinaturas.PorSignatario["Ana"], 1)

	processLookup.AssertExpectations(t)
	sigLookup.AssertExpectations(t)
}
