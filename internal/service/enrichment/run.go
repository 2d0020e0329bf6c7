package enrichment

import (
	"context"
	"fmt"
	"log/slog"

	"pca-golang/internal/storage"
)

// Enricher encadeia os dois subsistemas de enriquecimento. A ordem
// importa: a agregação de assinaturas lê os documentos que a resolução
// de setores acabou de colocar no cache de processos.
type Enricher struct {
	setores     *SectorResolver
	assinaturas *SignatureAggregator
	log         *slog.Logger
}

func NewEnricher(setores *SectorResolver, assinaturas *SignatureAggregator, log *slog.Logger) *Enricher {
	return &Enricher{setores: setores, assinaturas: assinaturas, log: log}
}

// EnrichAll resolve setores e depois agrega assinaturas sobre o mesmo
// conjunto de projetos elegíveis.
func (e *Enricher) EnrichAll(ctx context.Context, ano int, projetos []*storage.ProjectRecord) (*ResultadoSetores, *ResultadoAssinaturas, error) {
	const op = "enrichment.Enricher.EnrichAll"

	setores, err := e.setores.Resolve(ctx, projetos)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: setores: %w", op, err)
	}

	assinaturas, err := e.assinaturas.Aggregate(ctx, ano, projetos)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: assinaturas: %w", op, err)
	}

	return setores, assinaturas, nil
}
