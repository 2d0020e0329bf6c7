package enrich

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"pca-golang/internal/service/enrichment"
	"pca-golang/internal/storage"
)

type Enricher interface {
	EnrichAll(ctx context.Context, ano int, projetos []*storage.ProjectRecord) (*enrichment.ResultadoSetores, *enrichment.ResultadoAssinaturas, error)
}

type SnapshotProvider interface {
	Snapshot() *storage.AnalyticData
}

type Resp struct {
	Setores     *enrichment.ResultadoSetores     `json:"setores"`
	Assinaturas *enrichment.ResultadoAssinaturas `json:"assinaturas"`
}

// EnrichAll roda os dois subsistemas de enriquecimento sobre o
// snapshot corrente. Falhas parciais não escondem nada: o resultado
// traz os contadores de não resolvidos e documentos falhos.
func EnrichAll(log *slog.Logger, enricher Enricher, provider SnapshotProvider, anoPadrao int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.enrich.EnrichAll"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ano := anoPadrao
		if anoStr := r.URL.Query().Get("year"); anoStr != "" {
			parsed, err := strconv.Atoi(anoStr)
			if err != nil {
				http.Error(w, "Ano inválido", http.StatusBadRequest)
				return
			}
			ano = parsed
		}

		data := provider.Snapshot()
		if data == nil {
			http.Error(w, "Nenhum dado carregado, execute um refresh", http.StatusNotFound)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
		defer cancel()

		setores, assinaturas, err := enricher.EnrichAll(ctx, ano, data.AllEligibleProjects)
		if err != nil {
			log.Error("enriquecimento falhou", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, Resp{Setores: setores, Assinaturas: assinaturas})
	}
}
