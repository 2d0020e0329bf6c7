package resolve

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"pca-golang/internal/service/enrichment"
	"pca-golang/internal/storage"
)

type SectorResolver interface {
	Resolve(ctx context.Context, projetos []*storage.ProjectRecord) (*enrichment.ResultadoSetores, error)
}

type SnapshotProvider interface {
	Snapshot() *storage.AnalyticData
}

// ResolveSectors roda o resolver de setores sobre os projetos
// elegíveis do snapshot corrente. Lotes que falharam aparecem apenas
// como contagem de não resolvidos; o cliente mostra o aviso com
// retry.
func ResolveSectors(log *slog.Logger, resolver SectorResolver, provider SnapshotProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.sectors.ResolveSectors"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		data := provider.Snapshot()
		if data == nil {
			http.Error(w, "Nenhum dado carregado, execute um refresh", http.StatusNotFound)
			return
		}

		// consultas em lote com throttle, o ciclo inteiro pode demorar
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
		defer cancel()

		res, err := resolver.Resolve(ctx, data.AllEligibleProjects)
		if err != nil {
			log.Error("resolução de setores falhou", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, res)
	}
}
