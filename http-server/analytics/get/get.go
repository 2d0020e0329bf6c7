package get

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"pca-golang/internal/storage"
)

type SnapshotProvider interface {
	Snapshot() *storage.AnalyticData
}

// GetAnalytics devolve o snapshot analítico corrente do boletim.
func GetAnalytics(log *slog.Logger, provider SnapshotProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.analytics.GetAnalytics"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		data := provider.Snapshot()
		if data == nil {
			log.Warn("snapshot ainda não construído")
			http.Error(w, "Nenhum dado carregado, execute um refresh", http.StatusNotFound)
			return
		}

		render.JSON(w, r, data)
	}
}
