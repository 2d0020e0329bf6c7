package get

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"pca-golang/internal/service/analytics"
	"pca-golang/internal/storage"
)

type SnapshotProvider interface {
	Snapshot() *storage.AnalyticData
}

// GetProductivity calcula as duas janelas fiscais do ano pedido sobre
// o conjunto elegível do snapshot corrente.
func GetProductivity(log *slog.Logger, provider SnapshotProvider, anoPadrao int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.productivity.GetProductivity"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ano := anoPadrao
		if anoStr := r.URL.Query().Get("year"); anoStr != "" {
			parsed, err := strconv.Atoi(anoStr)
			if err != nil {
				log.Error("ano inválido", slog.String("year", anoStr))
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

		render.JSON(w, r, analytics.CalcularProdutividade(ano, data.AllEligibleProjects))
	}
}
