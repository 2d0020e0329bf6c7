package get

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

type SignatureAggregator interface {
	Aggregate(ctx context.Context, ano int, projetos []*storage.ProjectRecord) (*enrichment.ResultadoAssinaturas, error)
}

type SnapshotProvider interface {
	Snapshot() *storage.AnalyticData
}

// GetSignatures agrupa os pareceres jurídicos por assinante para o
// ano de referência pedido.
func GetSignatures(log *slog.Logger, agg SignatureAggregator, provider SnapshotProvider, anoPadrao int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.signatures.GetSignatures"

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

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
		defer cancel()

		res, err := agg.Aggregate(ctx, ano, data.AllEligibleProjects)
		if err != nil {
			log.Error("agregação de assinaturas falhou", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, res)
	}
}
