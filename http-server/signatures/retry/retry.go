package retry

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type FailedRetrier interface {
	RetryFailed() int
}

type Resp struct {
	Rearmados int `json:"rearmados"`
}

// RetryFailedSignatures rearma os documentos falhos (Falhou →
// Pendente). A próxima agregação volta a consultá-los.
func RetryFailedSignatures(log *slog.Logger, retrier FailedRetrier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.signatures.RetryFailedSignatures"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		n := retrier.RetryFailed()
		log.Info("documentos falhos rearmados", slog.Int("rearmados", n))

		render.JSON(w, r, Resp{Rearmados: n})
	}
}
