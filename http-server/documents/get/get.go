package get

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type BinaryFetcher interface {
	DocumentBinary(ctx context.Context, documentoID string) (io.ReadCloser, string, error)
}

// GetDocument repassa o binário do documento (PDF) para o navegador.
// O core só fornece o documentId; o conteúdo vem direto da API.
func GetDocument(log *slog.Logger, fetcher BinaryFetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.documents.GetDocument"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		documentoID := chi.URLParam(r, "documentID")
		if documentoID == "" {
			http.Error(w, "Documento obrigatório", http.StatusBadRequest)
			return
		}

		body, contentType, err := fetcher.DocumentBinary(r.Context(), documentoID)
		if err != nil {
			log.Error("download do documento falhou",
				slog.String("documento", documentoID),
				slog.String("error", err.Error()),
			)
			http.Error(w, "Documento indisponível", http.StatusBadGateway)
			return
		}
		defer body.Close()

		if contentType == "" {
			contentType = "application/pdf"
		}
		w.Header().Set("Content-Type", contentType)

		if _, err := io.Copy(w, body); err != nil {
			log.Error("stream do documento interrompido",
				slog.String("documento", documentoID),
				slog.String("error", err.Error()),
			)
		}
	}
}
