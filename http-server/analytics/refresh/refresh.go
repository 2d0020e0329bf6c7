package refresh

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"pca-golang/internal/storage"
)

type Refresher interface {
	Refresh(ctx context.Context, ano int) (*storage.AnalyticData, error)
}

type Resp struct {
	Ano              int `json:"ano"`
	Elegiveis        int `json:"elegiveis"`
	NaoClassificados int `json:"orcamento_nao_classificado"`
}

// RefreshAnalytics baixa o feed do ano pedido e reconstrói o
// snapshot. Falha do feed é fatal para o ciclo: o snapshot anterior
// fica como está e o cliente recebe 502.
func RefreshAnalytics(log *slog.Logger, svc Refresher, anoPadrao int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.analytics.RefreshAnalytics"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ano, ok := anoDaQuery(r, anoPadrao)
		if !ok {
			http.Error(w, "Ano inválido", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
		defer cancel()

		data, err := svc.Refresh(ctx, ano)
		if err != nil {
			log.Error("refresh do boletim falhou", slog.Int("ano", ano), slog.String("error", err.Error()))
			http.Error(w, "Falha ao atualizar o boletim, dados anteriores mantidos", http.StatusBadGateway)
			return
		}

		render.JSON(w, r, Resp{
			Ano:              data.Ano,
			Elegiveis:        len(data.AllEligibleProjects),
			NaoClassificados: data.OrcamentoNaoClassificado,
		})
	}
}

func anoDaQuery(r *http.Request, anoPadrao int) (int, bool) {
	anoStr := r.URL.Query().Get("year")
	if anoStr == "" {
		return anoPadrao, true
	}
	ano, err := strconv.Atoi(anoStr)
	if err != nil || ano < 2000 || ano > 2100 {
		return 0, false
	}
	return ano, true
}
