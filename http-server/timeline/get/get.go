package get

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"pca-golang/internal/service/enrichment"
	"pca-golang/internal/storage"
)

type ProcessCache interface {
	Get(numero string) (*storage.ProcessInfo, bool)
}

type Resp struct {
	NumeroProcesso string                      `json:"numero_processo"`
	Setor          storage.Setor               `json:"setor"`
	Estadias       []storage.Estadia           `json:"estadias"`
	Permanencias   []storage.PermanenciaSetor  `json:"permanencias"`
	DiasNoSetor    *int                        `json:"dias_no_setor,omitempty"`
	Nivel          enrichment.NivelPermanencia `json:"nivel,omitempty"`
}

// GetTimeline reconstrói a linha do tempo do processo a partir do
// cache. O número vem por query string porque contém '/'. Tempo da
// estadia aberta corre contra "agora": o valor muda a cada chamada.
func GetTimeline(log *slog.Logger, cache ProcessCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.timeline.GetTimeline"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		numero := r.URL.Query().Get("processo")
		if numero == "" {
			http.Error(w, "Parâmetro 'processo' obrigatório", http.StatusBadRequest)
			return
		}

		info, ok := cache.Get(numero)
		if !ok {
			log.Warn("processo não resolvido no cache", slog.String("processo", numero))
			http.Error(w, "Processo ainda não consultado", http.StatusNotFound)
			return
		}

		agora := time.Now()
		estadias, permanencias := enrichment.ConstruirLinhaDoTempo(info, agora)

		resp := Resp{
			NumeroProcesso: info.NumeroProcesso,
			Setor:          info.Setor,
			Estadias:       estadias,
			Permanencias:   permanencias,
		}

		// sem data de andamento não há tag de permanência
		if dias, ok := enrichment.DiasNoSetor(info, agora); ok {
			resp.DiasNoSetor = &dias
			resp.Nivel = enrichment.ClassificarPermanencia(dias)
		}

		render.JSON(w, r, resp)
	}
}
