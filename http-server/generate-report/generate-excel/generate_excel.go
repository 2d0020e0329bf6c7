package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

type GenerateExcelHandler interface {
	GenerateExcel(ctx context.Context, ano int) ([]byte, error)
}

// GenerateReportExcel monta e devolve a pasta de trabalho do boletim
// para download.
func GenerateReportExcel(log *slog.Logger, gen GenerateExcelHandler, anoPadrao int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.GenerateReportExcel"

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

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		excelBytes, err := gen.GenerateExcel(ctx, ano)
		if err != nil {
			log.Error("geração do excel falhou", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		fileName := fmt.Sprintf("Boletim_PCA_%d_%s.xlsx", ano, time.Now().Format("2006-01-02_150405"))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		w.Write(excelBytes)
	}
}
