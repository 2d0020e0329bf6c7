package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getanalytics "pca-golang/http-server/analytics/get"
	refreshanalytics "pca-golang/http-server/analytics/refresh"
	getdocument "pca-golang/http-server/documents/get"
	enrichall "pca-golang/http-server/enrich"
	generate_excel "pca-golang/http-server/generate-report/generate-excel"
	getproductivity "pca-golang/http-server/productivity/get"
	resolvesectors "pca-golang/http-server/sectors/resolve"
	getsignatures "pca-golang/http-server/signatures/get"
	retrysignatures "pca-golang/http-server/signatures/retry"
	gettimeline "pca-golang/http-server/timeline/get"
	seiclient "pca-golang/internal/client/sei"
	"pca-golang/internal/config"
	"pca-golang/internal/middleware/auth"
	"pca-golang/internal/service/enrichment"
	generate_excel2 "pca-golang/internal/service/generate-excel"
	"pca-golang/internal/service/refresh"
	"pca-golang/internal/storage/memory"
)

type routeDeps struct {
	refresh    *refresh.Service
	resolver   *enrichment.SectorResolver
	aggregator *enrichment.SignatureAggregator
	enricher   *enrichment.Enricher
	processos  *memory.ProcessCache
	sei        *seiclient.Client
	generator  *generate_excel2.GenerateExcelService
}

func routes(cfg config.Config, log *slog.Logger, deps routeDeps) *chi.Mux {
	router := chi.NewRouter()

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// snapshot analítico
	router.Get("/api/analytics", getanalytics.GetAnalytics(log, deps.refresh))
	router.Post("/api/refresh", refreshanalytics.RefreshAnalytics(log, deps.refresh, cfg.AnoPadrao))

	// janelas de produtividade
	router.Get("/api/productivity", getproductivity.GetProductivity(log, deps.refresh, cfg.AnoPadrao))

	// enriquecimento sob demanda
	router.Post("/api/sectors/resolve", resolvesectors.ResolveSectors(log, deps.resolver, deps.refresh))
	router.Post("/api/enrich", enrichall.EnrichAll(log, deps.enricher, deps.refresh, cfg.AnoPadrao))
	router.Get("/api/process/timeline", gettimeline.GetTimeline(log, deps.processos))

	// pareceres por assinante
	router.Get("/api/signatures", getsignatures.GetSignatures(log, deps.aggregator, deps.refresh, cfg.AnoPadrao))

	// repasse do binário do documento (PDF no modal do dashboard)
	router.Get("/api/document/{documentID}", getdocument.GetDocument(log, deps.sei))

	// exportação excel do boletim
	router.Get("/api/report/excel", generate_excel.GenerateReportExcel(log, deps.generator, cfg.AnoPadrao))

	// rotas administrativas
	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))
	adminRouter.Post("/signatures/retry", retrysignatures.RetryFailedSignatures(log, deps.aggregator))
	router.Mount("/api/admin", adminRouter)

	// estática do dashboard
	frontendDir := "./frontend-dist"
	if _, err := os.Stat(frontendDir); os.IsNotExist(err) {
		log.Warn("pasta do frontend não encontrada, servindo só a API", "path", frontendDir)
		return router
	}

	fileServer := http.StripPrefix("/", http.FileServer(http.Dir(frontendDir)))

	router.Handle("/assets/*", fileServer)
	router.Handle("/js/*", fileServer)
	router.Handle("/css/*", fileServer)
	router.Handle("/img/*", fileServer)

	// SPA fallback: qualquer outro caminho → index.html
	router.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(frontendDir, r.URL.Path)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.ServeFile(w, r, filepath.Join(frontendDir, "index.html"))
	})

	return router
}
