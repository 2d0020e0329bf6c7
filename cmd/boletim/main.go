package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"pca-golang/internal/client/sei"
	"pca-golang/internal/config"
	"pca-golang/internal/feed"
	"pca-golang/internal/service/enrichment"
	generate_excel "pca-golang/internal/service/generate-excel"
	"pca-golang/internal/service/refresh"
	"pca-golang/internal/storage/memory"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustConfig()

	log := setupLogger(cfg.Env)

	// caches compartilhados da sessão; vivem enquanto o serviço vive
	processCache := memory.NewProcessCache()
	signatureCache := memory.NewSignatureCache()
	holder := memory.NewAnalyticHolder()

	feedClient := feed.New(cfg.Feed.URLTemplate, cfg.Feed.Timeout, log)
	seiClient := sei.New(sei.Options{
		BaseURL:        cfg.SEI.BaseURL,
		RetryAttempts:  cfg.SEI.RetryAttempts,
		RetryDelay:     cfg.SEI.RetryDelay,
		RequestTimeout: cfg.SEI.RequestTimeout,
	}, log)

	refreshService := refresh.New(feedClient, holder, log)
	sectorResolver := enrichment.NewSectorResolver(seiClient, processCache, log, cfg.SEI.BatchSize, cfg.SEI.BatchDelay)
	signatureAggregator := enrichment.NewSignatureAggregator(seiClient, signatureCache, processCache, log, cfg.SEI.SignatureDelay)
	enricher := enrichment.NewEnricher(sectorResolver, signatureAggregator, log)
	genService := generate_excel.NewGenerateService(refreshService)

	log.Info("server started", slog.String("address", cfg.Address))

	srv := &http.Server{
		Addr: cfg.Address,
		Handler: routes(*cfg, log, routeDeps{
			refresh:    refreshService,
			resolver:   sectorResolver,
			aggregator: signatureAggregator,
			enricher:   enricher,
			processos:  processCache,
			sei:        seiClient,
			generator:  genService,
		}),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	err := srv.ListenAndServe()
	if err != nil {
		log.Error("failed start server ", slog.String("error", err.Error()))
	}

	log.Error("server stopped")
}

type dualHandler struct {
	coreHandler  slog.Handler
	errorHandler slog.Handler
}

func (h *dualHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.coreHandler.Enabled(ctx, lvl) || h.errorHandler.Enabled(ctx, lvl)
}

func (h *dualHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error

	// tudo vai para o stdout
	if h.coreHandler.Enabled(ctx, r.Level) {
		err = h.coreHandler.Handle(ctx, r)
		if err != nil {
			return err
		}
	}

	// erros também vão para o arquivo
	if r.Level >= slog.LevelError && h.errorHandler.Enabled(ctx, r.Level) {
		cloned := r.Clone()
		if fileErr := h.errorHandler.Handle(ctx, cloned); fileErr != nil {
			return err
		}
	}

	return err
}

func (h *dualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithAttrs(attrs),
		errorHandler: h.errorHandler.WithAttrs(attrs),
	}
}

func (h *dualHandler) WithGroup(name string) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithGroup(name),
		errorHandler: h.errorHandler.WithGroup(name),
	}
}

func setupLogger(env string) *slog.Logger {
	var level slog.Level = slog.LevelDebug
	switch env {
	case envProd:
		level = slog.LevelInfo
	}

	var coreHandler slog.Handler
	switch env {
	case envLocal:
		coreHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	case envDev:
		coreHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		coreHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	errorFile, err := os.OpenFile("errors.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		slog.Warn("Cannot open error log file", "error", err)
		return slog.New(coreHandler)
	}

	errorHandler := slog.NewTextHandler(errorFile, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	return slog.New(&dualHandler{
		coreHandler:  coreHandler,
		errorHandler: errorHandler,
	})
}
