package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/brmartins/catalog-crawler/internal/api"
	"github.com/brmartins/catalog-crawler/internal/browser"
	"github.com/brmartins/catalog-crawler/internal/config"
	"github.com/brmartins/catalog-crawler/internal/crawler"
	"github.com/brmartins/catalog-crawler/internal/storage"
	"github.com/brmartins/catalog-crawler/pkg/logger"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	b, err := browser.New(&browser.Options{
		Headless:       cfg.Browser.Headless,
		UserAgent:      browser.DefaultOptions().UserAgent,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		AcceptLanguage: cfg.Browser.AcceptLanguage,
		TimezoneID:     cfg.Browser.TimezoneID,
		Locale:         cfg.Browser.Locale,
		ExtraHeaders:   browser.DefaultOptions().ExtraHeaders,
	})
	if err != nil {
		log.Error("failed to initialize browser", "error", err)
		os.Exit(1)
	}
	defer b.Close()

	store := storage.New()

	c := crawler.New(b, store, crawler.Config{
		BaseURL:       cfg.Crawler.BaseURL,
		SiteOrigin:    cfg.Crawler.SiteOrigin,
		PageCount:     cfg.Crawler.PageCount,
		PageDelay:     cfg.Crawler.PageDelay,
		RenderTimeout: cfg.Crawler.RenderTimeout,
		Concurrency:   cfg.Crawler.Concurrency,
		ProductsPath:  cfg.Output.ProductsPath,
		SkusPath:      cfg.Output.SkusPath,
	}, log)

	e := crawler.NewEnumerator(b, store, crawler.EnumeratorConfig{
		BaseURL:       cfg.Crawler.BaseURL,
		SiteOrigin:    cfg.Crawler.SiteOrigin,
		PageCount:     cfg.Crawler.PageCount,
		PageDelay:     cfg.Crawler.PageDelay,
		RenderTimeout: cfg.Crawler.RenderTimeout,
		CatalogPath:   cfg.Output.CatalogPath,
	}, log)

	handlers := api.NewHandlers(c, e, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", handlers.Health)
	r.Post("/crawl", handlers.TriggerCrawl)
	r.Post("/catalog", handlers.TriggerCatalog)

	srv := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
}
