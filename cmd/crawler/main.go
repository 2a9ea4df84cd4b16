package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/brmartins/catalog-crawler/internal/browser"
	"github.com/brmartins/catalog-crawler/internal/config"
	"github.com/brmartins/catalog-crawler/internal/crawler"
	"github.com/brmartins/catalog-crawler/internal/storage"
	"github.com/brmartins/catalog-crawler/pkg/logger"
)

func main() {
	var (
		pages    = flag.Int("pages", 0, "Override the number of listing pages to crawl")
		profile  = flag.String("profile", "detail", "Crawl profile: detail (products+skus) or catalog (enumeration only)")
		headless = flag.Bool("headless", true, "Run browser in headless mode")
	)
	flag.Parse()

	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *pages > 0 {
		cfg.Crawler.PageCount = *pages
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutdown signal received")
		cancel()
	}()

	b, err := browser.New(&browser.Options{
		Headless:       *headless && cfg.Browser.Headless,
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

	switch *profile {
	case "detail":
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

		result, err := c.Run(ctx)
		if err != nil {
			log.Error("crawl failed", "error", err)
			os.Exit(1)
		}

		fmt.Printf("crawled %d pages: %d products, %d skus in %s\n",
			result.PagesCrawled, len(result.Products), len(result.Skus), result.Elapsed)

	case "catalog":
		e := crawler.NewEnumerator(b, store, crawler.EnumeratorConfig{
			BaseURL:       cfg.Crawler.BaseURL,
			SiteOrigin:    cfg.Crawler.SiteOrigin,
			PageCount:     cfg.Crawler.PageCount,
			PageDelay:     cfg.Crawler.PageDelay,
			RenderTimeout: cfg.Crawler.RenderTimeout,
			CatalogPath:   cfg.Output.CatalogPath,
		}, log)

		result, err := e.Run(ctx)
		if err != nil {
			log.Error("enumeration failed", "error", err)
			os.Exit(1)
		}

		fmt.Printf("enumerated %d pages: %d items in %s\n",
			result.PagesCrawled, len(result.Items), result.Elapsed)

	default:
		fmt.Fprintf(os.Stderr, "unknown profile %q (want detail or catalog)\n", *profile)
		os.Exit(1)
	}
}
