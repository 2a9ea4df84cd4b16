package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/brmartins/catalog-crawler/internal/browser"
	"github.com/brmartins/catalog-crawler/internal/extractor"
	"github.com/brmartins/catalog-crawler/internal/models"
)

// ErrBlocked signals that a listing page served an anti-bot challenge
// instead of the catalog.
var ErrBlocked = errors.New("blocked by anti-bot challenge")

// Challenge pages are recognized by their document title.
var blockedTitleIndicators = []string{
	"access denied",
	"attention required",
	"just a moment",
	"verifique que",
	"robot check",
}

// PageRenderer extends rendering with the document title, which the
// enumeration profile needs for challenge detection.
type PageRenderer interface {
	RenderPage(ctx context.Context, url, waitSelector string, timeout time.Duration) (*browser.RenderResult, error)
}

type EnumerationResult struct {
	Items        []models.CatalogItem `json:"items"`
	PagesCrawled int                  `json:"pagesCrawled"`
	Elapsed      time.Duration        `json:"elapsed"`
}

// Enumerator is the lightweight crawl profile: it walks the same paginated
// listing but collects only per-item category and variant identifiers, with
// no detail-page traversal. Blocked pages are skipped like any other
// page-level failure.
type Enumerator struct {
	renderer  PageRenderer
	extractor *extractor.Extractor
	sink      Sink
	cfg       EnumeratorConfig
	logger    *slog.Logger
}

type EnumeratorConfig struct {
	BaseURL       string
	SiteOrigin    string
	PageCount     int
	PageDelay     time.Duration
	RenderTimeout time.Duration

	ListingWaitSelector string

	CatalogPath string
}

func NewEnumerator(renderer PageRenderer, sink Sink, cfg EnumeratorConfig, logger *slog.Logger) *Enumerator {
	if cfg.PageCount < 1 {
		cfg.PageCount = 1
	}
	if cfg.RenderTimeout <= 0 {
		cfg.RenderTimeout = 30 * time.Second
	}
	if cfg.ListingWaitSelector == "" {
		cfg.ListingWaitSelector = defaultListingWaitSelector
	}

	return &Enumerator{
		renderer:  renderer,
		extractor: extractor.New(cfg.SiteOrigin),
		sink:      sink,
		cfg:       cfg,
		logger:    logger.With("component", "enumerator"),
	}
}

func (e *Enumerator) Run(ctx context.Context) (*EnumerationResult, error) {
	start := time.Now()

	items := make([]models.CatalogItem, 0)

	for page := 1; page <= e.cfg.PageCount; page++ {
		if page > 1 {
			if err := e.sleep(ctx, e.cfg.PageDelay); err != nil {
				return nil, err
			}
		}

		pageURL := fmt.Sprintf("%s?page=%d", e.cfg.BaseURL, page)
		e.logger.Info("enumerating listing page", "page", page, "url", pageURL)

		res, err := e.renderer.RenderPage(ctx, pageURL, e.cfg.ListingWaitSelector, e.cfg.RenderTimeout)
		if err != nil {
			e.logger.Error("listing page failed", "page", page, "error", err)
			continue
		}

		if isBlockedTitle(res.Title) {
			e.logger.Error("listing page failed", "page", page, "error", ErrBlocked, "title", res.Title)
			continue
		}

		pageItems, err := e.extractor.CatalogItems(res.HTML)
		if err != nil {
			e.logger.Error("catalog extraction failed", "page", page, "error", err)
			continue
		}

		e.logger.Info("found catalog items", "page", page, "count", len(pageItems))
		items = append(items, pageItems...)
	}

	result := &EnumerationResult{
		Items:        items,
		PagesCrawled: e.cfg.PageCount,
		Elapsed:      time.Since(start),
	}

	if e.sink != nil {
		if err := e.sink.Write(e.cfg.CatalogPath, items); err != nil {
			return result, fmt.Errorf("failed to write catalog items: %w", err)
		}
	}

	e.logger.Info("enumeration completed",
		"pages", result.PagesCrawled,
		"items", len(items),
		"elapsed", result.Elapsed.String())

	return result, nil
}

func (e *Enumerator) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func isBlockedTitle(title string) bool {
	lower := strings.ToLower(title)
	for _, indicator := range blockedTitleIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}
