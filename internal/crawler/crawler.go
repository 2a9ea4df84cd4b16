package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/brmartins/catalog-crawler/internal/extractor"
	"github.com/brmartins/catalog-crawler/internal/models"
)

// Renderer is the narrow rendering capability the crawler depends on, so the
// orchestrator can be exercised against fixture HTML without a browser.
type Renderer interface {
	Render(ctx context.Context, url, waitSelector string, timeout time.Duration) (string, error)
}

// Sink persists a batch of records to a path, creating directories as needed.
type Sink interface {
	Write(path string, records any) error
}

type Config struct {
	BaseURL       string
	SiteOrigin    string
	PageCount     int
	PageDelay     time.Duration
	RenderTimeout time.Duration
	Concurrency   int

	ListingWaitSelector string
	DetailWaitSelector  string

	ProductsPath string
	SkusPath     string
}

const (
	defaultListingWaitSelector = "div.product-grid"
	defaultDetailWaitSelector  = ".product-detail"
)

func (c *Config) applyDefaults() {
	if c.PageCount < 1 {
		c.PageCount = 1
	}
	if c.Concurrency < 1 {
		c.Concurrency = 5
	}
	if c.RenderTimeout <= 0 {
		c.RenderTimeout = 30 * time.Second
	}
	if c.ListingWaitSelector == "" {
		c.ListingWaitSelector = defaultListingWaitSelector
	}
	if c.DetailWaitSelector == "" {
		c.DetailWaitSelector = defaultDetailWaitSelector
	}
}

// Result is what one full crawl run produced.
type Result struct {
	Products     []models.Product `json:"products"`
	Skus         []models.Sku     `json:"skus"`
	PagesCrawled int              `json:"pagesCrawled"`
	Elapsed      time.Duration    `json:"elapsed"`
}

// Crawler walks the paginated listing sequentially and fans detail pages out
// to a bounded worker pool. Page and detail failures are logged and skipped;
// nothing short of renderer initialization aborts a run.
type Crawler struct {
	renderer  Renderer
	extractor *extractor.Extractor
	sink      Sink
	cfg       Config
	logger    *slog.Logger
}

func New(renderer Renderer, sink Sink, cfg Config, logger *slog.Logger) *Crawler {
	cfg.applyDefaults()
	return &Crawler{
		renderer:  renderer,
		extractor: extractor.New(cfg.SiteOrigin),
		sink:      sink,
		cfg:       cfg,
		logger:    logger.With("component", "crawler"),
	}
}

// Run crawls listing pages 1..PageCount, aggregates every product and sku
// discovered, and writes both collections through the sink at the end.
func (c *Crawler) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	products := make([]models.Product, 0)
	skus := make([]models.Sku, 0)

	for page := 1; page <= c.cfg.PageCount; page++ {
		if page > 1 {
			if err := c.sleep(ctx, c.cfg.PageDelay); err != nil {
				return nil, err
			}
		}

		pageURL := fmt.Sprintf("%s?page=%d", c.cfg.BaseURL, page)
		c.logger.Info("crawling listing page", "page", page, "url", pageURL)

		html, err := c.renderer.Render(ctx, pageURL, c.cfg.ListingWaitSelector, c.cfg.RenderTimeout)
		if err != nil {
			c.logger.Error("listing page failed", "page", page, "error", err)
			continue
		}

		urls, err := c.extractor.ListingURLs(html)
		if err != nil {
			c.logger.Error("listing extraction failed", "page", page, "error", err)
			continue
		}

		c.logger.Info("found detail urls", "page", page, "count", len(urls))

		pageProducts, pageSkus := c.crawlDetails(ctx, urls)
		products = append(products, pageProducts...)
		skus = append(skus, pageSkus...)
	}

	result := &Result{
		Products:     products,
		Skus:         skus,
		PagesCrawled: c.cfg.PageCount,
		Elapsed:      time.Since(start),
	}

	if c.sink != nil {
		if err := c.sink.Write(c.cfg.ProductsPath, products); err != nil {
			return result, fmt.Errorf("failed to write products: %w", err)
		}
		if err := c.sink.Write(c.cfg.SkusPath, skus); err != nil {
			return result, fmt.Errorf("failed to write skus: %w", err)
		}
	}

	c.logger.Info("crawl completed",
		"pages", result.PagesCrawled,
		"products", len(products),
		"skus", len(skus),
		"elapsed", result.Elapsed.String())

	return result, nil
}

// crawlDetails processes one page's detail URLs through the permit-bounded
// pool. A permit is acquired before a unit starts and released when its
// fetch+extract finishes, success or not. The batch joins before returning
// so results from later pages always follow results from earlier ones.
func (c *Crawler) crawlDetails(ctx context.Context, urls []string) ([]models.Product, []models.Sku) {
	sem := semaphore.NewWeighted(int64(c.cfg.Concurrency))

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		products []models.Product
		skus     []models.Sku
	)

	for _, url := range urls {
		if err := sem.Acquire(ctx, 1); err != nil {
			c.logger.Error("failed to acquire permit", "url", url, "error", err)
			break
		}

		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			defer sem.Release(1)

			product, productSkus, err := c.crawlDetail(ctx, url)
			if err != nil {
				c.logger.Error("detail page failed", "url", url, "error", err)
				return
			}

			mu.Lock()
			products = append(products, *product)
			skus = append(skus, productSkus...)
			mu.Unlock()
		}(url)
	}

	wg.Wait()
	return products, skus
}

func (c *Crawler) crawlDetail(ctx context.Context, url string) (*models.Product, []models.Sku, error) {
	html, err := c.renderer.Render(ctx, url, c.cfg.DetailWaitSelector, c.cfg.RenderTimeout)
	if err != nil {
		return nil, nil, err
	}

	return c.extractor.Detail(html, url)
}

func (c *Crawler) sleep(ctx context.Context, d time.Duration) error {
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
