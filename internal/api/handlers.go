package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/brmartins/catalog-crawler/internal/crawler"
	"github.com/brmartins/catalog-crawler/internal/models"
)

// CrawlRunner runs the full detail crawl.
type CrawlRunner interface {
	Run(ctx context.Context) (*crawler.Result, error)
}

// EnumerationRunner runs the lightweight catalog enumeration.
type EnumerationRunner interface {
	Run(ctx context.Context) (*crawler.EnumerationResult, error)
}

type Handlers struct {
	crawler    CrawlRunner
	enumerator EnumerationRunner
	logger     *slog.Logger
}

func NewHandlers(c CrawlRunner, e EnumerationRunner, logger *slog.Logger) *Handlers {
	return &Handlers{
		crawler:    c,
		enumerator: e,
		logger:     logger.With("component", "api"),
	}
}

// CrawlResponse summarizes a completed crawl run.
type CrawlResponse struct {
	Message      string           `json:"message"`
	ProductCount int              `json:"productCount"`
	SkuCount     int              `json:"skuCount"`
	Products     []models.Product `json:"products"`
	Skus         []models.Sku     `json:"skus"`
}

// TriggerCrawl runs the detail crawl and returns the aggregated records.
func (h *Handlers) TriggerCrawl(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("crawl triggered")

	result, err := h.crawler.Run(r.Context())
	if err != nil {
		h.logger.Error("crawl failed", "error", err)
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, CrawlResponse{
		Message:      "crawl completed",
		ProductCount: len(result.Products),
		SkuCount:     len(result.Skus),
		Products:     result.Products,
		Skus:         result.Skus,
	})
}

// CatalogResponse summarizes a completed enumeration run.
type CatalogResponse struct {
	Message   string               `json:"message"`
	ItemCount int                  `json:"itemCount"`
	Items     []models.CatalogItem `json:"items"`
}

// TriggerCatalog runs the enumeration profile.
func (h *Handlers) TriggerCatalog(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("catalog enumeration triggered")

	result, err := h.enumerator.Run(r.Context())
	if err != nil {
		h.logger.Error("enumeration failed", "error", err)
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, CatalogResponse{
		Message:   "catalog enumeration completed",
		ItemCount: len(result.Items),
		Items:     result.Items,
	})
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
