package extractor

import (
	"errors"
	"regexp"
)

var (
	// ErrProductDataNotFound means no inline script carried the
	// "var product = {...};" assignment the detail page is expected to embed.
	ErrProductDataNotFound = errors.New("embedded product data not found")
	// ErrProductDataInvalid means the embedded object literal was located but
	// could not be decoded as JSON.
	ErrProductDataInvalid = errors.New("embedded product data invalid")
)

// Selectors for the full detail-crawl profile.
const (
	listingGridSelector   = "div.product-grid"
	mediaImageSelector    = ".product-gallery img"
	accordionSelector     = ".accordion-item"
	accordionNameSelector = ".accordion-title"
	accordionTextSelector = ".accordion-content"
)

// Selectors for the per-page enumeration profile. Kept separate from the
// detail profile on purpose; the two selector sets must not be merged.
const (
	catalogItemSelector = "div.catalog-item"
	catalogInfoSelector = ".product-info"
	catalogCategoryAttr = "data-category"
	catalogSkuAttr      = "data-sku"
)

// Fixed names of the two canonical variant axes.
const (
	specColorName = "Cor"
	specSizeName  = "Tamanho"

	descriptionSpecName = "descrição"
)

// Extractor turns rendered catalog HTML into product and variant records.
// One instance is shared across the whole run.
type Extractor struct {
	origin         string
	productPattern *regexp.Regexp
}

// New builds an Extractor. siteOrigin is prefixed onto relative listing
// hrefs, e.g. "https://www.lojaexemplo.com.br".
func New(siteOrigin string) *Extractor {
	return &Extractor{
		origin:         siteOrigin,
		productPattern: regexp.MustCompile(`(?s)var\s+product\s*=\s*(\{.*?\});`),
	}
}
