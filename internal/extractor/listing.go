package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/brmartins/catalog-crawler/internal/models"
)

// ListingURLs returns the detail-page URLs found in a rendered listing page,
// in document order. Only anchors inside the product grid are considered so
// navigation and footer links never leak in. Relative hrefs are made
// absolute against the site origin; duplicates are kept as found.
func (e *Extractor) ListingURLs(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	urls := make([]string, 0)

	doc.Find(listingGridSelector).Find("a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}

		if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
			href = e.origin + href
		}

		urls = append(urls, href)
	})

	return urls, nil
}

// CatalogItems implements the enumeration profile: it reads the category
// attribute on each catalog item container and the variant identifier nested
// in its product-info element. Items without the identifier are skipped.
func (e *Extractor) CatalogItems(html string) ([]models.CatalogItem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	items := make([]models.CatalogItem, 0)

	doc.Find(catalogItemSelector).Each(func(_ int, s *goquery.Selection) {
		skuCode, ok := s.Find(catalogInfoSelector).First().Attr(catalogSkuAttr)
		if !ok || skuCode == "" {
			return
		}

		category, _ := s.Attr(catalogCategoryAttr)

		items = append(items, models.CatalogItem{
			Category: category,
			SkuCode:  skuCode,
		})
	})

	return items, nil
}
