package extractor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/brmartins/catalog-crawler/internal/models"
)

// productData mirrors the object literal the store embeds in every detail
// page as "var product = {...};".
type productData struct {
	ID          json.Number     `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Variants    json.RawMessage `json:"variants"`
}

type variantData struct {
	ID      json.Number `json:"id"`
	Sku     string      `json:"sku"`
	Option1 string      `json:"option1"`
	Option2 string      `json:"option2"`
}

// Detail extracts one Product and its Skus from a rendered detail page.
// sourceURL is the URL the page was fetched from and becomes the base of
// every variant link. Fails when the embedded product data is missing or
// cannot be decoded; no partial Product is ever returned.
func (e *Extractor) Detail(html, sourceURL string) (*models.Product, []models.Sku, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	data, err := e.embeddedProduct(doc)
	if err != nil {
		return nil, nil, err
	}

	product := models.NewProduct()
	product.Code = data.ID.String()
	product.Name = data.Title
	product.Description = stripMarkup(data.Description)
	product.CategoryTree = data.Type

	images := e.collectImages(doc)
	extraSpecs := e.collectExtraSpecs(doc)

	variants := decodeVariants(data.Variants)

	skus := make([]models.Sku, 0, len(variants))
	for _, v := range variants {
		sku := models.NewSku(product.ID)
		sku.Name = fmt.Sprintf("%s - %s / %s", data.Title, v.Option1, v.Option2)
		sku.Code = v.Sku
		sku.Link = variantLink(sourceURL, v.ID.String())
		// Shared snapshot across all variants of this product.
		sku.Images = images

		specs := make([]models.SkuSpecification, 0, 2+len(extraSpecs))
		specs = append(specs, models.NewSkuSpecification(specColorName, v.Option1))
		specs = append(specs, models.NewSkuSpecification(specSizeName, v.Option2))
		specs = append(specs, extraSpecs...)
		sku.SkuSpecifications = specs

		skus = append(skus, *sku)
	}

	return product, skus, nil
}

// embeddedProduct locates the inline script carrying the product assignment
// and decodes the captured object literal. Identifier fields are decoded as
// json.Number so numeric codes survive string coercion intact.
func (e *Extractor) embeddedProduct(doc *goquery.Document) (*productData, error) {
	var raw string

	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, "var product") {
			return true
		}

		matches := e.productPattern.FindStringSubmatch(text)
		if len(matches) < 2 {
			return true
		}

		raw = matches[1]
		return false
	})

	if raw == "" {
		return nil, ErrProductDataNotFound
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var data productData
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProductDataInvalid, err.Error())
	}

	return &data, nil
}

// decodeVariants tolerates an absent or malformed variant list; the product
// is still valid with zero variants.
func decodeVariants(raw json.RawMessage) []variantData {
	if len(raw) == 0 {
		return nil
	}

	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()

	var variants []variantData
	if err := dec.Decode(&variants); err != nil {
		return nil
	}

	return variants
}

// collectImages gathers image URLs from the media gallery, rewriting
// protocol-relative sources to explicit HTTPS.
func (e *Extractor) collectImages(doc *goquery.Document) []string {
	images := make([]string, 0)

	doc.Find(mediaImageSelector).Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok || src == "" {
			return
		}

		if strings.HasPrefix(src, "//") {
			src = "https:" + src
		}

		images = append(images, src)
	})

	return images
}

// collectExtraSpecs harvests supplementary specifications from the detail
// page accordions. The description accordion is not a specification and is
// dropped, as are entries missing a name or value.
func (e *Extractor) collectExtraSpecs(doc *goquery.Document) []models.SkuSpecification {
	specs := make([]models.SkuSpecification, 0)

	doc.Find(accordionSelector).Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Find(accordionNameSelector).First().Text())
		value := strings.TrimSpace(s.Find(accordionTextSelector).First().Text())

		if name == "" || value == "" {
			return
		}

		if strings.EqualFold(name, descriptionSpecName) {
			return
		}

		specs = append(specs, models.NewSkuSpecification(name, value))
	})

	return specs
}

// variantLink rebuilds the canonical variant URL: detail URL without any
// query string plus the variant selector.
func variantLink(sourceURL, variantID string) string {
	if i := strings.Index(sourceURL, "?"); i >= 0 {
		sourceURL = sourceURL[:i]
	}
	return sourceURL + "?variant=" + variantID
}

// stripMarkup flattens an HTML fragment to its plain text.
func stripMarkup(fragment string) string {
	if fragment == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}

	return strings.TrimSpace(doc.Text())
}
