package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is one catalog product extracted from a detail page. IDs are
// generated per run; Code is the catalog identifier and the only stable key.
type Product struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CategoryTree string    `json:"categoryTree"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Sku is a purchasable variant of a Product (one color/size combination).
// Images is a snapshot shared across all Skus of the same Product and must
// not be mutated after extraction.
type Sku struct {
	ID                string             `json:"id"`
	Link              string             `json:"link"`
	ProductID         string             `json:"productId"`
	Name              string             `json:"name"`
	Code              string             `json:"code"`
	Images            []string           `json:"images"`
	SkuSpecifications []SkuSpecification `json:"skuSpecifications"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

type SkuSpecification struct {
	Name      string    `json:"name"`
	Values    []string  `json:"values"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CatalogItem is the lightweight record produced by the enumeration profile:
// category classification plus the variant identifier found on the listing.
type CatalogItem struct {
	Category string `json:"category"`
	SkuCode  string `json:"skuCode"`
}

func NewProduct() *Product {
	now := time.Now()
	return &Product{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewSku(productID string) *Sku {
	now := time.Now()
	return &Sku{
		ID:        uuid.New().String(),
		ProductID: productID,
		Images:    make([]string, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewSkuSpecification(name, value string) SkuSpecification {
	now := time.Now()
	return SkuSpecification{
		Name:      name,
		Values:    []string{value},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
