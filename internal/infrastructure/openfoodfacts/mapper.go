package openfoodfacts

import "github.com/ecocart/backend/internal/domain"

// productResponse is the envelope returned by /api/v0/product/{code}.json
type productResponse struct {
	Code          string   `json:"code"`
	Status        int      `json:"status"`
	StatusVerbose string   `json:"status_verbose"`
	Product       *product `json:"product"`
}

// product holds the upstream fields we surface. Absent fields stay nil.
type product struct {
	ProductName     *string `json:"product_name"`
	IngredientsText *string `json:"ingredients_text"`
	Packaging       *string `json:"packaging"`
	Brands          *string `json:"brands"`
	Categories      *string `json:"categories"`
	ImageURL        *string `json:"image_url"`
}

// MapToBarcodeProduct converts an upstream product one-to-one into our domain model
func MapToBarcodeProduct(p *product) *domain.BarcodeProduct {
	if p == nil {
		return nil
	}
	return &domain.BarcodeProduct{
		Name:        p.ProductName,
		Ingredients: p.IngredientsText,
		Packaging:   p.Packaging,
		Brands:      p.Brands,
		Categories:  p.Categories,
		ImageURL:    p.ImageURL,
	}
}
