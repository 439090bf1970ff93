package domain

// ProductRecord is the canonical enrichment result for a product name
type ProductRecord struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl,omitempty"`
	EcoScore    int    `json:"ecoScore"`
	SourceURL   string `json:"sourceUrl"`
}

// PartialProduct is what a single enrichment source managed to find.
// Empty fields mean the source had nothing for them.
type PartialProduct struct {
	ImageURL    string
	Description string
	EcoHint     int // 0 when the source gives no hint
}

// Merge fills empty fields of p from other. Values already present win.
func (p *PartialProduct) Merge(other *PartialProduct) {
	if other == nil {
		return
	}
	if p.ImageURL == "" {
		p.ImageURL = other.ImageURL
	}
	if p.Description == "" {
		p.Description = other.Description
	}
	if p.EcoHint == 0 {
		p.EcoHint = other.EcoHint
	}
}

// Complete reports whether both an image and a description are present
func (p *PartialProduct) Complete() bool {
	return p.ImageURL != "" && p.Description != ""
}

// SourceResult is the outcome of one source attempt: either a partial
// product or the failure that prevented it.
type SourceResult struct {
	Product *PartialProduct
	Err     error
}

// Ok wraps a successful source answer
func Ok(p *PartialProduct) SourceResult {
	return SourceResult{Product: p}
}

// Fail wraps a source failure
func Fail(err error) SourceResult {
	return SourceResult{Err: err}
}

// Failed reports whether the attempt produced nothing usable
func (r SourceResult) Failed() bool {
	return r.Err != nil || r.Product == nil
}

// BarcodeProduct mirrors the fields taken from the open product database.
// Nil pointers are serialized as null.
type BarcodeProduct struct {
	Name        *string `json:"name"`
	Ingredients *string `json:"ingredients"`
	Packaging   *string `json:"packaging"`
	Brands      *string `json:"brands"`
	Categories  *string `json:"categories"`
	ImageURL    *string `json:"image_url"`
}

// BarcodeLookupResult is the body returned by the barcode endpoint
type BarcodeLookupResult struct {
	Barcode *string         `json:"barcode"`
	Product *BarcodeProduct `json:"product"`
	Message *string         `json:"message"`
}

// CatalogProduct is a product card scraped from a retailer listing page
type CatalogProduct struct {
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Brand       string   `json:"brand"`
	Materials   []string `json:"materials"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Image       string   `json:"image"`
	Badges      []string `json:"badges"`
	Source      string   `json:"source"`
}

// CatalogItem is one entry of the fixed recommendation catalog
type CatalogItem struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Recommendation is a catalog item hydrated through the enrichment pipeline
type Recommendation struct {
	ID       int    `json:"id"`
	Category string `json:"category"`
	ProductRecord
}
