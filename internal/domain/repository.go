package domain

import "context"

// ProductDatabase looks up products by barcode in the canonical open product database
type ProductDatabase interface {
	LookupBarcode(ctx context.Context, barcode string) (*BarcodeProduct, error)
}

// EnrichmentSource is one provider in the product enrichment fallback chain
type EnrichmentSource interface {
	Name() string
	Attempt(ctx context.Context, productName string) SourceResult
}

// SourceURLResolver finds the best link for a product name
type SourceURLResolver interface {
	Resolve(ctx context.Context, productName string) string
}

// BarcodeDecoder finds a barcode symbol in an image. It returns "" with a nil
// error when the image is valid but contains no symbol.
type BarcodeDecoder interface {
	Decode(imageData []byte) (string, error)
}

// TextExtractor runs full-page text recognition on an image
type TextExtractor interface {
	ExtractText(ctx context.Context, imageData []byte) (string, error)
}

// EcoScoreModel runs one forward pass of the pretrained eco-score regressor
// on a preprocessed HxWx3 tensor and returns the raw scalar output.
type EcoScoreModel interface {
	Predict(ctx context.Context, tensor [][][3]float32) (float64, error)
}

// Ranker scores every catalog item for a user interaction history. The
// returned slice has one affinity per catalog item, in catalog order.
type Ranker interface {
	Rank(ctx context.Context, userSequence []int, catalog []CatalogItem) ([]float64, error)
}

// CatalogScraper lists products from a retailer catalog page
type CatalogScraper interface {
	ScrapeCatalog(ctx context.Context) ([]CatalogProduct, error)
}
