package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/ecocart/backend/internal/domain"
	"github.com/ecocart/backend/internal/infrastructure/metrics"
)

// Messages returned in BarcodeLookupResult.Message. A found product has
// no message.
const (
	MessageNoBarcode       = "No barcode detected."
	MessageProductNotFound = "Product not found in Open Food Facts."
	MessageDatabaseDown    = "Barcode recognized, but product database not reachable."
)

// BarcodeService decodes a barcode from an image and looks the product up
type BarcodeService struct {
	decoder  domain.BarcodeDecoder
	database domain.ProductDatabase
}

// NewBarcodeService creates a new barcode service
func NewBarcodeService(decoder domain.BarcodeDecoder, database domain.ProductDatabase) *BarcodeService {
	return &BarcodeService{
		decoder:  decoder,
		database: database,
	}
}

// Scan decodes imageData and resolves the barcode. Only an undecodable image
// is an error; "no barcode" and "no product" are results with a message.
func (s *BarcodeService) Scan(ctx context.Context, imageData []byte) (*domain.BarcodeLookupResult, error) {
	code, err := s.decoder.Decode(imageData)
	if err != nil {
		metrics.BarcodeScans.WithLabelValues("decode_error").Inc()
		return nil, err
	}

	if code == "" {
		metrics.BarcodeScans.WithLabelValues("no_barcode").Inc()
		return &domain.BarcodeLookupResult{Message: strPtr(MessageNoBarcode)}, nil
	}

	result := &domain.BarcodeLookupResult{Barcode: strPtr(code)}

	product, err := s.database.LookupBarcode(ctx, code)
	switch {
	case err == nil && product != nil:
		metrics.BarcodeScans.WithLabelValues("found").Inc()
		result.Product = product
	case err == nil, errors.Is(err, domain.ErrNotFound):
		metrics.BarcodeScans.WithLabelValues("not_found").Inc()
		result.Message = strPtr(MessageProductNotFound)
	default:
		metrics.BarcodeScans.WithLabelValues("unreachable").Inc()
		log.Warn().Err(err).Str("barcode", code).Msg("Product database lookup failed")
		result.Message = strPtr(MessageDatabaseDown)
	}

	return result, nil
}

func strPtr(s string) *string {
	return &s
}
