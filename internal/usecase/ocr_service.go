package usecase

import (
	"context"

	"github.com/ecocart/backend/internal/domain"
)

// OCRService extracts printed text from product photos
type OCRService struct {
	extractor domain.TextExtractor
}

// NewOCRService creates a new OCR service. A nil extractor leaves OCR disabled.
func NewOCRService(extractor domain.TextExtractor) *OCRService {
	return &OCRService{extractor: extractor}
}

// Enabled reports whether a text recognition backend is configured
func (s *OCRService) Enabled() bool {
	return s.extractor != nil
}

// ExtractText returns the recognized text verbatim
func (s *OCRService) ExtractText(ctx context.Context, imageData []byte) (string, error) {
	if s.extractor == nil {
		return "", domain.ErrOCRUnavailable
	}
	return s.extractor.ExtractText(ctx, imageData)
}
