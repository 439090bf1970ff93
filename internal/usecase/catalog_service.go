package usecase

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/ecocart/backend/internal/domain"
)

// CatalogService lists retailer products for the storefront page
type CatalogService struct {
	scraper domain.CatalogScraper
}

// NewCatalogService creates a new catalog service
func NewCatalogService(scraper domain.CatalogScraper) *CatalogService {
	return &CatalogService{scraper: scraper}
}

// ListProducts returns the scraped catalog. Scrape failures yield an empty
// list, never nil.
func (s *CatalogService) ListProducts(ctx context.Context) []domain.CatalogProduct {
	products, err := s.scraper.ScrapeCatalog(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Catalog scrape failed")
		return []domain.CatalogProduct{}
	}
	if products == nil {
		return []domain.CatalogProduct{}
	}
	return products
}
