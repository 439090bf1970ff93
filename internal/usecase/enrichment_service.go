package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ecocart/backend/internal/domain"
	"github.com/ecocart/backend/internal/infrastructure/metrics"
)

// SourceTier is one step of the enrichment fallback chain. A tier with
// RequireComplete only ends the chain once both an image and a description
// are known; other tiers end it as soon as a description is known.
type SourceTier struct {
	Source          domain.EnrichmentSource
	RequireComplete bool
}

// EnrichmentServiceConfig holds configuration for the enrichment service
type EnrichmentServiceConfig struct {
	SourceTimeout time.Duration
}

// EnrichmentService turns a product name into a ProductRecord by walking
// the source chain in priority order.
type EnrichmentService struct {
	tiers         []SourceTier
	resolver      domain.SourceURLResolver
	sourceTimeout time.Duration
}

// NewEnrichmentService creates a new enrichment service. resolver may be nil,
// in which case records carry an empty sourceUrl.
func NewEnrichmentService(
	tiers []SourceTier,
	resolver domain.SourceURLResolver,
	config EnrichmentServiceConfig,
) *EnrichmentService {
	timeout := config.SourceTimeout
	if timeout <= 0 {
		timeout = 7 * time.Second
	}

	return &EnrichmentService{
		tiers:         tiers,
		resolver:      resolver,
		sourceTimeout: timeout,
	}
}

// Enrich builds the record for productName. It returns (nil, nil) when the
// record does not match the given preference keywords. Source failures never
// surface as errors.
func (s *EnrichmentService) Enrich(
	ctx context.Context,
	productName string,
	preferences []string,
) (*domain.ProductRecord, error) {
	if strings.TrimSpace(productName) == "" {
		return nil, domain.ErrInvalidRequest
	}

	var found domain.PartialProduct
	if curated, ok := lookupCurated(productName); ok {
		found = domain.PartialProduct{
			ImageURL:    curated.ImageURL,
			Description: curated.Description,
			EcoHint:     curated.EcoScore,
		}
	} else {
		found = s.collect(ctx, productName)
	}

	record := &domain.ProductRecord{
		Name:        productName,
		Description: found.Description,
		ImageURL:    found.ImageURL,
		SourceURL:   s.resolveSourceURL(ctx, productName),
	}
	if record.Description == "" {
		record.Description = fallbackDescription(productName)
	}

	if !MatchesPreferences(preferences, record.Name, record.Description) {
		metrics.EnrichmentResults.WithLabelValues("rejected").Inc()
		log.Debug().Str("product", productName).Strs("preferences", preferences).Msg("Product rejected by preferences")
		return nil, nil
	}

	record.EcoScore = InferEcoScore(productName, record.Description)
	metrics.EnrichmentResults.WithLabelValues("accepted").Inc()

	log.Debug().
		Str("product", productName).
		Int("eco_score", record.EcoScore).
		Int("eco_hint", found.EcoHint).
		Bool("has_image", record.ImageURL != "").
		Msg("Product enriched")

	return record, nil
}

// collect runs the tiers in order, merging partial answers until one tier's
// stop condition is met.
func (s *EnrichmentService) collect(ctx context.Context, productName string) domain.PartialProduct {
	var merged domain.PartialProduct

	for _, tier := range s.tiers {
		if ctx.Err() != nil {
			break
		}

		result := s.attempt(ctx, tier.Source, productName)
		if result.Failed() {
			continue
		}
		merged.Merge(result.Product)

		if tier.RequireComplete {
			if merged.Complete() {
				break
			}
		} else if merged.Description != "" {
			break
		}
	}

	return merged
}

// attempt runs one source under its own deadline and records the outcome
func (s *EnrichmentService) attempt(ctx context.Context, source domain.EnrichmentSource, productName string) domain.SourceResult {
	ctx, cancel := context.WithTimeout(ctx, s.sourceTimeout)
	defer cancel()

	start := time.Now()
	result := source.Attempt(ctx, productName)
	metrics.SourceDuration.WithLabelValues(source.Name()).Observe(time.Since(start).Seconds())

	outcome := metrics.OutcomeSuccess
	switch {
	case result.Err != nil && errors.Is(result.Err, domain.ErrSourceEmpty):
		outcome = metrics.OutcomeEmpty
	case result.Failed():
		outcome = metrics.OutcomeError
	case !result.Product.Complete():
		outcome = metrics.OutcomePartial
	}
	metrics.SourceAttempts.WithLabelValues(source.Name(), outcome).Inc()

	if result.Failed() {
		log.Warn().
			Err(result.Err).
			Str("source", source.Name()).
			Str("product", productName).
			Msg("Enrichment source yielded nothing")
	}

	return result
}

func (s *EnrichmentService) resolveSourceURL(ctx context.Context, productName string) string {
	if s.resolver == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, s.sourceTimeout)
	defer cancel()
	return s.resolver.Resolve(ctx, productName)
}
