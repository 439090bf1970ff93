package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ecocart/backend/config"
	httpDelivery "github.com/ecocart/backend/internal/delivery/http"
	"github.com/ecocart/backend/internal/domain"
	"github.com/ecocart/backend/internal/infrastructure/barcode"
	"github.com/ecocart/backend/internal/infrastructure/ecomodel"
	"github.com/ecocart/backend/internal/infrastructure/gemini"
	"github.com/ecocart/backend/internal/infrastructure/ocr"
	"github.com/ecocart/backend/internal/infrastructure/openfoodfacts"
	"github.com/ecocart/backend/internal/infrastructure/scraper"
	"github.com/ecocart/backend/internal/infrastructure/serpapi"
	"github.com/ecocart/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.Server.Environment, cfg.Log.Level)

	log.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Msg("Starting EcoCart Backend v1.0.0")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Barcode lookup
	offClient := openfoodfacts.NewClient(
		cfg.OpenFoodFacts.BaseURL,
		cfg.OpenFoodFacts.Timeout,
		cfg.OpenFoodFacts.Attempts,
		cfg.OpenFoodFacts.RatePerSecond,
	)
	if cfg.Server.Environment == "development" {
		offClient.SetDebug(true)
	}
	barcodeService := usecase.NewBarcodeService(barcode.NewDecoder(), offClient)

	// Enrichment pipeline
	tiers, ecovians := buildSourceChain(cfg)
	sourceNames := make([]string, 0, len(tiers))
	for _, t := range tiers {
		sourceNames = append(sourceNames, t.Source.Name())
	}
	log.Info().Strs("sources", sourceNames).Msg("Enrichment sources assembled")

	enrichmentService := usecase.NewEnrichmentService(tiers, ecovians, usecase.EnrichmentServiceConfig{
		SourceTimeout: cfg.Enrichment.SourceTimeout,
	})

	// Recommendations
	ranker, err := usecase.NewRanker(cfg.Recommender.Strategy)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid recommender configuration")
	}
	recommendationService := usecase.NewRecommendationService(ranker, enrichmentService)

	// Catalog
	earthHero := scraper.NewEarthHero(cfg.Retailers.EarthHeroURL, cfg.Enrichment.UserAgent, cfg.Enrichment.SourceTimeout)
	catalogService := usecase.NewCatalogService(earthHero)

	services := httpDelivery.Services{
		Barcode:         barcodeService,
		OCR:             usecase.NewOCRService(buildTextExtractor(ctx, cfg)),
		EcoScore:        buildEcoScoreService(cfg),
		Recommendations: recommendationService,
		Catalog:         catalogService,
		Enrichment:      enrichmentService,
	}

	handler := httpDelivery.NewHandler(services, sourceNames, cfg.Server.MaxUploadBytes)
	router := httpDelivery.SetupRouter(cfg, handler)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// buildSourceChain assembles the enrichment sources in priority order.
// Sources needing credentials are only included when configured.
func buildSourceChain(cfg *config.Config) ([]usecase.SourceTier, *scraper.Ecovians) {
	timeout := cfg.Enrichment.SourceTimeout
	agent := cfg.Enrichment.UserAgent

	var tiers []usecase.SourceTier

	if cfg.Gemini.APIKey != "" {
		tiers = append(tiers, usecase.SourceTier{
			Source:          gemini.NewClient(cfg.Gemini.BaseURL, cfg.Gemini.Model, cfg.Gemini.APIKey, timeout),
			RequireComplete: true,
		})
	} else {
		log.Warn().Msg("Gemini API key not configured, skipping source")
	}

	if cfg.SerpAPI.APIKey != "" {
		tiers = append(tiers, usecase.SourceTier{
			Source:          serpapi.NewClient(cfg.SerpAPI.BaseURL, cfg.SerpAPI.APIKey, timeout),
			RequireComplete: true,
		})
	} else {
		log.Warn().Msg("SerpApi key not configured, skipping source")
	}

	ecovians := scraper.NewEcovians(cfg.Retailers.EcoviansURL, agent, timeout)
	tiers = append(tiers,
		usecase.SourceTier{Source: scraper.NewEarthHero(cfg.Retailers.EarthHeroURL, agent, timeout)},
		usecase.SourceTier{Source: ecovians},
		usecase.SourceTier{Source: scraper.NewWebFallback(cfg.Fallback.ImageSearchURL, cfg.Fallback.EncyclopediaURL, agent, cfg.Fallback.RequestTimeout)},
	)

	return tiers, ecovians
}

// buildTextExtractor returns nil when no AWS region is configured
func buildTextExtractor(ctx context.Context, cfg *config.Config) domain.TextExtractor {
	if cfg.OCR.Region == "" {
		log.Warn().Msg("OCR region not configured, /api/ocr disabled")
		return nil
	}
	extractor, err := ocr.NewExtractor(ctx, cfg.OCR.Region)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize OCR, /api/ocr disabled")
		return nil
	}
	log.Info().Str("region", cfg.OCR.Region).Msg("OCR configured")
	return extractor
}

func buildEcoScoreService(cfg *config.Config) *usecase.EcoScoreService {
	normalization, err := ecomodel.ParseNormalization(cfg.Classifier.Normalization)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid classifier configuration")
	}
	if cfg.Classifier.URL == "" {
		log.Warn().Msg("Classifier URL not configured, /predict-eco-score/ disabled")
		return usecase.NewEcoScoreService(nil, normalization)
	}
	model := ecomodel.NewServingClient(cfg.Classifier.URL, cfg.Classifier.Model, cfg.Classifier.Timeout)
	log.Info().Str("url", cfg.Classifier.URL).Str("model", cfg.Classifier.Model).Msg("Classifier configured")
	return usecase.NewEcoScoreService(model, normalization)
}

// setupLogger configures the global zerolog logger. An explicit level
// overrides the environment default.
func setupLogger(env, level string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if level != "" {
		if parsed, err := zerolog.ParseLevel(level); err == nil {
			zerolog.SetGlobalLevel(parsed)
		}
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
