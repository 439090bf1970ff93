package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig
	Log           LogConfig
	OpenFoodFacts OpenFoodFactsConfig
	Gemini        GeminiConfig
	SerpAPI       SerpAPIConfig
	Retailers     RetailersConfig
	Fallback      FallbackConfig
	Enrichment    EnrichmentConfig
	OCR           OCRConfig
	Classifier    ClassifierConfig
	Recommender   RecommenderConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxUploadBytes int64    `mapstructure:"max_upload_bytes"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// OpenFoodFactsConfig holds the barcode database client configuration
type OpenFoodFactsConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Attempts      int           `mapstructure:"attempts"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
}

// GeminiConfig holds generative text API configuration.
// The source is disabled when APIKey is empty.
type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// SerpAPIConfig holds shopping search API configuration.
// The source is disabled when APIKey is empty.
type SerpAPIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// RetailersConfig holds the base URLs of scraped retailer sites
type RetailersConfig struct {
	EarthHeroURL string `mapstructure:"earthhero_url"`
	EcoviansURL  string `mapstructure:"ecovians_url"`
}

// FallbackConfig holds the last-resort image search and encyclopedia URLs
type FallbackConfig struct {
	ImageSearchURL  string        `mapstructure:"image_search_url"`
	EncyclopediaURL string        `mapstructure:"encyclopedia_url"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"` // per lookup
}

// EnrichmentConfig holds settings shared by all enrichment sources
type EnrichmentConfig struct {
	SourceTimeout time.Duration `mapstructure:"source_timeout"`
	UserAgent     string        `mapstructure:"user_agent"`
}

// OCRConfig holds text recognition configuration.
// OCR is disabled when Region is empty.
type OCRConfig struct {
	Region string `mapstructure:"region"`
}

// ClassifierConfig holds the eco-score model serving configuration.
// The classifier is disabled when URL is empty.
type ClassifierConfig struct {
	URL           string        `mapstructure:"url"`
	Model         string        `mapstructure:"model"`
	Normalization string        `mapstructure:"normalization"` // "none", "unit" or "imagenet"
	Timeout       time.Duration `mapstructure:"timeout"`
}

// RecommenderConfig holds recommendation ranking configuration
type RecommenderConfig struct {
	Strategy string `mapstructure:"strategy"` // "random" or "history"
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/ecocart/")

	// Environment variable settings
	v.SetEnvPrefix("ECOCART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unprefixed names used by existing deployments
	_ = v.BindEnv("gemini.api_key", "ECOCART_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("serpapi.api_key", "ECOCART_SERPAPI_API_KEY", "SERPAPI_KEY")
	_ = v.BindEnv("ocr.region", "ECOCART_OCR_REGION", "AWS_REGION")

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads a .env file from the working directory if present.
// Variables already set in the environment are not overridden.
func loadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.max_upload_bytes", 10<<20)

	v.SetDefault("log.level", "")

	// Open Food Facts defaults
	v.SetDefault("openfoodfacts.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("openfoodfacts.timeout", "10s")
	v.SetDefault("openfoodfacts.attempts", 1)
	v.SetDefault("openfoodfacts.rate_per_second", 10.0)

	// Enrichment source defaults
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("serpapi.base_url", "https://serpapi.com")
	v.SetDefault("retailers.earthhero_url", "https://earthhero.com")
	v.SetDefault("retailers.ecovians_url", "https://www.ecovians.com")
	v.SetDefault("fallback.image_search_url", "https://www.google.com/search")
	v.SetDefault("fallback.encyclopedia_url", "https://en.wikipedia.org/wiki")
	v.SetDefault("fallback.request_timeout", "5s")
	v.SetDefault("enrichment.source_timeout", "7s")
	v.SetDefault("enrichment.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3")

	// Model defaults
	v.SetDefault("classifier.url", "")
	v.SetDefault("classifier.model", "eco_score")
	v.SetDefault("classifier.normalization", "none")
	v.SetDefault("classifier.timeout", "10s")

	v.SetDefault("recommender.strategy", "random")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	switch config.Classifier.Normalization {
	case "none", "unit", "imagenet":
	default:
		return fmt.Errorf("classifier normalization must be 'none', 'unit' or 'imagenet', got: %s", config.Classifier.Normalization)
	}

	switch config.Recommender.Strategy {
	case "random", "history":
	default:
		return fmt.Errorf("recommender strategy must be 'random' or 'history', got: %s", config.Recommender.Strategy)
	}

	if config.Enrichment.SourceTimeout <= 0 {
		return fmt.Errorf("enrichment source timeout must be positive")
	}

	if config.Fallback.RequestTimeout <= 0 {
		return fmt.Errorf("fallback request timeout must be positive")
	}

	if config.OpenFoodFacts.Attempts < 1 {
		return fmt.Errorf("openfoodfacts attempts must be at least 1, got: %d", config.OpenFoodFacts.Attempts)
	}

	if config.OpenFoodFacts.RatePerSecond <= 0 {
		return fmt.Errorf("openfoodfacts rate_per_second must be positive")
	}

	return nil
}
