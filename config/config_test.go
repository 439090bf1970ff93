package config

import (
	"os"
	"testing"
	"time"
)

var configEnvVars = []string{
	"ECOCART_SERVER_PORT",
	"ECOCART_SERVER_ENVIRONMENT",
	"ECOCART_SERVER_ALLOWED_ORIGINS",
	"ECOCART_LOG_LEVEL",
	"ECOCART_OPENFOODFACTS_BASE_URL",
	"ECOCART_OPENFOODFACTS_TIMEOUT",
	"ECOCART_OPENFOODFACTS_ATTEMPTS",
	"ECOCART_GEMINI_API_KEY",
	"GEMINI_API_KEY",
	"ECOCART_SERPAPI_API_KEY",
	"SERPAPI_KEY",
	"ECOCART_ENRICHMENT_SOURCE_TIMEOUT",
	"ECOCART_OCR_REGION",
	"AWS_REGION",
	"ECOCART_CLASSIFIER_URL",
	"ECOCART_CLASSIFIER_NORMALIZATION",
	"ECOCART_RECOMMENDER_STRATEGY",
}

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		for _, name := range configEnvVars {
			os.Unsetenv(name)
		}
	}

	// Run from an empty directory so no config.yaml or .env is picked up
	originalDir, _ := os.Getwd()
	defer os.Chdir(originalDir)
	os.Chdir(t.TempDir())

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "5000" {
			t.Errorf("Server.Port = %s, want 5000", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.OpenFoodFacts.BaseURL != "https://world.openfoodfacts.org" {
			t.Errorf("OpenFoodFacts.BaseURL = %s, want https://world.openfoodfacts.org", cfg.OpenFoodFacts.BaseURL)
		}
		if cfg.OpenFoodFacts.Attempts != 1 {
			t.Errorf("OpenFoodFacts.Attempts = %d, want 1", cfg.OpenFoodFacts.Attempts)
		}
		if cfg.Enrichment.SourceTimeout != 7*time.Second {
			t.Errorf("Enrichment.SourceTimeout = %v, want 7s", cfg.Enrichment.SourceTimeout)
		}
		if cfg.Gemini.APIKey != "" {
			t.Errorf("Gemini.APIKey = %s, want empty", cfg.Gemini.APIKey)
		}
		if cfg.Fallback.RequestTimeout != 5*time.Second {
			t.Errorf("Fallback.RequestTimeout = %v, want 5s", cfg.Fallback.RequestTimeout)
		}
		if cfg.Retailers.EcoviansURL != "https://www.ecovians.com" {
			t.Errorf("Retailers.EcoviansURL = %s, want https://www.ecovians.com", cfg.Retailers.EcoviansURL)
		}
		if cfg.Classifier.Normalization != "none" {
			t.Errorf("Classifier.Normalization = %s, want none", cfg.Classifier.Normalization)
		}
		if cfg.Recommender.Strategy != "random" {
			t.Errorf("Recommender.Strategy = %s, want random", cfg.Recommender.Strategy)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("ECOCART_SERVER_PORT", "9090")
		os.Setenv("ECOCART_SERVER_ENVIRONMENT", "production")
		os.Setenv("ECOCART_OPENFOODFACTS_BASE_URL", "https://off.example.com")
		os.Setenv("ECOCART_OPENFOODFACTS_ATTEMPTS", "3")
		os.Setenv("ECOCART_ENRICHMENT_SOURCE_TIMEOUT", "5s")
		os.Setenv("ECOCART_CLASSIFIER_URL", "http://tf-serving:8501")
		os.Setenv("ECOCART_CLASSIFIER_NORMALIZATION", "unit")
		os.Setenv("ECOCART_RECOMMENDER_STRATEGY", "history")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.OpenFoodFacts.BaseURL != "https://off.example.com" {
			t.Errorf("OpenFoodFacts.BaseURL = %s, want https://off.example.com", cfg.OpenFoodFacts.BaseURL)
		}
		if cfg.OpenFoodFacts.Attempts != 3 {
			t.Errorf("OpenFoodFacts.Attempts = %d, want 3", cfg.OpenFoodFacts.Attempts)
		}
		if cfg.Enrichment.SourceTimeout != 5*time.Second {
			t.Errorf("Enrichment.SourceTimeout = %v, want 5s", cfg.Enrichment.SourceTimeout)
		}
		if cfg.Classifier.URL != "http://tf-serving:8501" {
			t.Errorf("Classifier.URL = %s, want http://tf-serving:8501", cfg.Classifier.URL)
		}
		if cfg.Classifier.Normalization != "unit" {
			t.Errorf("Classifier.Normalization = %s, want unit", cfg.Classifier.Normalization)
		}
		if cfg.Recommender.Strategy != "history" {
			t.Errorf("Recommender.Strategy = %s, want history", cfg.Recommender.Strategy)
		}
	})

	t.Run("reads unprefixed API keys", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("GEMINI_API_KEY", "gemini-key")
		os.Setenv("SERPAPI_KEY", "serp-key")
		os.Setenv("AWS_REGION", "eu-west-1")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Gemini.APIKey != "gemini-key" {
			t.Errorf("Gemini.APIKey = %s, want gemini-key", cfg.Gemini.APIKey)
		}
		if cfg.SerpAPI.APIKey != "serp-key" {
			t.Errorf("SerpAPI.APIKey = %s, want serp-key", cfg.SerpAPI.APIKey)
		}
		if cfg.OCR.Region != "eu-west-1" {
			t.Errorf("OCR.Region = %s, want eu-west-1", cfg.OCR.Region)
		}
	})

	t.Run("prefixed API key wins over unprefixed", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("ECOCART_GEMINI_API_KEY", "prefixed")
		os.Setenv("GEMINI_API_KEY", "unprefixed")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Gemini.APIKey != "prefixed" {
			t.Errorf("Gemini.APIKey = %s, want prefixed", cfg.Gemini.APIKey)
		}
	})

	t.Run("fails validation for invalid normalization", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("ECOCART_CLASSIFIER_NORMALIZATION", "invalid")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid normalization")
		}
	})

	t.Run("fails validation for invalid recommender strategy", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("ECOCART_RECOMMENDER_STRATEGY", "lstm")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid strategy")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())

		err := loadEnvFile()
		if err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables from .env file", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())

		envContent := `
# Comment line
TEST_VAR_1=value1
TEST_VAR_2=value2

# Another comment
TEST_VAR_3=value3
`
		if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		os.Unsetenv("TEST_VAR_3")
		defer func() {
			os.Unsetenv("TEST_VAR_1")
			os.Unsetenv("TEST_VAR_2")
			os.Unsetenv("TEST_VAR_3")
		}()

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_VAR_1") != "value1" {
			t.Errorf("TEST_VAR_1 = %s, want value1", os.Getenv("TEST_VAR_1"))
		}
		if os.Getenv("TEST_VAR_2") != "value2" {
			t.Errorf("TEST_VAR_2 = %s, want value2", os.Getenv("TEST_VAR_2"))
		}
		if os.Getenv("TEST_VAR_3") != "value3" {
			t.Errorf("TEST_VAR_3 = %s, want value3", os.Getenv("TEST_VAR_3"))
		}
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())

		os.Setenv("TEST_OVERRIDE", "existing-value")
		defer os.Unsetenv("TEST_OVERRIDE")

		if err := os.WriteFile(".env", []byte("TEST_OVERRIDE=new-value"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value (should not override)", os.Getenv("TEST_OVERRIDE"))
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:        ServerConfig{Port: "5000"},
			OpenFoodFacts: OpenFoodFactsConfig{Attempts: 1, RatePerSecond: 10},
			Enrichment:    EnrichmentConfig{SourceTimeout: 7 * time.Second},
			Fallback:      FallbackConfig{RequestTimeout: 5 * time.Second},
			Classifier:    ClassifierConfig{Normalization: "none"},
			Recommender:   RecommenderConfig{Strategy: "random"},
		}
	}

	t.Run("validates successfully with all required fields", func(t *testing.T) {
		if err := validate(valid()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("rejects zero source timeout", func(t *testing.T) {
		cfg := valid()
		cfg.Enrichment.SourceTimeout = 0
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for zero timeout")
		}
	})

	t.Run("rejects zero fallback request timeout", func(t *testing.T) {
		cfg := valid()
		cfg.Fallback.RequestTimeout = 0
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for zero fallback timeout")
		}
	})

	t.Run("rejects zero attempts", func(t *testing.T) {
		cfg := valid()
		cfg.OpenFoodFacts.Attempts = 0
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for zero attempts")
		}
	})

	t.Run("rejects empty port", func(t *testing.T) {
		cfg := valid()
		cfg.Server.Port = ""
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty port")
		}
	})
}
