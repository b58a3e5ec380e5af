// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	// Load .env from multiple possible locations
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like GEMINI_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig() // ignore error if not found

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	// Direct override if still empty
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Load .env from multiple possible locations
func loadEnvFile() {
	// Try multiple paths (for running from different directories)
	possiblePaths := []string{
		".env",          // Current directory
		"../.env",       // Parent directory
		"../../.env",    // Two levels up (for tests in test/e2e/)
		"../../../.env", // Three levels up
	}

	// Also try to find project root by looking for go.mod
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Walk up directories looking for go.mod
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// Direct override if config values are still empty after expansion
func overrideEmptyConfig(cfg *Config) {
	if cfg.Scraper.Token == "" {
		if val := os.Getenv("APIFY_TOKEN"); val != "" {
			cfg.Scraper.Token = val
		}
	}
	if cfg.Gemini.APIKey == "" {
		if val := os.Getenv("GEMINI_API_KEY"); val != "" {
			cfg.Gemini.APIKey = val
		}
	}
	if cfg.Publish.Token == "" {
		if val := os.Getenv("GITHUB_TOKEN"); val != "" {
			cfg.Publish.Token = val
		}
	}
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile() // Load env file first

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "ideas-pipeline"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	// Scraper defaults
	if cfg.Scraper.BaseURL == "" {
		cfg.Scraper.BaseURL = "https://api.apify.com"
	}
	if cfg.Scraper.ActorID == "" {
		cfg.Scraper.ActorID = "EvFXOhwR6wsOWmdSK"
	}
	if cfg.Scraper.Timeout == 0 {
		cfg.Scraper.Timeout = 300000
	}
	if cfg.Scraper.Filters.MaxItems == 0 {
		cfg.Scraper.Filters.MaxItems = 1000
	}
	if cfg.Scraper.Filters.Lang == "" {
		cfg.Scraper.Filters.Lang = "en"
	}
	if cfg.Scraper.Filters.Type == "" {
		cfg.Scraper.Filters.Type = "Top"
	}
	if cfg.Scraper.Filters.MinLikes == 0 {
		cfg.Scraper.Filters.MinLikes = 5
	}
	if cfg.Scraper.Filters.MinReplies == 0 {
		cfg.Scraper.Filters.MinReplies = 2
	}
	if cfg.Scraper.Filters.MinRetweets == 0 {
		cfg.Scraper.Filters.MinRetweets = 1
	}

	// Gemini defaults
	if cfg.Gemini.BaseURL == "" {
		cfg.Gemini.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-2.5-flash"
	}
	if cfg.Gemini.Temperature == 0 {
		cfg.Gemini.Temperature = 0.1
	}
	if cfg.Gemini.TopP == 0 {
		cfg.Gemini.TopP = 0.8
	}
	if cfg.Gemini.TopK == 0 {
		cfg.Gemini.TopK = 40
	}
	if cfg.Gemini.Timeout == 0 {
		cfg.Gemini.Timeout = 120000
	}

	// Storage defaults
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}
	if cfg.Storage.ScrapedDir == "" {
		cfg.Storage.ScrapedDir = filepath.Join(cfg.Storage.DataDir, "scraped")
	}
	if cfg.Storage.AnalysisDir == "" {
		cfg.Storage.AnalysisDir = filepath.Join(cfg.Storage.DataDir, "analysis")
	}

	// Publish defaults
	if cfg.Publish.RepoPath == "" {
		cfg.Publish.RepoPath = "."
	}
	if cfg.Publish.RemoteName == "" {
		cfg.Publish.RemoteName = "origin"
	}
	if cfg.Publish.AuthorName == "" {
		cfg.Publish.AuthorName = "Product Ideas Bot"
	}
	if cfg.Publish.AuthorEmail == "" {
		cfg.Publish.AuthorEmail = "bot@ideas-pipeline.local"
	}

	// Server defaults
	if cfg.Dashboard.ListenAddr == "" {
		cfg.Dashboard.ListenAddr = ":8050"
	}
	if cfg.Metrics.ListenAddr == "" {
		cfg.Metrics.ListenAddr = ":9102"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// validateConfig checks structural settings shared by all binaries.
// Credentials are checked separately so the dashboard can run without them.
func validateConfig(cfg *Config) error {
	if cfg.Scraper.Timeout < 0 || cfg.Gemini.Timeout < 0 {
		return fmt.Errorf("timeouts must be non-negative")
	}
	if cfg.Scraper.Filters.MaxItems < 0 {
		return fmt.Errorf("scraper.filters.max_items must be non-negative")
	}
	return nil
}

// ValidateCredentials checks for the credentials a pipeline run requires.
// Called by the runner before a run is allowed to start.
func ValidateCredentials(cfg *Config) error {
	var missing []string
	if cfg.Scraper.Token == "" {
		missing = append(missing, "APIFY_TOKEN")
	}
	if cfg.Gemini.APIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}
