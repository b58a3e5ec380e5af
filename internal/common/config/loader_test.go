// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile_DefaultsApplied(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  name: ideas-pipeline
scraper:
  token: tok
gemini:
  api_key: key
`), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.apify.com", cfg.Scraper.BaseURL)
	assert.Equal(t, "EvFXOhwR6wsOWmdSK", cfg.Scraper.ActorID)
	assert.Equal(t, 5*time.Minute, cfg.Scraper.GetTimeout())
	assert.Equal(t, 1000, cfg.Scraper.Filters.MaxItems)
	assert.Equal(t, "en", cfg.Scraper.Filters.Lang)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 0.1, cfg.Gemini.Temperature)
	assert.Equal(t, 0.8, cfg.Gemini.TopP)
	assert.Equal(t, 40, cfg.Gemini.TopK)
	assert.Equal(t, filepath.Join("data", "scraped"), cfg.Storage.ScrapedDir)
	assert.Equal(t, filepath.Join("data", "analysis"), cfg.Storage.AnalysisDir)
	assert.Equal(t, ":8050", cfg.Dashboard.ListenAddr)
	assert.Equal(t, "Product Ideas Bot", cfg.Publish.AuthorName)
}

func TestLoadFromFile_EnvOverridesEmptyCredentials(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  name: ideas-pipeline\n"), 0o644))

	t.Setenv("APIFY_TOKEN", "env-token")
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("GITHUB_TOKEN", "env-gh")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Scraper.Token)
	assert.Equal(t, "env-key", cfg.Gemini.APIKey)
	assert.Equal(t, "env-gh", cfg.Publish.Token)
}

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		apiKey  string
		wantErr string
	}{
		{"both present", "tok", "key", ""},
		{"missing apify token", "", "key", "APIFY_TOKEN"},
		{"missing gemini key", "tok", "", "GEMINI_API_KEY"},
		{"missing both", "", "", "APIFY_TOKEN, GEMINI_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.Scraper.Token = tt.token
			cfg.Gemini.APIKey = tt.apiKey

			err := ValidateCredentials(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateConfig_RejectsNegativeValues(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Scraper.Timeout = -1

	assert.Error(t, validateConfig(cfg))
}
