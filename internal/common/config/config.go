// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Scraper   ScraperConfig   `mapstructure:"scraper"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Publish   PublishConfig   `mapstructure:"publish"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ScraperConfig holds settings for the Apify scraping provider.
type ScraperConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	ActorID string        `mapstructure:"actor_id"`
	Timeout int           `mapstructure:"timeout"` // milliseconds
	Filters FiltersConfig `mapstructure:"filters"`
}

// GetTimeout returns the scraper HTTP timeout as a duration.
func (s ScraperConfig) GetTimeout() time.Duration {
	return time.Duration(s.Timeout) * time.Millisecond
}

// FiltersConfig mirrors the actor's search input. Since/until are
// recomputed per run and deliberately absent here.
type FiltersConfig struct {
	WordsAnd     []string `mapstructure:"words_and"`
	WordsOr      []string `mapstructure:"words_or"`
	Hashtag      []string `mapstructure:"hashtag"`
	MaxItems     int      `mapstructure:"max_items"`
	FromUser     string   `mapstructure:"from_user"`
	ToUser       string   `mapstructure:"to_user"`
	Type         string   `mapstructure:"type"`
	Lang         string   `mapstructure:"lang"`
	Verified     bool     `mapstructure:"verified"`
	BlueVerified bool     `mapstructure:"blue_verified"`
	Retweets     bool     `mapstructure:"retweets"`
	Replies      bool     `mapstructure:"replies"`
	Mentions     bool     `mapstructure:"mentions"`
	Hashtags     bool     `mapstructure:"hashtags"`
	Images       bool     `mapstructure:"images"`
	Videos       bool     `mapstructure:"videos"`
	MinLikes     int      `mapstructure:"min_likes"`
	MinReplies   int      `mapstructure:"min_replies"`
	MinRetweets  int      `mapstructure:"min_retweets"`
	Geocode      string   `mapstructure:"geocode"`
	Place        string   `mapstructure:"place"`
	Near         string   `mapstructure:"near"`
	Within       string   `mapstructure:"within"`
}

// GeminiConfig holds settings for the Gemini generateContent API.
type GeminiConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	TopP        float64 `mapstructure:"top_p"`
	TopK        int     `mapstructure:"top_k"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
}

// GetTimeout returns the Gemini HTTP timeout as a duration.
func (g GeminiConfig) GetTimeout() time.Duration {
	return time.Duration(g.Timeout) * time.Millisecond
}

// StorageConfig holds the flat-file artifact directories.
type StorageConfig struct {
	DataDir     string `mapstructure:"data_dir"`
	ScrapedDir  string `mapstructure:"scraped_dir"`
	AnalysisDir string `mapstructure:"analysis_dir"`
}

// PublishConfig holds settings for the best-effort git publish stage.
type PublishConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	RepoPath    string `mapstructure:"repo_path"`
	RemoteName  string `mapstructure:"remote_name"`
	Token       string `mapstructure:"token"`
	AuthorName  string `mapstructure:"author_name"`
	AuthorEmail string `mapstructure:"author_email"`
}

// DashboardConfig holds settings for the dashboard HTTP server.
type DashboardConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// MetricsConfig holds settings for the prometheus endpoint of the runner.
type MetricsConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// ScheduleConfig holds the optional cron schedule for resident mode.
type ScheduleConfig struct {
	Cron string `mapstructure:"cron"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
