// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Cache   CacheConfig   `mapstructure:"cache"`
	GenAI   GenAIConfig   `mapstructure:"genai"`
	Quotes  QuotesConfig  `mapstructure:"quotes"`
	Crypto  CryptoConfig  `mapstructure:"crypto"`
	Scraper ScraperConfig `mapstructure:"scraper"`
	Lookup  LookupConfig  `mapstructure:"lookup"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds settings for the Prometheus /metrics listener.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// CacheConfig holds Redis settings for the provider response cache.
// Leaving Address empty disables caching entirely.
type CacheConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// GenAIConfig holds settings for the Gemini language-model collaborator.
type GenAIConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
	MaxRetries int    `mapstructure:"max_retries"`
}

// QuotesConfig holds settings for the equity quote provider.
type QuotesConfig struct {
	ChartBaseURL string `mapstructure:"chart_base_url"`
	QuoteBaseURL string `mapstructure:"quote_base_url"`
	Timeout      int    `mapstructure:"timeout"`   // milliseconds
	CacheTTL     int    `mapstructure:"cache_ttl"` // seconds
}

// CryptoConfig holds settings for the cryptocurrency quote provider.
type CryptoConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	AssetID  string `mapstructure:"asset_id"`
	Timeout  int    `mapstructure:"timeout"`   // milliseconds
	CacheTTL int    `mapstructure:"cache_ttl"` // seconds
}

// ScraperConfig holds settings for the page-extraction pipeline.
type ScraperConfig struct {
	Timeout   int    `mapstructure:"timeout"`   // milliseconds
	MaxChars  int    `mapstructure:"max_chars"` // content budget passed to the LLM
	UserAgent string `mapstructure:"user_agent"`
}

// LookupConfig holds the optional path to a company table override file.
type LookupConfig struct {
	TablePath string `mapstructure:"table_path"`
}

// --- Duration helpers (timeouts are stored as milliseconds in yaml) ---

func (g GenAIConfig) TimeoutDuration() time.Duration {
	return time.Duration(g.Timeout) * time.Millisecond
}

func (q QuotesConfig) TimeoutDuration() time.Duration {
	return time.Duration(q.Timeout) * time.Millisecond
}

func (q QuotesConfig) CacheTTLDuration() time.Duration {
	return time.Duration(q.CacheTTL) * time.Second
}

func (c CryptoConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Millisecond
}

func (c CryptoConfig) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

func (s ScraperConfig) TimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Millisecond
}
