package config

import (
	"time"
)

// SiteConfig holds the Confluence Cloud connection settings. All three
// credential fields are required; the rest have working defaults.
type SiteConfig struct {
	SiteURL  string `mapstructure:"site_url"`  // https://<site>.atlassian.net
	Email    string `mapstructure:"email"`     // Atlassian account email
	APIToken string `mapstructure:"api_token"` // API token from id.atlassian.com

	Timeout   int     `mapstructure:"timeout"`    // Request timeout in seconds
	Retries   int     `mapstructure:"retries"`    // Retry attempts for transient failures
	Backoff   float64 `mapstructure:"backoff"`    // Exponential backoff multiplier
	VerifySSL *bool   `mapstructure:"verify_ssl"` // nil means true
}

// CacheConfig holds response cache configuration.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // SQLite database file
	TTL     int    `mapstructure:"ttl"`  // Default TTL in seconds
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	LogDir       string `mapstructure:"log_dir"`
	FileLevel    string `mapstructure:"file_level"`    // debug, info, warn, error
	ConsoleLevel string `mapstructure:"console_level"` // debug, info, warn, error
}

// SkillsConfig holds skill manifest discovery settings.
type SkillsConfig struct {
	Dir string `mapstructure:"dir"` // Directory holding skill manifests
}

// Config is the top-level configuration.
type Config struct {
	Site    SiteConfig    `mapstructure:"site"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
	Skills  SkillsConfig  `mapstructure:"skills"`

	// MaxWorkers bounds concurrent API requests in bulk operations.
	MaxWorkers int  `mapstructure:"max_workers"`
	Debug      bool `mapstructure:"debug"`
}

// GetTimeout returns the request timeout as a time.Duration
func (c *SiteConfig) GetTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}

// GetRetries returns the retry count with a default
func (c *SiteConfig) GetRetries() int {
	if c.Retries <= 0 {
		return 3
	}
	return c.Retries
}

// GetBackoff returns the backoff multiplier with a default
func (c *SiteConfig) GetBackoff() float64 {
	if c.Backoff <= 0 {
		return 2.0
	}
	return c.Backoff
}

// GetVerifySSL returns whether TLS certificates are verified (default true)
func (c *SiteConfig) GetVerifySSL() bool {
	if c.VerifySSL == nil {
		return true
	}
	return *c.VerifySSL
}

// GetTTL returns the cache TTL as a time.Duration with a default
func (c *CacheConfig) GetTTL() time.Duration {
	if c.TTL <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.TTL) * time.Second
}

// GetPath returns the cache database path with a default
func (c *CacheConfig) GetPath() string {
	if c.Path == "" {
		return ".confluence-skills/cache.db"
	}
	return c.Path
}

// GetMaxWorkers returns the bulk-operation concurrency with a default
func (c *Config) GetMaxWorkers() int {
	if c.MaxWorkers <= 0 {
		return 4
	}
	return c.MaxWorkers
}
