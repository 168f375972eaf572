package config

import (
	"fmt"
	"net/mail"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/grandcamel/confluence-skills/internal/errors"
)

// Loader handles loading configuration from multiple sources.
// Precedence: CLI overrides > project config > global config > environment > defaults.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvPrefix("CONFLUENCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return &Loader{v: v}
}

// Load builds the merged configuration. The three credential settings are
// read from CONFLUENCE_SITE_URL, CONFLUENCE_EMAIL and CONFLUENCE_API_TOKEN
// when the config files leave them empty.
func (l *Loader) Load(cliOverrides map[string]interface{}) (*Config, error) {
	if err := l.loadGlobalConfig(); err != nil {
		return nil, err
	}
	if err := l.loadProjectConfig(); err != nil {
		return nil, err
	}
	for key, value := range cliOverrides {
		if value != nil {
			l.v.Set(key, value)
		}
	}

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadValidated loads the configuration and validates the credentials,
// which every command that talks to the API needs.
func (l *Loader) LoadValidated(cliOverrides map[string]interface{}) (*Config, error) {
	cfg, err := l.Load(cliOverrides)
	if err != nil {
		return nil, err
	}
	if err := ValidateCredentials(&cfg.Site); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadGlobalConfig loads configuration from ~/.confluence-skills.yaml
func (l *Loader) loadGlobalConfig() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil // Not a fatal error
	}

	globalConfig := filepath.Join(homeDir, ".confluence-skills.yaml")
	if _, err := os.Stat(globalConfig); err != nil {
		return nil // File doesn't exist, skip
	}

	l.v.SetConfigFile(globalConfig)
	if err := l.v.ReadInConfig(); err != nil {
		return errors.WrapError(err, "Failed to load configuration file: "+globalConfig, errors.ExitConfigError)
	}

	return nil
}

// loadProjectConfig loads configuration from ./.confluence-skills.yaml
func (l *Loader) loadProjectConfig() error {
	configPath := ".confluence-skills.yaml"
	if _, err := os.Stat(configPath); err != nil {
		return nil // File doesn't exist, skip
	}

	l.v.SetConfigFile(configPath)
	if err := l.v.MergeInConfig(); err != nil {
		return errors.WrapError(err, "Failed to load configuration file: "+configPath, errors.ExitConfigError)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) {
	if cfg.Site.SiteURL == "" {
		cfg.Site.SiteURL = os.Getenv("CONFLUENCE_SITE_URL")
	}
	if cfg.Site.Email == "" {
		cfg.Site.Email = os.Getenv("CONFLUENCE_EMAIL")
	}
	if cfg.Site.APIToken == "" {
		cfg.Site.APIToken = os.Getenv("CONFLUENCE_API_TOKEN")
	}
	if cfg.Site.Timeout == 0 {
		cfg.Site.Timeout = getEnvIntOrDefault("CONFLUENCE_TIMEOUT", 0)
	}
	if cfg.Site.Retries == 0 {
		cfg.Site.Retries = getEnvIntOrDefault("CONFLUENCE_RETRIES", 0)
	}
	if cfg.Cache.Path == "" {
		cfg.Cache.Path = os.Getenv("CONFLUENCE_CACHE_PATH")
	}
	if cfg.Skills.Dir == "" {
		cfg.Skills.Dir = os.Getenv("CONFLUENCE_SKILLS_DIR")
	}
}

// ValidateCredentials checks the three required connection settings: the
// site URL must be present and use https, the email must parse as an
// address, and the API token must be non-empty.
func ValidateCredentials(site *SiteConfig) error {
	if site.SiteURL == "" {
		return errors.NewMissingEnvVarError("CONFLUENCE_SITE_URL", "Base URL of the Confluence site")
	}
	u, err := url.Parse(site.SiteURL)
	if err != nil || u.Host == "" {
		return errors.NewInvalidEnvVarError("CONFLUENCE_SITE_URL", site.SiteURL, "Must be a valid URL")
	}
	if u.Scheme != "https" {
		return errors.NewInvalidEnvVarError("CONFLUENCE_SITE_URL", site.SiteURL, "Must use https")
	}

	if site.Email == "" {
		return errors.NewMissingEnvVarError("CONFLUENCE_EMAIL", "Atlassian account email")
	}
	if _, err := mail.ParseAddress(site.Email); err != nil {
		return errors.NewInvalidEnvVarError("CONFLUENCE_EMAIL", site.Email, "Must be a valid email address")
	}

	if site.APIToken == "" {
		return errors.NewMissingEnvVarError("CONFLUENCE_API_TOKEN", "API token for the Atlassian account")
	}

	return nil
}

// GetEnvVar gets an environment variable, returning an error if not set
func GetEnvVar(name, description string) (string, error) {
	value := os.Getenv(name)
	if value == "" {
		return "", errors.NewMissingEnvVarError(name, description)
	}
	return value, nil
}

// GetEnvVarOrDefault gets an environment variable with a default value
func GetEnvVarOrDefault(name, defaultValue string) string {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		var i int
		if _, err := fmt.Sscanf(val, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}
