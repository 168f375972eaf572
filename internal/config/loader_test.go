package config

import (
	"strings"
	"testing"

	"github.com/grandcamel/confluence-skills/internal/errors"
)

func validSite() *SiteConfig {
	return &SiteConfig{
		SiteURL:  "https://example.atlassian.net",
		Email:    "user@example.com",
		APIToken: "token-value",
	}
}

func TestValidateCredentials_Valid(t *testing.T) {
	if err := ValidateCredentials(validSite()); err != nil {
		t.Errorf("valid credentials rejected: %v", err)
	}
}

func TestValidateCredentials_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SiteConfig)
		envVar string
	}{
		{"no site url", func(s *SiteConfig) { s.SiteURL = "" }, "CONFLUENCE_SITE_URL"},
		{"no email", func(s *SiteConfig) { s.Email = "" }, "CONFLUENCE_EMAIL"},
		{"no token", func(s *SiteConfig) { s.APIToken = "" }, "CONFLUENCE_API_TOKEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			site := validSite()
			tt.mutate(site)
			err := ValidateCredentials(site)
			if err == nil {
				t.Fatal("expected error")
			}
			if _, ok := err.(*errors.MissingEnvVarError); !ok {
				t.Errorf("error type %T", err)
			}
			if !strings.Contains(err.Error(), tt.envVar) {
				t.Errorf("message %q does not name %s", err.Error(), tt.envVar)
			}
		})
	}
}

func TestValidateCredentials_InvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SiteConfig)
	}{
		{"http url", func(s *SiteConfig) { s.SiteURL = "http://example.atlassian.net" }},
		{"not a url", func(s *SiteConfig) { s.SiteURL = "://bad" }},
		{"bad email", func(s *SiteConfig) { s.Email = "not-an-email" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			site := validSite()
			tt.mutate(site)
			err := ValidateCredentials(site)
			if err == nil {
				t.Fatal("expected error")
			}
			if _, ok := err.(*errors.InvalidEnvVarError); !ok {
				t.Errorf("error type %T", err)
			}
		})
	}
}

func TestSiteConfigDefaults(t *testing.T) {
	site := &SiteConfig{}
	if got := site.GetTimeout().Seconds(); got != 30 {
		t.Errorf("timeout = %vs, want 30s", got)
	}
	if got := site.GetRetries(); got != 3 {
		t.Errorf("retries = %d, want 3", got)
	}
	if got := site.GetBackoff(); got != 2.0 {
		t.Errorf("backoff = %v, want 2.0", got)
	}
	if !site.GetVerifySSL() {
		t.Error("verify_ssl should default to true")
	}

	off := false
	site.VerifySSL = &off
	if site.GetVerifySSL() {
		t.Error("explicit false ignored")
	}
}

func TestCacheConfigDefaults(t *testing.T) {
	cache := &CacheConfig{}
	if got := cache.GetTTL().Minutes(); got != 5 {
		t.Errorf("ttl = %vm, want 5m", got)
	}
	if cache.GetPath() == "" {
		t.Error("path default missing")
	}
	cache.TTL = 60
	if got := cache.GetTTL().Seconds(); got != 60 {
		t.Errorf("ttl = %vs, want 60s", got)
	}
}

func TestLoaderEnvOverrides(t *testing.T) {
	t.Setenv("CONFLUENCE_SITE_URL", "https://env.atlassian.net")
	t.Setenv("CONFLUENCE_EMAIL", "env@example.com")
	t.Setenv("CONFLUENCE_API_TOKEN", "env-token")

	cfg := &Config{}
	applyEnvOverrides(cfg)
	if cfg.Site.SiteURL != "https://env.atlassian.net" {
		t.Errorf("site url = %q", cfg.Site.SiteURL)
	}
	if cfg.Site.Email != "env@example.com" || cfg.Site.APIToken != "env-token" {
		t.Errorf("credentials not read from environment: %+v", cfg.Site)
	}

	// Explicit config wins over environment.
	cfg = &Config{Site: SiteConfig{SiteURL: "https://file.atlassian.net"}}
	applyEnvOverrides(cfg)
	if cfg.Site.SiteURL != "https://file.atlassian.net" {
		t.Errorf("file value overridden: %q", cfg.Site.SiteURL)
	}
}

func TestLoaderCLIOverrides(t *testing.T) {
	t.Setenv("CONFLUENCE_SITE_URL", "")
	t.Setenv("CONFLUENCE_EMAIL", "")
	t.Setenv("CONFLUENCE_API_TOKEN", "")

	loader := NewLoader()
	cfg, err := loader.Load(map[string]interface{}{
		"site.site_url": "https://cli.atlassian.net",
		"max_workers":   8,
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Site.SiteURL != "https://cli.atlassian.net" {
		t.Errorf("cli override lost: %q", cfg.Site.SiteURL)
	}
	if cfg.GetMaxWorkers() != 8 {
		t.Errorf("max workers = %d, want 8", cfg.GetMaxWorkers())
	}
}
