// Package config loads and validates purge-preload configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all tool configuration knobs loaded via Viper.
type Config struct {
	Site    SiteConfig    `mapstructure:"site"`
	Purge   PurgeConfig   `mapstructure:"purge"`
	Warm    WarmConfig    `mapstructure:"warm"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Report  ReportConfig  `mapstructure:"report"`
}

// SiteConfig identifies the target site and its sitemap.
type SiteConfig struct {
	Domain          string `mapstructure:"domain"`
	Protocol        string `mapstructure:"protocol"`
	SitemapPath     string `mapstructure:"sitemap_path"`
	MaxSitemapDepth int    `mapstructure:"max_sitemap_depth"`
}

// PurgeConfig governs the sequential purge phase.
type PurgeConfig struct {
	Skip         bool    `mapstructure:"skip"`
	Path         string  `mapstructure:"path"`
	DelaySeconds float64 `mapstructure:"delay_seconds"`
}

// WarmConfig governs the concurrent cache-warming phase.
type WarmConfig struct {
	Skip           bool `mapstructure:"skip"`
	Workers        int  `mapstructure:"workers"`
	TimeoutSeconds int  `mapstructure:"timeout_seconds"`
}

// HTTPConfig configures outbound HTTP request behavior.
type HTTPConfig struct {
	UserAgent string `mapstructure:"user_agent"`
}

// MetricsConfig controls the optional Prometheus listener.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// ReportConfig controls the optional JSON report artifact.
type ReportConfig struct {
	File string `mapstructure:"file"`
}

// Load builds a Config from the supplied Viper instance.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Site.Domain == "" {
		return fmt.Errorf("site.domain is required")
	}
	if strings.Contains(c.Site.Domain, "/") {
		return fmt.Errorf("site.domain must be a bare host, got %q", c.Site.Domain)
	}
	if c.Site.Protocol != "http" && c.Site.Protocol != "https" {
		return fmt.Errorf("site.protocol must be http or https, got %q", c.Site.Protocol)
	}
	if !strings.HasPrefix(c.Site.SitemapPath, "/") {
		return fmt.Errorf("site.sitemap_path must start with /, got %q", c.Site.SitemapPath)
	}
	if c.Site.MaxSitemapDepth <= 0 {
		return fmt.Errorf("site.max_sitemap_depth must be > 0")
	}
	if !strings.HasPrefix(c.Purge.Path, "/") {
		return fmt.Errorf("purge.path must start with /, got %q", c.Purge.Path)
	}
	if c.Purge.DelaySeconds < 0 {
		return fmt.Errorf("purge.delay_seconds must be >= 0")
	}
	if c.Warm.Workers <= 0 {
		return fmt.Errorf("warm.workers must be > 0")
	}
	if c.Warm.TimeoutSeconds <= 0 {
		return fmt.Errorf("warm.timeout_seconds must be > 0")
	}
	return nil
}

// SitemapURL returns the root sitemap URL derived from the site settings.
func (c Config) SitemapURL() string {
	return fmt.Sprintf("%s://%s%s", c.Site.Protocol, c.Site.Domain, c.Site.SitemapPath)
}

// PurgeBase returns the purge endpoint base URL derived from the site settings.
func (c Config) PurgeBase() string {
	return fmt.Sprintf("%s://%s%s", c.Site.Protocol, c.Site.Domain, strings.TrimSuffix(c.Purge.Path, "/"))
}

// PurgeDelay converts the configured delay into a duration.
func (c Config) PurgeDelay() time.Duration {
	return time.Duration(c.Purge.DelaySeconds * float64(time.Second))
}

// WarmTimeout converts the configured per-request warm timeout into a duration.
func (c Config) WarmTimeout() time.Duration {
	return time.Duration(c.Warm.TimeoutSeconds) * time.Second
}
