// Package config defines the process configuration structure and its loading.
// Both pipeline components receive their settings from here at construction;
// nothing reads the environment at request time.
package config

import (
	"time"

	"github.com/yourorg/taxa-api/inat"
)

// Config contains process configuration. Durations are expressed as integer
// fields so env overrides stay plain numbers.
type Config struct {
	// Addr configures the HTTP listen address, e.g. ":4003".
	Addr string `koanf:"addr"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// INatBaseURL points at the iNaturalist v1 API; overridden in tests to a
	// mock upstream.
	INatBaseURL string `koanf:"inat_base_url"`

	// UserAgent identifies this service to the upstream API.
	UserAgent string `koanf:"user_agent"`

	// UpstreamTimeoutMS bounds each outbound call.
	UpstreamTimeoutMS int `koanf:"upstream_timeout_ms"`

	// UpstreamRPS and UpstreamBurst shape the outbound token bucket.
	UpstreamRPS   float64 `koanf:"upstream_rps"`
	UpstreamBurst int     `koanf:"upstream_burst"`

	// RetryMax caps GET retries against the upstream.
	RetryMax int `koanf:"retry_max"`

	// IconicTaxon restricts taxa searches to one iconic group.
	IconicTaxon string `koanf:"iconic_taxon"`

	// MaxPages bounds pagination when oversampling observations.
	MaxPages int `koanf:"max_pages"`

	// Redis settings for the optional taxon cache; empty addr disables it.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// CacheTTLSeconds / NegativeCacheTTLSeconds tune the taxon cache.
	CacheTTLSeconds         int `koanf:"cache_ttl_seconds"`
	NegativeCacheTTLSeconds int `koanf:"negative_cache_ttl_seconds"`
}

// New returns the defaults.
func New() *Config {
	return &Config{
		Addr:                    ":4003",
		LogLevel:                "info",
		INatBaseURL:             inat.DefaultBaseURL,
		UserAgent:               "taxa-api/1.0",
		UpstreamTimeoutMS:       8000,
		UpstreamRPS:             1,
		UpstreamBurst:           2,
		RetryMax:                2,
		IconicTaxon:             "Insecta",
		MaxPages:                3,
		CacheTTLSeconds:         86400,
		NegativeCacheTTLSeconds: 600,
	}
}

func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutMS) * time.Millisecond
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c *Config) NegativeCacheTTL() time.Duration {
	return time.Duration(c.NegativeCacheTTLSeconds) * time.Second
}
