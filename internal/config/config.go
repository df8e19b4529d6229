// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/contact-finder/internal/ratelimit"
)

// Defaults for values the environment and config file leave unset.
const (
	DefaultDNSTimeout        = 5 * time.Second
	DefaultSourcingTimeout   = 10 * time.Second
	DefaultCacheTTL          = 24 * time.Hour
	DefaultScrapeDelay       = 500 * time.Millisecond
	DefaultSourcingRateLimit = 30
	DefaultMaxResults        = 10
	MaxAllowedResults        = 50
)

// Duration is a time.Duration that reads and writes as a Go duration string ("5s").
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"5s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values come from the environment or defaults.
type Config struct {
	AppEnv string `json:"app_env,omitempty"` // development enables console logs

	// Public-name sourcing
	GoogleAPIKey      string   `json:"google_api_key,omitempty"`      // Custom Search API key
	GoogleCX          string   `json:"google_cx,omitempty"`           // Custom Search engine id
	UseBrowser        bool     `json:"use_browser,omitempty"`         // Render thin pages in headless Chrome
	ScrapeDelay       Duration `json:"scrape_delay,omitempty"`        // Pause between scraped pages
	SourcingTimeout   Duration `json:"sourcing_timeout,omitempty"`    // Bound on one sourcing call
	SourcingRateLimit int      `json:"sourcing_rate_limit,omitempty"` // Sourcing calls per domain per hour
	PeopleFile        string   `json:"people_file,omitempty"`         // Offline person records keyed by domain

	// Domain checks
	DNSTimeout Duration `json:"dns_timeout,omitempty"`

	// Response cache
	CacheTTL  Duration `json:"cache_ttl,omitempty"`
	RedisAddr string   `json:"redis_addr,omitempty"`
	RedisDB   int      `json:"redis_db,omitempty"`

	// Storage and policy
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	PolicyFile  string `json:"policy_file,omitempty"`  // JSON overlay for policy tables

	MaxResults int `json:"max_results,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		AppEnv:            "production",
		ScrapeDelay:       Duration(DefaultScrapeDelay),
		SourcingTimeout:   Duration(DefaultSourcingTimeout),
		SourcingRateLimit: DefaultSourcingRateLimit,
		DNSTimeout:        Duration(DefaultDNSTimeout),
		CacheTTL:          Duration(DefaultCacheTTL),
		MaxResults:        DefaultMaxResults,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load resolves the effective configuration: file values win over environment
// values, which win over Defaults. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	merged := cfg.MergeWithDefaults(FromEnv())
	merged = merged.MergeWithDefaults(Defaults())

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.MaxResults < 0 || c.MaxResults > MaxAllowedResults {
		return fmt.Errorf("config error: 'max_results' must be between 0 and %d", MaxAllowedResults)
	}
	if c.SourcingRateLimit < 0 {
		return fmt.Errorf("config error: 'sourcing_rate_limit' must be non-negative")
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("config error: 'redis_db' must be non-negative")
	}
	for name, d := range map[string]Duration{
		"dns_timeout":      c.DNSTimeout,
		"sourcing_timeout": c.SourcingTimeout,
		"cache_ttl":        c.CacheTTL,
		"scrape_delay":     c.ScrapeDelay,
	} {
		if d < 0 {
			return fmt.Errorf("config error: '%s' must be non-negative", name)
		}
	}
	if (c.GoogleAPIKey == "") != (c.GoogleCX == "") {
		return fmt.Errorf("config error: 'google_api_key' and 'google_cx' must be set together")
	}

	if c.PolicyFile != "" {
		if _, err := os.Stat(c.PolicyFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: policy file not found: %s", c.PolicyFile)
		}
	}
	if c.PeopleFile != "" {
		if _, err := os.Stat(c.PeopleFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: people file not found: %s", c.PeopleFile)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.AppEnv == "" {
		result.AppEnv = defaults.AppEnv
	}
	if result.GoogleAPIKey == "" {
		result.GoogleAPIKey = defaults.GoogleAPIKey
	}
	if result.GoogleCX == "" {
		result.GoogleCX = defaults.GoogleCX
	}
	if result.PeopleFile == "" {
		result.PeopleFile = defaults.PeopleFile
	}
	if result.RedisAddr == "" {
		result.RedisAddr = defaults.RedisAddr
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.PolicyFile == "" {
		result.PolicyFile = defaults.PolicyFile
	}

	if result.ScrapeDelay == 0 {
		result.ScrapeDelay = defaults.ScrapeDelay
	}
	if result.SourcingTimeout == 0 {
		result.SourcingTimeout = defaults.SourcingTimeout
	}
	if result.DNSTimeout == 0 {
		result.DNSTimeout = defaults.DNSTimeout
	}
	if result.CacheTTL == 0 {
		result.CacheTTL = defaults.CacheTTL
	}

	if result.SourcingRateLimit == 0 {
		result.SourcingRateLimit = defaults.SourcingRateLimit
	}
	if result.RedisDB == 0 {
		result.RedisDB = defaults.RedisDB
	}
	if result.MaxResults == 0 {
		result.MaxResults = defaults.MaxResults
	}

	// Bools cannot distinguish unset from false, so either source can switch them on.
	result.UseBrowser = result.UseBrowser || defaults.UseBrowser

	return result
}

// RateLimit returns the limiter settings for name sourcing.
func (c *Config) RateLimit() *ratelimit.Config {
	rl := ratelimit.DefaultConfig()
	rl.Limit = c.SourcingRateLimit
	rl.Enabled = c.SourcingRateLimit > 0
	if rl.Burst > rl.Limit {
		rl.Burst = rl.Limit
	}
	return rl
}
