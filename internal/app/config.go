package app

import (
	"errors"
	"net/url"
	"strings"
)

// Config holds runtime configuration for one scraping run.
type Config struct {
	// BaseURL is the site root, a content section, or a specific page.
	BaseURL string

	// OutputPath receives the JSON result; empty means stdout.
	OutputPath string

	// MaxItems caps how many discovered URLs are extracted. Zero means 100.
	MaxItems int

	// UseBrowser enables headless rendering for discovery and extraction.
	UseBrowser bool

	// MaxConcurrent bounds parallel extraction. Zero means 10.
	MaxConcurrent int

	// ChunkSize is the soft per-item content ceiling. Zero means 8000.
	ChunkSize int

	// CacheDir enables the on-disk HTTP cache when non-empty.
	CacheDir string
	// CacheClear empties the cache directory before the run.
	CacheClear bool

	// UserAgent overrides the default browser-like agent string.
	UserAgent string

	Verbose bool
}

const (
	defaultMaxItems      = 100
	defaultMaxConcurrent = 10
	defaultChunkSize     = 8000
)

// ValidateConfig checks required settings and limits.
func ValidateConfig(cfg Config) error {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return errors.New("config: url is required")
	}
	u, err := url.Parse(base)
	if err != nil {
		return errors.New("config: url is not parseable")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("config: url must be http or https")
	}
	if u.Host == "" {
		return errors.New("config: url is missing a host")
	}
	if cfg.MaxItems < 0 || cfg.MaxConcurrent < 0 || cfg.ChunkSize < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	return nil
}
