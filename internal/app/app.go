// Package app wires discovery, extraction, and processing into one run.
package app

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/websift/websift/internal/cache"
	"github.com/websift/websift/internal/content"
	"github.com/websift/websift/internal/discover"
	"github.com/websift/websift/internal/engine"
	"github.com/websift/websift/internal/fetch"
	"github.com/websift/websift/internal/process"
	"github.com/websift/websift/internal/render"
)

// App owns the shared clients for one scraping run.
type App struct {
	cfg       Config
	client    *fetch.Client
	browser   *render.Browser
	engine    *engine.Engine
	processor *process.Processor
}

// New builds the pipeline from configuration. A browser that fails to launch
// is an error here rather than a silent downgrade later.
func New(cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	var httpCache *cache.HTTPCache
	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			if err := cache.Clear(cfg.CacheDir); err != nil {
				return nil, fmt.Errorf("clear cache: %w", err)
			}
		}
		httpCache = &cache.HTTPCache{Dir: cfg.CacheDir}
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = fetch.DefaultUserAgent
	}
	client := &fetch.Client{
		HTTPClient:        &http.Client{Transport: fetch.NewPooledTransport()},
		UserAgent:         ua,
		MaxAttempts:       3,
		PerRequestTimeout: 15 * time.Second,
		Cache:             httpCache,
		MaxConcurrent:     cfg.maxConcurrent(),
	}

	a := &App{
		cfg:    cfg,
		client: client,
		processor: &process.Processor{
			ChunkSize: cfg.ChunkSize,
		},
	}

	if cfg.UseBrowser {
		browser, err := render.NewBrowser(ua)
		if err != nil {
			return nil, err
		}
		a.browser = browser
	}

	eng := engine.New(client)
	eng.MaxConcurrent = cfg.maxConcurrent()
	if a.browser != nil {
		eng.Renderer = a.browser
	}
	a.engine = eng

	return a, nil
}

// Close releases the browser if one was launched.
func (a *App) Close() {
	if a.browser != nil {
		a.browser.Close()
	}
}

func (c Config) maxConcurrent() int {
	if c.MaxConcurrent > 0 {
		return c.MaxConcurrent
	}
	return defaultMaxConcurrent
}

func (c Config) maxItems() int {
	if c.MaxItems > 0 {
		return c.MaxItems
	}
	return defaultMaxItems
}

// Run executes discovery, extraction, and processing. An empty result is a
// normal outcome for sites with no discoverable content, not an error.
func (a *App) Run(ctx context.Context) (content.Result, error) {
	result := content.Result{Site: a.cfg.BaseURL, Items: []content.Item{}}

	urls, err := a.targetURLs(ctx)
	if err != nil {
		return result, err
	}
	if len(urls) == 0 {
		log.Warn().Str("site", a.cfg.BaseURL).Msg("no URLs discovered, site may have no discoverable content")
		return result, nil
	}
	if max := a.cfg.maxItems(); len(urls) > max {
		urls = urls[:max]
	}

	log.Info().Int("urls", len(urls)).Msg("extracting content")
	items := a.engine.ExtractAll(ctx, urls)
	if len(items) == 0 {
		log.Warn().Str("site", a.cfg.BaseURL).Msg("no content extracted from discovered URLs")
		return result, nil
	}
	log.Info().Int("items", len(items)).Msg("extraction done")

	result.Items = a.processor.Process(items)
	log.Info().Int("items", len(result.Items)).Msg("run complete")
	return result, nil
}

// targetURLs decides between extracting the base URL directly and running
// full discovery. A URL naming a specific page skips discovery; the site
// root and known section indexes go through it.
func (a *App) targetURLs(ctx context.Context) ([]string, error) {
	u, err := url.Parse(a.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	if isSpecificPage(u) {
		log.Info().Str("url", a.cfg.BaseURL).Msg("direct URL provided")
		return []string{a.cfg.BaseURL}, nil
	}

	if isSectionIndex(u) {
		log.Info().Str("url", a.cfg.BaseURL).Msg("content section detected")
	}
	log.Info().Str("site", a.cfg.BaseURL).Msg("discovering URLs")

	d, err := discover.New(a.cfg.BaseURL, a.client)
	if err != nil {
		return nil, err
	}
	if a.browser != nil {
		d.Browser = a.browser
	}
	urls := d.Discover(ctx)
	log.Info().Int("urls", len(urls)).Msg("discovery done")
	return urls, nil
}

// isSectionIndex reports whether the URL path is exactly a known content
// section like /blog, which should be expanded through discovery.
func isSectionIndex(u *url.URL) bool {
	path := strings.ToLower(strings.TrimRight(u.Path, "/"))
	for _, section := range discover.SectionPaths() {
		if path == section {
			return true
		}
	}
	return false
}

// isSpecificPage reports whether the URL names one page rather than a site or
// section. Trailing slashes are read as index pages.
func isSpecificPage(u *url.URL) bool {
	if u.Path == "" || u.Path == "/" {
		return false
	}
	if strings.HasSuffix(u.Path, "/") {
		return false
	}
	return !isSectionIndex(u)
}
