// Package discover finds candidate content URLs for a site through layered
// heuristics: sitemaps, syndication feeds, known blog paths, and — when those
// come up short — single-page-app markup scanning, navigation crawling, and
// browser-assisted discovery. Stages are cumulative and independently
// failure-tolerant; the result is the deduplicated union of every stage.
package discover

import (
	"context"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/websift/websift/internal/fetch"
)

// minBeforeFallback is the threshold under which the more expensive fallback
// stages (SPA scan, navigation crawl, browser) are attempted.
const minBeforeFallback = 5

// LinkDiscoverer is the optional browser-assisted discovery capability.
type LinkDiscoverer interface {
	DiscoverLinks(ctx context.Context, baseURL string) ([]string, error)
}

// Discoverer produces a best-effort set of in-domain URLs likely to contain
// content, without exhaustive crawling.
type Discoverer struct {
	BaseURL string
	Client  *fetch.Client
	// Browser enables the browser-assisted stage when non-nil.
	Browser LinkDiscoverer
	// SitemapTimeout bounds each sitemap fetch. Zero means 8s.
	SitemapTimeout time.Duration

	domain string
}

// New validates the base URL and returns a Discoverer bound to its domain.
func New(baseURL string, client *fetch.Client) (*Discoverer, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Discoverer{
		BaseURL: baseURL,
		Client:  client,
		domain:  u.Host,
	}, nil
}

// Discover runs every stage and returns the merged candidate set. A failing
// stage is logged and skipped; it never aborts the stages after it.
func (d *Discoverer) Discover(ctx context.Context) []string {
	set := newURLSet()

	type stage struct {
		name     string
		fallback bool
		run      func(context.Context) ([]string, error)
	}
	stages := []stage{
		{"sitemap", false, d.fromSitemaps},
		{"feeds", false, d.fromFeeds},
		{"blog-paths", false, d.fromBlogPaths},
		{"spa", true, d.fromSPAMarkup},
		{"navigation", true, d.fromNavigation},
		{"browser", true, d.fromBrowser},
	}

	for _, s := range stages {
		if s.fallback && set.Len() >= minBeforeFallback {
			continue
		}
		if s.name == "browser" && d.Browser == nil {
			continue
		}
		urls, err := s.run(ctx)
		if err != nil {
			log.Warn().Err(err).Str("stage", s.name).Msg("discovery stage failed")
			continue
		}
		added := 0
		for _, u := range urls {
			if set.Add(u) {
				added++
			}
		}
		log.Debug().Str("stage", s.name).Int("found", len(urls)).Int("new", added).Msg("discovery stage done")
	}

	return set.Slice()
}

func (d *Discoverer) fromBrowser(ctx context.Context) ([]string, error) {
	links, err := d.Browser.DiscoverLinks(ctx, d.BaseURL)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(links))
	for _, l := range links {
		if IsContentURL(l, d.domain) {
			out = append(out, l)
		}
	}
	return out, nil
}

// resolve joins a possibly-relative href against a page URL.
func resolve(pageURL, href string) (string, bool) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	return base.ResolveReference(ref).String(), true
}
