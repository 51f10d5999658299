// Package engine turns candidate URLs into extracted content items. Each URL
// is fetched once, its markup raced through every extraction strategy, and
// rendered in a browser only when plain fetching was not enough.
package engine

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/websift/websift/internal/content"
	"github.com/websift/websift/internal/extract"
)

const (
	// minQualifyingChars is the trimmed-content bar a strategy result must
	// clear to win the race.
	minQualifyingChars = 200

	defaultFetchTimeout  = 15 * time.Second
	defaultMaxConcurrent = 5
)

// Fetcher retrieves a URL's body over plain HTTP.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) ([]byte, string, error)
}

// Renderer produces post-JavaScript markup for a URL.
type Renderer interface {
	RenderHTML(ctx context.Context, pageURL string) (string, error)
}

// Engine extracts content from pages with bounded parallelism.
type Engine struct {
	Fetcher    Fetcher
	Strategies []extract.Strategy
	// Renderer enables the browser fallback when non-nil.
	Renderer Renderer
	// MaxConcurrent bounds how many URLs are processed at once. Zero means 5.
	MaxConcurrent int
	// FetchTimeout bounds the plain HTTP fetch per URL. Zero means 15s.
	FetchTimeout time.Duration
}

// New returns an Engine with the default strategy chain.
func New(fetcher Fetcher) *Engine {
	return &Engine{
		Fetcher:    fetcher,
		Strategies: extract.DefaultStrategies(),
	}
}

// ExtractAll processes every URL and returns the items that produced valid
// content, in input order. A URL that fails is logged and dropped; it never
// affects its siblings.
func (e *Engine) ExtractAll(ctx context.Context, urls []string) []content.Item {
	limit := e.MaxConcurrent
	if limit <= 0 {
		limit = defaultMaxConcurrent
	}
	sem := semaphore.NewWeighted(int64(limit))

	type slot struct {
		item content.Item
		ok   bool
	}
	slots := make([]slot, len(urls))

	for i, u := range urls {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		go func(i int, pageURL string) {
			defer sem.Release(1)
			item, ok := e.extractOne(ctx, pageURL)
			slots[i] = slot{item: item, ok: ok}
		}(i, u)
	}
	// Draining the semaphore waits for every in-flight worker.
	if err := sem.Acquire(ctx, int64(limit)); err != nil {
		return nil
	}

	out := make([]content.Item, 0, len(urls))
	for _, s := range slots {
		if s.ok {
			out = append(out, s.item)
		}
	}
	return out
}

// extractOne fetches a page, races the strategies over its markup, and falls
// back to a browser render when the fetch fails, the body is not plausible
// HTML, or no strategy qualified.
func (e *Engine) extractOne(ctx context.Context, pageURL string) (content.Item, bool) {
	raw, fetchErr := e.fetch(ctx, pageURL)
	if fetchErr == nil && extract.LooksLikeHTML(raw) {
		if item, ok := e.race(pageURL, raw); ok {
			return item, true
		}
	} else if fetchErr != nil {
		log.Warn().Err(fetchErr).Str("url", pageURL).Msg("fetch failed")
	}

	if e.Renderer == nil {
		log.Debug().Str("url", pageURL).Msg("no qualifying extraction, abandoning")
		return content.Item{}, false
	}

	html, err := e.Renderer.RenderHTML(ctx, pageURL)
	if err != nil {
		log.Warn().Err(err).Str("url", pageURL).Msg("browser render failed")
		return content.Item{}, false
	}
	if item, ok := e.race(pageURL, []byte(html)); ok {
		return item, true
	}
	log.Debug().Str("url", pageURL).Msg("no qualifying extraction after render")
	return content.Item{}, false
}

func (e *Engine) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	timeout := e.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	body, _, err := e.Fetcher.Get(ctx, pageURL)
	return body, err
}

// race runs every strategy concurrently over the same markup and returns the
// first completed result whose trimmed content clears the qualifying bar.
// Losing strategies finish into the buffered channel and are discarded.
func (e *Engine) race(pageURL string, raw []byte) (content.Item, bool) {
	type result struct {
		item content.Item
		ok   bool
		name string
	}
	results := make(chan result, len(e.Strategies))
	for _, s := range e.Strategies {
		go func(s extract.Strategy) {
			item, ok := s.Extract(pageURL, raw)
			results <- result{item: item, ok: ok, name: s.Name()}
		}(s)
	}

	for range e.Strategies {
		r := <-results
		if r.ok && len(strings.TrimSpace(r.item.Content)) > minQualifyingChars {
			log.Debug().Str("url", pageURL).Str("strategy", r.name).Msg("extraction qualified")
			return r.item, true
		}
	}
	return content.Item{}, false
}
