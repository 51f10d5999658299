// Package render drives a headless Chrome instance for pages that only
// materialize their content or their links after JavaScript runs. One browser
// process is shared; each operation runs in its own tab.
package render

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultTimeout bounds a single render or discovery pass.
	DefaultTimeout = 30 * time.Second
	// DefaultSettleDelay is the grace period after load for late XHR content.
	DefaultSettleDelay = 2 * time.Second

	maxClickCandidates = 10
)

// Page is the result of a full browser render.
type Page struct {
	HTML     string
	Title    string
	Links    []string
	FinalURL string
}

// Browser owns a long-lived headless Chrome allocator and context.
type Browser struct {
	UserAgent   string
	Timeout     time.Duration
	SettleDelay time.Duration

	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
}

// NewBrowser launches a shared headless browser. Callers must Close it.
func NewBrowser(userAgent string) (*Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
	)
	if userAgent != "" {
		opts = append(opts, chromedp.UserAgent(userAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser process eagerly so launch failures surface here
	// instead of on the first page.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	return &Browser{
		UserAgent:   userAgent,
		Timeout:     DefaultTimeout,
		SettleDelay: DefaultSettleDelay,

		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
	}, nil
}

// Close shuts the browser process down.
func (b *Browser) Close() {
	b.browserCancel()
	b.allocCancel()
}

// newTab opens a fresh tab bounded by the browser timeout and the caller's
// context.
func (b *Browser) newTab(ctx context.Context) (context.Context, context.CancelFunc) {
	tabCtx, tabCancel := chromedp.NewContext(b.browserCtx)
	timeoutCtx, timeoutCancel := context.WithTimeout(tabCtx, b.timeout())
	stop := context.AfterFunc(ctx, timeoutCancel)
	return timeoutCtx, func() {
		stop()
		timeoutCancel()
		tabCancel()
	}
}

func (b *Browser) timeout() time.Duration {
	if b.Timeout > 0 {
		return b.Timeout
	}
	return DefaultTimeout
}

func (b *Browser) settle() time.Duration {
	if b.SettleDelay > 0 {
		return b.SettleDelay
	}
	return DefaultSettleDelay
}

// RenderHTML navigates to a URL and returns the post-JavaScript markup.
func (b *Browser) RenderHTML(ctx context.Context, pageURL string) (string, error) {
	page, err := b.Render(ctx, pageURL)
	if err != nil {
		return "", err
	}
	return page.HTML, nil
}

// Render navigates to a URL and captures markup, title, anchors, and the
// final location after redirects.
func (b *Browser) Render(ctx context.Context, pageURL string) (*Page, error) {
	tabCtx, cancel := b.newTab(ctx)
	defer cancel()

	page := &Page{FinalURL: pageURL}
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		chromedp.Sleep(b.settle()),
		chromedp.Title(&page.Title),
		chromedp.Location(&page.FinalURL),
		chromedp.OuterHTML("html", &page.HTML),
		chromedp.Evaluate(anchorHrefsJS, &page.Links),
	)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", pageURL, err)
	}
	return page, nil
}

// anchorHrefsJS collects absolute anchor targets, skipping non-navigational
// schemes and fragments.
const anchorHrefsJS = `
(() => {
	const links = Array.from(document.querySelectorAll('a[href]'));
	return links.map(a => a.href).filter(href =>
		href &&
		!href.startsWith('javascript:') &&
		!href.startsWith('mailto:') &&
		!href.startsWith('tel:') &&
		!href.startsWith('#')
	);
})()`

// dataAttrURLsJS pulls route hints out of data attributes that client-side
// routers commonly use instead of anchors.
const dataAttrURLsJS = `
(() => {
	const out = [];
	const els = document.querySelectorAll('[data-href], [data-url], [data-link], [data-slug]');
	els.forEach(el => {
		const v = el.dataset.href || el.dataset.url || el.dataset.link || el.dataset.slug;
		if (v) out.push(v);
	});
	return out;
})()`

// clickTargetsJS finds visible containers that look like post cards and are
// clickable, returning their center coordinates.
const clickTargetsJS = `
(() => {
	const out = [];
	const selectors = ['article', '[class*="post"]', '[class*="blog"]', '[class*="article"]', '[class*="card"]'];
	for (const selector of selectors) {
		document.querySelectorAll(selector).forEach(el => {
			const text = (el.textContent || '').trim();
			const rect = el.getBoundingClientRect();
			if (text.length < 10 || text.length > 200 || rect.width <= 0 || rect.height <= 0) {
				return;
			}
			const clickable = el.onclick || el.closest('a') ||
				el.closest('[onclick]') || el.closest('[role="button"]') ||
				getComputedStyle(el).cursor === 'pointer';
			if (clickable) {
				out.push({x: rect.left + rect.width / 2, y: rect.top + rect.height / 2});
			}
		});
	}
	return out.slice(0, 10);
})()`

type clickTarget struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DiscoverLinks renders the base page and harvests candidate URLs three ways:
// anchors and data attributes in the rendered DOM, navigations triggered by
// clicking plausible post cards, and URL-shaped values inside JSON responses
// the page fetched while loading.
func (b *Browser) DiscoverLinks(ctx context.Context, baseURL string) ([]string, error) {
	tabCtx, cancel := b.newTab(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		jsonReqs []network.RequestID
	)
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		resp, ok := ev.(*network.EventResponseReceived)
		if !ok || resp.Response == nil {
			return
		}
		if strings.Contains(resp.Response.MimeType, "json") && resp.Response.Status == 200 {
			mu.Lock()
			jsonReqs = append(jsonReqs, resp.RequestID)
			mu.Unlock()
		}
	})

	var anchors, dataURLs []string
	var clicks []clickTarget
	err := chromedp.Run(tabCtx,
		network.Enable(),
		chromedp.Navigate(baseURL),
		chromedp.WaitReady("body"),
		chromedp.Sleep(b.settle()),
		chromedp.Evaluate(anchorHrefsJS, &anchors),
		chromedp.Evaluate(dataAttrURLsJS, &dataURLs),
		chromedp.Evaluate(clickTargetsJS, &clicks),
	)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", baseURL, err)
	}

	seen := map[string]struct{}{}
	var out []string
	add := func(raw string) {
		full, ok := resolveAgainst(baseURL, raw)
		if !ok {
			return
		}
		if _, dup := seen[full]; dup {
			return
		}
		seen[full] = struct{}{}
		out = append(out, full)
	}

	for _, href := range anchors {
		add(href)
	}
	for _, u := range dataURLs {
		add(u)
	}
	for _, u := range b.urlsFromCapturedJSON(tabCtx, jsonReqs, &mu) {
		add(u)
	}
	for _, u := range b.discoverByClicking(ctx, baseURL, clicks) {
		add(u)
	}
	return out, nil
}

// urlsFromCapturedJSON reads the bodies of captured JSON responses and walks
// them for URL-bearing keys.
func (b *Browser) urlsFromCapturedJSON(tabCtx context.Context, reqs []network.RequestID, mu *sync.Mutex) []string {
	mu.Lock()
	ids := make([]network.RequestID, len(reqs))
	copy(ids, reqs)
	mu.Unlock()

	var out []string
	for _, id := range ids {
		var body []byte
		err := chromedp.Run(tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			body, err = network.GetResponseBody(id).Do(ctx)
			return err
		}))
		if err != nil {
			continue
		}
		var data interface{}
		if err := json.Unmarshal(body, &data); err != nil {
			continue
		}
		walkJSONURLs(data, &out)
	}
	return out
}

// urlKeys are the JSON object keys treated as navigable paths.
var urlKeys = map[string]struct{}{
	"url": {}, "link": {}, "href": {}, "slug": {}, "path": {},
}

func walkJSONURLs(data interface{}, out *[]string) {
	switch v := data.(type) {
	case map[string]interface{}:
		for key, val := range v {
			if _, ok := urlKeys[key]; ok {
				if s, ok := val.(string); ok && s != "" {
					*out = append(*out, s)
					continue
				}
			}
			walkJSONURLs(val, out)
		}
	case []interface{}:
		for _, item := range v {
			walkJSONURLs(item, out)
		}
	}
}

// discoverByClicking reloads the base page in a fresh tab per candidate,
// clicks the candidate's coordinates, and records any in-page navigation.
// Card grids without anchors are the target; each click gets its own tab so
// one navigation cannot poison the next.
func (b *Browser) discoverByClicking(ctx context.Context, baseURL string, targets []clickTarget) []string {
	if len(targets) > maxClickCandidates {
		targets = targets[:maxClickCandidates]
	}
	var out []string
	for _, t := range targets {
		tabCtx, cancel := b.newTab(ctx)
		var landed string
		err := chromedp.Run(tabCtx,
			chromedp.Navigate(baseURL),
			chromedp.WaitReady("body"),
			chromedp.Sleep(time.Second),
			chromedp.MouseClickXY(t.X, t.Y),
			chromedp.Sleep(b.settle()),
			chromedp.Location(&landed),
		)
		cancel()
		if err != nil {
			log.Debug().Err(err).Str("url", baseURL).Msg("click probe failed")
			continue
		}
		if landed != "" && landed != baseURL {
			out = append(out, landed)
		}
	}
	return out
}

// resolveAgainst joins a possibly relative target against the base URL.
func resolveAgainst(baseURL, raw string) (string, bool) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", false
	}
	ref, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	return resolved.String(), true
}
