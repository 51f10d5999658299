package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/websift/websift/internal/content"
	"github.com/websift/websift/internal/extract"
)

// fetcherFunc adapts a function to the Fetcher interface.
type fetcherFunc func(ctx context.Context, rawURL string) ([]byte, string, error)

func (f fetcherFunc) Get(ctx context.Context, rawURL string) ([]byte, string, error) {
	return f(ctx, rawURL)
}

type rendererFunc func(ctx context.Context, pageURL string) (string, error)

func (f rendererFunc) RenderHTML(ctx context.Context, pageURL string) (string, error) {
	return f(ctx, pageURL)
}

// postPage is a server-rendered article big enough to pass the HTML
// plausibility gate and the qualifying bar.
func postPage(slug string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "<html><head><title>Notes on %s</title></head><body><article>", slug)
	fmt.Fprintf(&b, "<h1>Notes on %s</h1>", slug)
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "<p>Section %d of %s walks through the design decisions, the tradeoffs we accepted, and the measurements that justified shipping it to production.</p>", i+1, slug)
	}
	b.WriteString("</article></body></html>")
	return []byte(b.String())
}

func TestExtractAll_ProducesItems(t *testing.T) {
	e := New(fetcherFunc(func(_ context.Context, rawURL string) ([]byte, string, error) {
		return postPage("alpha"), "text/html", nil
	}))

	items := e.ExtractAll(context.Background(), []string{"https://example.com/blog/alpha"})
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	item := items[0]
	if item.SourceURL != "https://example.com/blog/alpha" {
		t.Fatalf("unexpected source url %q", item.SourceURL)
	}
	if item.Type != content.TypeBlog {
		t.Fatalf("expected blog type, got %q", item.Type)
	}
	if item.Title != "Notes on alpha" {
		t.Fatalf("expected heading title, got %q", item.Title)
	}
	if len(strings.TrimSpace(item.Content)) <= minQualifyingChars {
		t.Fatalf("content under qualifying bar: %d chars", len(item.Content))
	}
}

func TestExtractAll_ConcurrencyBound(t *testing.T) {
	var inFlight, maxObserved int32
	e := New(fetcherFunc(func(_ context.Context, rawURL string) ([]byte, string, error) {
		curr := atomic.AddInt32(&inFlight, 1)
		for {
			prev := atomic.LoadInt32(&maxObserved)
			if curr <= prev || atomic.CompareAndSwapInt32(&maxObserved, prev, curr) {
				break
			}
		}
		time.Sleep(100 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return postPage("bound"), "text/html", nil
	}))
	e.MaxConcurrent = 2

	urls := make([]string, 6)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://example.com/blog/p%d", i)
	}
	_ = e.ExtractAll(context.Background(), urls)

	if got := atomic.LoadInt32(&maxObserved); got > 2 {
		t.Fatalf("expected at most 2 concurrent fetches, observed %d", got)
	}
}

func TestExtractAll_FailureIsolation(t *testing.T) {
	e := New(fetcherFunc(func(_ context.Context, rawURL string) ([]byte, string, error) {
		if strings.Contains(rawURL, "broken") {
			return nil, "", errors.New("connection refused")
		}
		return postPage(rawURL[strings.LastIndex(rawURL, "/")+1:]), "text/html", nil
	}))

	items := e.ExtractAll(context.Background(), []string{
		"https://example.com/blog/first",
		"https://example.com/blog/broken",
		"https://example.com/blog/last",
	})
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	// Input order survives the failure in the middle.
	if !strings.HasSuffix(items[0].SourceURL, "/first") || !strings.HasSuffix(items[1].SourceURL, "/last") {
		t.Fatalf("unexpected item order: %v, %v", items[0].SourceURL, items[1].SourceURL)
	}
}

func TestExtractOne_BrowserFallbackOnShellPage(t *testing.T) {
	shell := []byte(`<html><body><div id="root"></div><script src="/app.js"></script></body></html>`)
	var rendered int32

	e := New(fetcherFunc(func(_ context.Context, rawURL string) ([]byte, string, error) {
		return shell, "text/html", nil
	}))
	e.Renderer = rendererFunc(func(_ context.Context, pageURL string) (string, error) {
		atomic.AddInt32(&rendered, 1)
		return string(postPage("hydrated")), nil
	})

	item, ok := e.extractOne(context.Background(), "https://example.com/blog/hydrated")
	if !ok {
		t.Fatalf("expected browser fallback to produce an item")
	}
	if atomic.LoadInt32(&rendered) != 1 {
		t.Fatalf("expected exactly one render, got %d", rendered)
	}
	if !strings.Contains(item.Content, "design decisions") {
		t.Fatalf("expected rendered content, got:\n%s", item.Content)
	}
}

func TestExtractOne_AbandonedWithoutRenderer(t *testing.T) {
	e := New(fetcherFunc(func(_ context.Context, rawURL string) ([]byte, string, error) {
		return []byte("<html><body></body></html>"), "text/html", nil
	}))
	if _, ok := e.extractOne(context.Background(), "https://example.com/empty"); ok {
		t.Fatalf("expected abandonment for empty page without renderer")
	}
}

func TestExtractOne_RenderFailureIsNotFatal(t *testing.T) {
	e := New(fetcherFunc(func(_ context.Context, rawURL string) ([]byte, string, error) {
		return nil, "", errors.New("timeout")
	}))
	e.Renderer = rendererFunc(func(_ context.Context, pageURL string) (string, error) {
		return "", errors.New("browser crashed")
	})
	if _, ok := e.extractOne(context.Background(), "https://example.com/x"); ok {
		t.Fatalf("expected no item when both fetch and render fail")
	}
}

type fixedStrategy struct {
	name string
	text string
}

func (s fixedStrategy) Name() string { return s.name }

func (s fixedStrategy) Extract(pageURL string, _ []byte) (content.Item, bool) {
	if s.text == "" {
		return content.Item{}, false
	}
	return content.Item{Title: s.name, Content: s.text, Type: content.TypeBlog, SourceURL: pageURL}, true
}

var _ extract.Strategy = fixedStrategy{}

func TestRace_FirstQualifyingWins(t *testing.T) {
	long := strings.Repeat("substantial extracted sentence. ", 20)
	e := &Engine{Strategies: []extract.Strategy{
		fixedStrategy{name: "short", text: "too little"},
		fixedStrategy{name: "empty"},
		fixedStrategy{name: "long", text: long},
	}}

	item, ok := e.race("https://example.com/x", nil)
	if !ok {
		t.Fatalf("expected a qualifying result")
	}
	if item.Title != "long" {
		t.Fatalf("expected the qualifying strategy to win, got %q", item.Title)
	}
}

func TestRace_NothingQualifies(t *testing.T) {
	e := &Engine{Strategies: []extract.Strategy{
		fixedStrategy{name: "short", text: "too little"},
		fixedStrategy{name: "empty"},
	}}
	if _, ok := e.race("https://example.com/x", nil); ok {
		t.Fatalf("expected no qualifying result")
	}
}
