package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/websift/websift/internal/content"
)

// articlePage builds a plausible blog post page with enough body text to
// clear the validity gates.
func articlePage(title, heading string, paragraphs int) []byte {
	var b strings.Builder
	b.WriteString("<html><head>")
	if title != "" {
		fmt.Fprintf(&b, "<title>%s</title>", title)
	}
	b.WriteString(`<meta property="og:title" content="Shared Card Title">`)
	b.WriteString("</head><body>")
	b.WriteString(`<nav><a href="/">Home</a><a href="/about">About</a></nav>`)
	b.WriteString(`<div class="cookie-banner">We use cookies to improve your experience.</div>`)
	b.WriteString("<article>")
	if heading != "" {
		fmt.Fprintf(&b, "<h1>%s</h1>", heading)
	}
	for i := 0; i < paragraphs; i++ {
		fmt.Fprintf(&b, "<p>Paragraph %d covers the migration in detail, including the rollout plan, the failure modes we hit in staging, and the metrics we watched while draining traffic.</p>", i+1)
	}
	b.WriteString("<ul><li>lesson one</li><li>lesson two</li></ul>")
	b.WriteString("</article>")
	b.WriteString("<footer>Copyright 2024</footer>")
	b.WriteString("</body></html>")
	return []byte(b.String())
}

func TestStructural_ExtractsArticle(t *testing.T) {
	raw := articlePage("Doc Title", "Migrating the Queue", 6)
	item, ok := NewStructural().Extract("https://example.com/blog/migrating-the-queue", raw)
	if !ok {
		t.Fatalf("expected extraction to succeed")
	}
	if item.Title != "Shared Card Title" {
		t.Fatalf("expected og:title to win, got %q", item.Title)
	}
	if !strings.Contains(item.Content, "# Migrating the Queue") {
		t.Fatalf("expected heading in structured output:\n%s", item.Content)
	}
	if !strings.Contains(item.Content, "- lesson one") {
		t.Fatalf("expected list bullet in structured output:\n%s", item.Content)
	}
	if !strings.Contains(item.Content, "rollout plan") {
		t.Fatalf("expected paragraph text in output")
	}
	if item.SourceURL != "https://example.com/blog/migrating-the-queue" {
		t.Fatalf("unexpected source url: %q", item.SourceURL)
	}
	if item.Type != content.TypeBlog {
		t.Fatalf("expected blog classification, got %q", item.Type)
	}
}

func TestStructural_DropsBoilerplateRegions(t *testing.T) {
	raw := articlePage("Doc Title", "Heading", 6)
	item, ok := NewStructural().Extract("https://example.com/post", raw)
	if !ok {
		t.Fatalf("expected extraction to succeed")
	}
	for _, banned := range []string{"About", "Copyright"} {
		if strings.Contains(item.Content, banned) {
			t.Fatalf("boilerplate %q leaked into content:\n%s", banned, item.Content)
		}
	}
}

func TestStructural_TooShort(t *testing.T) {
	raw := []byte("<html><body><article><p>tiny</p></article></body></html>")
	if _, ok := NewStructural().Extract("https://example.com/x", raw); ok {
		t.Fatalf("expected rejection of sub-minimum content")
	}
}

func TestDOMText_ExtractsAndSkipsBanners(t *testing.T) {
	raw := articlePage("Fallback Title", "Walking the DOM", 6)
	item, ok := DOMText{}.Extract("https://example.com/blog/dom", raw)
	if !ok {
		t.Fatalf("expected extraction to succeed")
	}
	if !strings.Contains(item.Content, "rollout plan") {
		t.Fatalf("expected paragraph text, got:\n%s", item.Content)
	}
	if strings.Contains(item.Content, "cookies") {
		t.Fatalf("cookie banner leaked into content")
	}
	if strings.Contains(item.Content, "About") {
		t.Fatalf("nav leaked into content")
	}
}

func TestDOMText_ParagraphBoundariesSurvive(t *testing.T) {
	raw := articlePage("T", "H", 4)
	item, ok := DOMText{}.Extract("https://example.com/p", raw)
	if !ok {
		t.Fatalf("expected extraction to succeed")
	}
	if !strings.Contains(item.Content, "\n\n") {
		t.Fatalf("expected blank-line paragraph boundaries")
	}
}

func TestReadability_ExtractsMainContent(t *testing.T) {
	raw := articlePage("Readable Title", "The Long Read", 10)
	item, ok := Readability{}.Extract("https://example.com/blog/long-read", raw)
	if !ok {
		t.Fatalf("expected extraction to succeed")
	}
	if !strings.Contains(item.Content, "rollout plan") {
		t.Fatalf("expected article text, got:\n%s", item.Content)
	}
}

func TestStrategies_NeverPanicOnGarbage(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte(""),
		[]byte("not html at all"),
		[]byte("<html><body><p>" + strings.Repeat("\x00\xff", 600) + "</p></body></html>"),
		[]byte("<div><div><div>" + strings.Repeat("<span>", 200)),
	}
	for _, s := range DefaultStrategies() {
		for i, raw := range inputs {
			func() {
				defer func() {
					if r := recover(); r != nil {
						t.Fatalf("strategy %s panicked on input %d: %v", s.Name(), i, r)
					}
				}()
				_, _ = s.Extract("https://example.com/x", raw)
			}()
		}
	}
}

func TestBuildItem_TitleFallbackChain(t *testing.T) {
	body := strings.Repeat("sentence with enough words to pass the length gate. ", 5)

	t.Run("strategy title wins", func(t *testing.T) {
		item, ok := buildItem("https://example.com/x", "Given Title", body, nil)
		if !ok || item.Title != "Given Title" {
			t.Fatalf("got %+v ok=%v", item, ok)
		}
	})
	t.Run("heading from text", func(t *testing.T) {
		item, ok := buildItem("https://example.com/x", "", "# Text Heading\n\n"+body, nil)
		if !ok || item.Title != "Text Heading" {
			t.Fatalf("got %q ok=%v", item.Title, ok)
		}
	})
	t.Run("document title", func(t *testing.T) {
		raw := []byte("<html><head><title>Doc &amp; Title</title></head><body></body></html>")
		item, ok := buildItem("https://example.com/x", "", body, raw)
		if !ok || item.Title != "Doc & Title" {
			t.Fatalf("got %q ok=%v", item.Title, ok)
		}
	})
	t.Run("untitled last", func(t *testing.T) {
		item, ok := buildItem("https://example.com/x", "", body, nil)
		if !ok || item.Title != "Untitled" {
			t.Fatalf("got %q ok=%v", item.Title, ok)
		}
	})
}

func TestLooksLikeHTML(t *testing.T) {
	cases := []struct {
		name string
		raw  []byte
		want bool
	}{
		{"empty", nil, false},
		{"too small", []byte("<html><body><p>hi</p></body></html>"), false},
		{"real page", articlePage("T", "H", 8), true},
		{
			"spa shell",
			[]byte("<html><head><script>" + strings.Repeat("window.x=1;", 200) + "</script></head></html>"),
			false,
		},
		{
			"padding without structure",
			[]byte(strings.Repeat("plain text ", 200)),
			false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := LooksLikeHTML(tc.raw); got != tc.want {
				t.Fatalf("LooksLikeHTML = %v, want %v", got, tc.want)
			}
		})
	}
}

func BenchmarkStructural(b *testing.B) {
	raw := articlePage("Bench", "Benchmark Article", 20)
	s := NewStructural()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, ok := s.Extract("https://example.com/bench", raw); !ok {
			b.Fatal("extraction failed")
		}
	}
}
