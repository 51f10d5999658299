package extract

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/websift/websift/internal/content"
)

// contentSelectors are tried in order to locate the main content region
// before falling back to <body>.
var contentSelectors = []string{
	"main",
	"article",
	"[role='main']",
	".content",
	".main-content",
	".post-content",
	".article-content",
	".blog-content",
	".entry-content",
	".post-body",
	"#content",
	"#main",
}

// Structural removes boilerplate regions and converts the remaining document
// structure to markdown-flavored text: headings keep their level, list items
// become bullets, paragraphs are blank-line separated.
type Structural struct {
	sanitizer *bluemonday.Policy
}

func NewStructural() *Structural {
	return &Structural{sanitizer: bluemonday.StrictPolicy()}
}

func (s *Structural) Name() string { return "structural" }

func (s *Structural) Extract(pageURL string, raw []byte) (content.Item, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return content.Item{}, false
	}

	doc.Find("script, style, noscript, nav, header, footer, aside, iframe").Remove()

	root := findContentRoot(doc)
	if root == nil {
		return content.Item{}, false
	}

	text := renderStructured(root)
	text = strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(text)))

	return buildItem(pageURL, s.metaTitle(doc), text, raw)
}

// metaTitle prefers Open Graph metadata over the visible heading, the same
// precedence a share card would use.
func (s *Structural) metaTitle(doc *goquery.Document) string {
	if t, ok := doc.Find(`meta[property='og:title']`).Attr("content"); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	if t, ok := doc.Find(`meta[name='twitter:title']`).Attr("content"); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

func findContentRoot(doc *goquery.Document) *goquery.Selection {
	for _, sel := range contentSelectors {
		if s := doc.Find(sel); s.Length() > 0 {
			return s.First()
		}
	}
	if body := doc.Find("body"); body.Length() > 0 {
		return body
	}
	return nil
}

// renderStructured walks content-bearing elements in document order and emits
// markdown-ish text. Nested containers are skipped by only visiting leaf-ish
// text elements.
func renderStructured(root *goquery.Selection) string {
	var b strings.Builder
	root.Find("h1, h2, h3, h4, h5, h6, p, li, blockquote, pre").Each(func(_ int, s *goquery.Selection) {
		text := collapseSpaces(strings.TrimSpace(s.Text()))
		if text == "" {
			return
		}
		switch tag := goquery.NodeName(s); tag {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			level := int(tag[1] - '0')
			fmt.Fprintf(&b, "%s %s\n\n", strings.Repeat("#", level), text)
		case "li":
			fmt.Fprintf(&b, "- %s\n", text)
		default:
			b.WriteString(text)
			b.WriteString("\n\n")
		}
	})
	return b.String()
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
