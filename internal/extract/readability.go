package extract

import (
	"bytes"
	"net/url"

	readability "github.com/go-shiori/go-readability"

	"github.com/websift/websift/internal/content"
)

// Readability wraps go-readability's main-content detection. The library can
// panic on pathological DOM shapes, so the call is fenced; a panic counts as
// no item, never as a pipeline failure.
type Readability struct{}

func (Readability) Name() string { return "readability" }

func (Readability) Extract(pageURL string, raw []byte) (item content.Item, ok bool) {
	defer func() {
		if recover() != nil {
			item, ok = content.Item{}, false
		}
	}()

	u, err := url.Parse(pageURL)
	if err != nil {
		return content.Item{}, false
	}
	article, err := readability.FromReader(bytes.NewReader(raw), u)
	if err != nil {
		return content.Item{}, false
	}
	text := normalizeWhitespace(article.TextContent)
	return buildItem(pageURL, article.Title, text, raw)
}
