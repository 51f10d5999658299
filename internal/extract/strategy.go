// Package extract implements the text-extraction strategy capability: several
// independent algorithms that each take raw HTML and return an optional
// content item. Strategies are pure, side-effect-free, and never fail on
// malformed input; they simply report no item.
package extract

import (
	"html"
	"regexp"
	"strings"

	"github.com/websift/websift/internal/content"
)

// Strategy converts raw HTML bytes into an optional content item.
// Implementations must be deterministic and must not panic on garbage input.
type Strategy interface {
	Name() string
	Extract(pageURL string, raw []byte) (content.Item, bool)
}

// DefaultStrategies returns the ordered strategy set raced by the engine:
// structural boilerplate removal, readability main-content detection, and the
// generic DOM walk.
func DefaultStrategies() []Strategy {
	return []Strategy{
		NewStructural(),
		Readability{},
		DOMText{},
	}
}

var titleTagRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

// buildItem assembles an item from a strategy's output, applying the shared
// minimum-length gate and the title fallback chain: strategy title, first
// level-1 heading in the text, document <title>, then "Untitled".
func buildItem(pageURL, title, text string, raw []byte) (content.Item, bool) {
	text = strings.TrimSpace(text)
	if len(text) < content.MinItemChars {
		return content.Item{}, false
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = firstHeading(text)
	}
	if title == "" {
		title = documentTitle(raw)
	}
	if title == "" {
		title = "Untitled"
	}
	return content.Item{
		Title:     title,
		Content:   text,
		Type:      content.Classify(pageURL, title, text),
		SourceURL: pageURL,
	}, true
}

// firstHeading returns the first markdown level-1 heading in extracted text.
func firstHeading(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return ""
}

// documentTitle pulls the raw <title> element without a full parse.
func documentTitle(raw []byte) string {
	m := titleTagRe.FindSubmatch(raw)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(string(m[1])))
}
