package discover

import (
	"bytes"
	"context"

	"github.com/PuerkitoBio/goquery"
)

// blogPaths are common section locations checked for anchor links.
var blogPaths = []string{
	"/blog", "/blogs", "/articles", "/posts", "/news", "/resource", "/resources",
	"/insights", "/updates", "/content", "/press", "/media", "/stories",
}

// SectionPaths exposes the known content-section paths so callers can decide
// whether a base URL is a section index rather than a specific page.
func SectionPaths() []string {
	out := make([]string, len(blogPaths))
	copy(out, blogPaths)
	return out
}

// fromBlogPaths probes common section paths and collects anchors passing the
// content heuristic.
func (d *Discoverer) fromBlogPaths(ctx context.Context) ([]string, error) {
	var out []string
	for _, p := range blogPaths {
		sectionURL, ok := resolve(d.BaseURL, p)
		if !ok {
			continue
		}
		body, _, err := d.Client.Get(ctx, sectionURL)
		if err != nil {
			continue
		}
		out = append(out, d.contentAnchors(body, sectionURL)...)
	}
	return out, nil
}

// contentAnchors parses a page and returns resolved hrefs passing IsContentURL.
func (d *Discoverer) contentAnchors(body []byte, pageURL string) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	var out []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		full, ok := resolve(pageURL, href)
		if ok && IsContentURL(full, d.domain) {
			out = append(out, full)
		}
	})
	return out
}
