package discover

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// navigationKeywords mark links that plausibly lead to a content section.
var navigationKeywords = []string{
	"blog", "blogs", "articles", "posts", "news", "resources", "resource",
	"insights", "stories", "updates", "content", "press", "media",
	"guides", "whitepapers", "case studies", "learn", "knowledge",
}

const (
	maxSectionVisits = 3
	maxLooseMatches  = 10
)

// fromNavigation finds navigation links whose text or href names a content
// section, visits up to three matched sections, and collects their anchors.
// When the strict per-section filter yields nothing, a loose same-domain
// collection capped at ten fills in.
func (d *Discoverer) fromNavigation(ctx context.Context) ([]string, error) {
	body, _, err := d.Client.Get(ctx, d.BaseURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	sections := d.sectionCandidates(doc)

	var out []string
	visited := 0
	for _, sectionURL := range sections {
		if visited >= maxSectionVisits {
			break
		}
		visited++

		sectionBody, _, err := d.Client.Get(ctx, sectionURL)
		if err != nil {
			continue
		}
		sectionDoc, err := goquery.NewDocumentFromReader(bytes.NewReader(sectionBody))
		if err != nil {
			continue
		}

		strict := 0
		sectionDoc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
			href, _ := s.Attr("href")
			full, ok := resolve(sectionURL, href)
			if ok && isSectionContentURL(full, sectionURL, d.domain) {
				out = append(out, full)
				strict++
			}
		})
		if strict > 0 {
			continue
		}

		// Nothing passed the strict filter; fall back to any same-domain,
		// non-fragment, non-javascript anchor.
		loose := 0
		sectionDoc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			href, _ := s.Attr("href")
			if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
				return true
			}
			full, ok := resolve(sectionURL, href)
			if !ok || !sameDomain(full, d.domain) || full == sectionURL {
				return true
			}
			out = append(out, full)
			loose++
			return loose < maxLooseMatches
		})
	}
	return out, nil
}

// sectionCandidates returns deduplicated same-domain URLs of links whose
// visible text or href contains a section keyword. Navigation regions are
// scanned first so their matches rank ahead of body links.
func (d *Discoverer) sectionCandidates(doc *goquery.Document) []string {
	seen := map[string]struct{}{}
	var out []string

	collect := func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		text := strings.ToLower(strings.TrimSpace(s.Text()))
		if !containsAnyKeyword(text, navigationKeywords) && !containsAnyKeyword(href, navigationKeywords) {
			return
		}
		full, ok := resolve(d.BaseURL, href)
		if !ok || !sameDomain(full, d.domain) {
			return
		}
		if _, dup := seen[full]; dup {
			return
		}
		seen[full] = struct{}{}
		out = append(out, full)
	}

	doc.Find("nav a[href], header a[href], menu a[href]").Each(collect)
	doc.Find("a[href]").Each(collect)
	return out
}
