package discover

import (
	"context"
	"regexp"
	"strings"
)

// Script-rendered sites often embed their routes in serialized props rather
// than anchor tags; these patterns pull candidate paths straight out of the
// raw markup.
var (
	keywordHrefRe  = regexp.MustCompile(`(?i)href="([^"]*(?:blog|article|post)[^"]*)"`)
	relativeHrefRe = regexp.MustCompile(`href="(/[^"]*)"`)
	jsonHrefRe     = regexp.MustCompile(`"href":\s*"([^"]*)"`)
)

var spaKeywords = []string{"blog", "article", "post"}

// fromSPAMarkup scans the base page's raw markup for href patterns and
// JSON-embedded routes referencing content paths.
func (d *Discoverer) fromSPAMarkup(ctx context.Context) ([]string, error) {
	body, _, err := d.Client.Get(ctx, d.BaseURL)
	if err != nil {
		return nil, err
	}
	markup := string(body)

	var out []string
	for _, re := range []*regexp.Regexp{keywordHrefRe, relativeHrefRe} {
		for _, m := range re.FindAllStringSubmatch(markup, -1) {
			full, ok := resolve(d.BaseURL, m[1])
			if ok && IsContentURL(full, d.domain) {
				out = append(out, full)
			}
		}
	}

	for _, m := range jsonHrefRe.FindAllStringSubmatch(markup, -1) {
		href := m[1]
		if !strings.HasPrefix(href, "/") || !containsAnyKeyword(href, spaKeywords) {
			continue
		}
		if full, ok := resolve(d.BaseURL, href); ok {
			out = append(out, full)
		}
	}
	return out, nil
}

func containsAnyKeyword(s string, keywords []string) bool {
	lower := strings.ToLower(s)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
