package discover

import (
	"context"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	// maxNestedSitemaps caps how many child sitemaps of an index are fetched.
	maxNestedSitemaps = 3
	// maxRawEntries hard-caps how many <url> entries are examined per parse.
	maxRawEntries = 2000
	// maxAcceptedEntries stops collection once enough URLs passed the filter.
	maxAcceptedEntries = 1000
	// maxKeptEntries is the final recency-sorted truncation.
	maxKeptEntries = 100
	// maxSitemapBytes rejects absurdly large sitemap payloads.
	maxSitemapBytes = 20 << 20
)

// sitemapDoc matches both <urlset> and <sitemapindex> documents; unmarshal
// fills whichever children are present.
type sitemapDoc struct {
	Sitemaps []sitemapRef   `xml:"sitemap"`
	URLs     []sitemapEntry `xml:"url"`
}

type sitemapRef struct {
	Loc string `xml:"loc"`
}

type sitemapEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

type datedURL struct {
	loc     string
	modTime time.Time
	dated   bool
}

// fromSitemaps probes the conventional sitemap locations plus robots.txt
// Sitemap directives, recurses one level into sitemap indexes, filters
// entries through the content heuristic, and keeps the most recent 100.
func (d *Discoverer) fromSitemaps(ctx context.Context) ([]string, error) {
	candidates := []string{}
	for _, p := range []string{"/sitemap.xml", "/sitemap_index.xml"} {
		if u, ok := resolve(d.BaseURL, p); ok {
			candidates = append(candidates, u)
		}
	}
	candidates = append(candidates, d.sitemapsFromRobots(ctx)...)

	var collected []datedURL
	for _, sm := range candidates {
		// Individual probe failures are expected; most sites have only one
		// of the conventional locations.
		entries, err := d.loadSitemap(ctx, sm, 0)
		if err != nil {
			continue
		}
		collected = append(collected, entries...)
		if len(collected) >= maxAcceptedEntries {
			break
		}
	}
	if len(collected) == 0 {
		return nil, nil
	}

	// Most recent first; entries without a date sort last.
	sort.SliceStable(collected, func(i, j int) bool {
		if collected[i].dated != collected[j].dated {
			return collected[i].dated
		}
		return collected[i].modTime.After(collected[j].modTime)
	})
	if len(collected) > maxKeptEntries {
		collected = collected[:maxKeptEntries]
	}

	out := make([]string, 0, len(collected))
	for _, e := range collected {
		out = append(out, e.loc)
	}
	return out, nil
}

// sitemapsFromRobots parses robots.txt Sitemap: directives.
func (d *Discoverer) sitemapsFromRobots(ctx context.Context) []string {
	robotsURL, ok := resolve(d.BaseURL, "/robots.txt")
	if !ok {
		return nil
	}
	body, err := d.getSitemapBody(ctx, robotsURL)
	if err != nil {
		return nil
	}
	var out []string
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if len(line) < len("sitemap:") || !strings.EqualFold(line[:len("sitemap:")], "sitemap:") {
			continue
		}
		if sm := strings.TrimSpace(line[len("sitemap:"):]); sm != "" {
			out = append(out, sm)
		}
	}
	return out
}

// loadSitemap fetches and parses one sitemap document. Index documents
// recurse one level, capped at maxNestedSitemaps children.
func (d *Discoverer) loadSitemap(ctx context.Context, sitemapURL string, depth int) ([]datedURL, error) {
	body, err := d.getSitemapBody(ctx, sitemapURL)
	if err != nil {
		return nil, fmt.Errorf("fetch sitemap: %w", err)
	}
	if len(body) > maxSitemapBytes {
		return nil, fmt.Errorf("sitemap too large: %d bytes", len(body))
	}

	var doc sitemapDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse sitemap: %w", err)
	}

	var collected []datedURL

	if depth == 0 && len(doc.Sitemaps) > 0 {
		refs := doc.Sitemaps
		if len(refs) > maxNestedSitemaps {
			refs = refs[:maxNestedSitemaps]
		}
		for _, ref := range refs {
			child, err := d.loadSitemap(ctx, strings.TrimSpace(ref.Loc), depth+1)
			if err != nil {
				continue
			}
			collected = append(collected, child...)
			if len(collected) >= maxAcceptedEntries {
				return collected, nil
			}
		}
	}

	processed := 0
	for _, entry := range doc.URLs {
		processed++
		if processed > maxRawEntries {
			break
		}
		loc := strings.TrimSpace(entry.Loc)
		if loc == "" || !IsContentURL(loc, d.domain) {
			continue
		}
		du := datedURL{loc: loc}
		if t, ok := parseLastMod(entry.LastMod); ok {
			du.modTime = t
			du.dated = true
		}
		collected = append(collected, du)
		if len(collected) >= maxAcceptedEntries {
			break
		}
	}
	return collected, nil
}

// parseLastMod accepts the date portion of W3C datetime values.
func parseLastMod(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if i := strings.IndexByte(s, 'T'); i > 0 {
		s = s[:i]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// getSitemapBody fetches with the shorter sitemap timeout.
func (d *Discoverer) getSitemapBody(ctx context.Context, rawURL string) ([]byte, error) {
	timeout := d.SitemapTimeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	body, _, err := d.Client.Get(ctx, rawURL)
	return body, err
}
