package discover

import (
	"net/url"
	"regexp"
	"strings"
)

// skipMarkers name utility, legal, and asset paths that never hold content.
var skipMarkers = []string{
	"/tag/", "/category/", "/author/", "/page/",
	"/search", "/login", "/register", "/contact", "/about",
	"/privacy", "/terms", "/legal/", "/schedule", "/demo",
	"/signup", "/download", "/pricing", "/support",
	".pdf", ".jpg", ".png", ".gif", ".css", ".js",
	".xml", ".txt", ".ico", ".woff", ".woff2", ".ttf", ".eot",
	"/_next/", "/static/", "/assets/", "/api/",
}

// contentMarkers are path segments that strongly suggest a content page.
var contentMarkers = []string{
	"/blog/", "/blogs/", "/post/", "/posts/", "/article/", "/articles/",
	"/news/", "/casestudies/", "/case-studies/", "/story/", "/stories/",
	"/resources/", "/resource/", "/insights/", "/whitepapers/", "/guides/",
	"/updates/", "/content/", "/press/", "/media/",
}

// corporateMarkers reject deep-but-boring corporate pages that would pass the
// depth check.
var corporateMarkers = []string{
	"solutions/", "products/", "services/", "industries/",
	"company/", "careers/", "investors/", "partners/",
}

// postMarkers is the narrower list used to decide whether a URL should have
// carried a distinct post; the processor uses it for template detection.
var postMarkers = []string{
	"/blog/", "/blogs/", "/article/", "/articles/", "/post/", "/posts/",
	"/news/", "/resource/", "/resources/", "/insights/", "/updates/",
	"/content/", "/press/", "/media/", "/stories/",
}

var yearPathRe = regexp.MustCompile(`/\d{4}(/\d{2})?/`)

// IsContentURL reports whether a URL likely points at a content page on the
// given domain. Same-domain is required; utility markers reject, content
// markers accept, and anything else needs path depth of at least two segments
// without matching the corporate denylist.
func IsContentURL(rawURL, domain string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if !strings.EqualFold(u.Host, domain) {
		return false
	}
	path := strings.ToLower(u.Path)

	for _, m := range skipMarkers {
		if strings.Contains(path, m) {
			return false
		}
	}
	for _, m := range contentMarkers {
		if strings.Contains(path, m) {
			return true
		}
	}
	if yearPathRe.MatchString(path) {
		return true
	}

	if len(path) > 1 && path != "/" && strings.Count(path, "/") >= 2 {
		for _, m := range corporateMarkers {
			if strings.Contains(path, m) {
				return false
			}
		}
		return true
	}
	return false
}

// LooksLikePostURL reports whether a URL pattern suggests it should contain a
// unique post, rather than a homepage or section index.
func LooksLikePostURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, m := range postMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// sectionContentMarkers extend the accept list when scanning inside a known
// content section, where slug-style paths are common.
var sectionContentMarkers = []string{
	"/post/", "/posts/", "/article/", "/articles/",
	"/story/", "/stories/", "/entry/", "/entries/",
	"/how-", "/what-", "/why-", "/guide-", "/tutorial-",
	"/resource/", "/resources/", "/insights/", "/updates/",
	"/content/", "/press/", "/media/", "/news/",
}

// isSectionContentURL is the looser content check applied to anchors found on
// a section page: URLs nested below the section path count as content, as do
// the usual post patterns.
func isSectionContentURL(rawURL, sectionURL, domain string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || !strings.EqualFold(u.Host, domain) {
		return false
	}
	path := strings.ToLower(u.Path)

	for _, m := range skipMarkers {
		if strings.Contains(path, m) {
			return false
		}
	}

	if su, err := url.Parse(sectionURL); err == nil {
		sectionPath := strings.ToLower(su.Path)
		if sectionPath != "" && strings.HasPrefix(path, sectionPath) && path != sectionPath {
			if segmentCount(path) > segmentCount(sectionPath) {
				return true
			}
		}
	}

	if yearPathRe.MatchString(path) {
		return true
	}
	for _, m := range sectionContentMarkers {
		if strings.Contains(path, m) {
			return true
		}
	}
	return false
}

func segmentCount(path string) int {
	n := 0
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			n++
		}
	}
	return n
}

func sameDomain(rawURL, domain string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, domain)
}
