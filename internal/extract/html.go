package extract

import (
	"bytes"
	"strings"
)

// minPlausibleBytes is the smallest body that could carry a real article;
// anything smaller is almost always an SPA shell.
const minPlausibleBytes = 1000

var contentMarkers = []string{"<p", "<div", "<article", "<main", "<section", "<h1", "<h2", "<h3"}

// LooksLikeHTML reports whether a fetched body is plausible, substantial HTML
// worth running strategies against. A false result routes the URL to browser
// rendering: the body is either too small, missing document structure, or all
// script and no content.
func LooksLikeHTML(raw []byte) bool {
	if len(raw) < minPlausibleBytes {
		return false
	}
	lower := strings.ToLower(string(bytes.ToValidUTF8(raw, nil)))
	if !strings.Contains(lower, "<html") && !strings.Contains(lower, "<body") {
		return false
	}
	markers := 0
	for _, m := range contentMarkers {
		if strings.Contains(lower, m) {
			markers++
		}
	}
	return markers >= 2
}
