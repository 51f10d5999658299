package discover

import (
	"net/url"
	"strings"
)

// urlSet deduplicates candidate URLs after light normalization: fragments
// dropped, host lowercased, common tracking parameters removed. Uniqueness is
// by exact normalized string.
type urlSet struct {
	seen  map[string]struct{}
	order []string
}

func newURLSet() *urlSet {
	return &urlSet{seen: map[string]struct{}{}}
}

// Add normalizes and inserts a URL, reporting whether it was new.
func (s *urlSet) Add(raw string) bool {
	key, ok := Normalize(raw)
	if !ok {
		return false
	}
	if _, dup := s.seen[key]; dup {
		return false
	}
	s.seen[key] = struct{}{}
	s.order = append(s.order, key)
	return true
}

func (s *urlSet) Len() int { return len(s.seen) }

func (s *urlSet) Slice() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

var trackingParams = []string{
	"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content", "utm_id",
	"gclid", "fbclid",
}

// Normalize canonicalizes a URL for set membership.
func Normalize(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", false
	}
	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)
	q := u.Query()
	for _, p := range trackingParams {
		q.Del(p)
	}
	u.RawQuery = q.Encode()
	return u.String(), true
}
