package render

import (
	"encoding/json"
	"reflect"
	"sort"
	"testing"
)

func TestWalkJSONURLs(t *testing.T) {
	payload := `{
		"posts": [
			{"title": "a", "url": "/blog/a"},
			{"title": "b", "slug": "/blog/b", "meta": {"href": "/blog/b-alt"}}
		],
		"pagination": {"path": "/blog/page/2"},
		"count": 7,
		"nested": [[{"link": "/blog/c"}]]
	}`
	var data interface{}
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	var got []string
	walkJSONURLs(data, &got)
	sort.Strings(got)

	want := []string{"/blog/a", "/blog/b", "/blog/b-alt", "/blog/c", "/blog/page/2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("walkJSONURLs = %v, want %v", got, want)
	}
}

func TestResolveAgainst(t *testing.T) {
	cases := []struct {
		name string
		base string
		raw  string
		want string
		ok   bool
	}{
		{"relative path", "https://example.com/blog", "/blog/post", "https://example.com/blog/post", true},
		{"absolute", "https://example.com/", "https://example.com/blog/x", "https://example.com/blog/x", true},
		{"whitespace trimmed", "https://example.com/", "  /blog/y ", "https://example.com/blog/y", true},
		{"javascript scheme", "https://example.com/", "javascript:void(0)", "", false},
		{"mailto", "https://example.com/", "mailto:team@example.com", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := resolveAgainst(tc.base, tc.raw)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("resolved %q, want %q", got, tc.want)
			}
		})
	}
}
