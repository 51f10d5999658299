package content

import "strings"

// platformTypes maps known hosting platforms to a fixed classification.
// Evaluated first so a LinkedIn URL never falls through to keyword matching.
var platformTypes = []struct {
	marker string
	t      Type
}{
	{"substack.com", TypeBlog},
	{"medium.com", TypeBlog},
	{"linkedin.com", TypeLinkedInPost},
	{"reddit.com", TypeRedditComment},
}

// keywordTypes maps URL/title markers to types, checked in order after the
// platform pass.
var keywordTypes = []struct {
	t        Type
	keywords []string
}{
	{TypePodcastTranscript, []string{"podcast", "episode", "transcript", "audio", "listen"}},
	{TypeCallTranscript, []string{"transcript", "interview", "conversation", "call", "recording"}},
	{TypeBook, []string{"book", "chapter", "manual", "documentation", "reference"}},
	{TypeNews, []string{"/news/", "breaking", "announcement", "press-release", "update"}},
}

var tutorialPhrases = []string{
	"step 1", "step one", "first step", "tutorial:", "how to",
	"walkthrough", "guide:", "instructions", "follow these steps",
}

var numberedStepPrefixes = []string{"1.", "2.", "3.", "4.", "5."}

// Classify determines the content type for an extracted item. It is a pure
// function of its inputs: identical (url, title, body) always yield the same
// type. Precedence: platform domain, then URL/title keywords, then the
// tutorial heuristic, then blog.
func Classify(rawURL, title, body string) Type {
	urlLower := strings.ToLower(rawURL)
	titleLower := strings.ToLower(title)
	bodyLower := strings.ToLower(body)

	for _, p := range platformTypes {
		if strings.Contains(urlLower, p.marker) {
			return p.t
		}
	}

	for _, k := range keywordTypes {
		for _, kw := range k.keywords {
			if strings.Contains(urlLower, kw) || strings.Contains(titleLower, kw) {
				return k.t
			}
		}
	}

	if isTutorial(bodyLower) {
		return TypeTutorial
	}
	return TypeBlog
}

// isTutorial applies the strict tutorial heuristic: only bodies longer than
// 100 words qualify, and they need either two strong tutorial phrases or
// three numbered-step tokens within the first 200 words.
func isTutorial(bodyLower string) bool {
	words := strings.Fields(bodyLower)
	if len(words) <= 100 {
		return false
	}

	phrases := 0
	for _, p := range tutorialPhrases {
		if strings.Contains(bodyLower, p) {
			phrases++
		}
	}
	if phrases >= 2 {
		return true
	}

	head := words
	if len(head) > 200 {
		head = head[:200]
	}
	steps := 0
	for _, w := range head {
		for _, prefix := range numberedStepPrefixes {
			if strings.HasPrefix(w, prefix) {
				steps++
				break
			}
		}
	}
	return steps >= 3
}
