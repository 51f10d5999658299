// Package content defines the data model produced by the extraction
// pipeline: individual content items, the per-site result envelope, and the
// closed content-type taxonomy with its classifier.
package content

// Type is the closed set of content classifications an item can carry.
type Type string

const (
	TypeBlog              Type = "blog"
	TypeTutorial          Type = "tutorial"
	TypeBook              Type = "book"
	TypeNews              Type = "news"
	TypePodcastTranscript Type = "podcast_transcript"
	TypeCallTranscript    Type = "call_transcript"
	TypeLinkedInPost      Type = "linkedin_post"
	TypeRedditComment     Type = "reddit_comment"
)

// MinItemChars is the minimum trimmed content length for an item to be
// considered a valid extraction.
const MinItemChars = 100

// Item is a single extracted unit of readable text. Items are immutable once
// produced; post-processing replaces items rather than mutating them.
type Item struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Type      Type   `json:"content_type"`
	SourceURL string `json:"source_url"`
}

// Result is the final output of a scrape: the target site plus the processed
// item list. Item order reflects processing order and carries no meaning.
type Result struct {
	Site  string `json:"site"`
	Items []Item `json:"items"`
}
