package content

import (
	"strings"
	"testing"
)

func TestClassify_PlatformPrecedence(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want Type
	}{
		{"substack", "https://writer.substack.com/p/some-post", TypeBlog},
		{"medium", "https://medium.com/@author/some-post", TypeBlog},
		{"linkedin", "https://www.linkedin.com/posts/someone_activity-123", TypeLinkedInPost},
		{"reddit", "https://www.reddit.com/r/golang/comments/abc/thread/", TypeRedditComment},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.url, "", ""); got != tc.want {
				t.Fatalf("Classify(%q) = %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}

func TestClassify_PlatformBeatsKeywords(t *testing.T) {
	// A LinkedIn URL mentioning "podcast" in the title stays a LinkedIn post.
	got := Classify("https://linkedin.com/posts/x", "Our new podcast episode", "")
	if got != TypeLinkedInPost {
		t.Fatalf("expected linkedin_post, got %q", got)
	}
}

func TestClassify_Keywords(t *testing.T) {
	cases := []struct {
		name  string
		url   string
		title string
		want  Type
	}{
		{"podcast in title", "https://example.com/x", "Episode 42: scaling Go services", TypePodcastTranscript},
		{"transcript url", "https://example.com/interview-with-cto", "", TypeCallTranscript},
		{"book chapter", "https://example.com/x", "Chapter 3: Concurrency", TypeBook},
		{"news path", "https://example.com/news/launch", "", TypeNews},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.url, tc.title, ""); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClassify_TutorialNeedsLongBody(t *testing.T) {
	short := "how to do things. step 1 is easy. follow these steps."
	if got := Classify("https://example.com/x", "", short); got != TypeBlog {
		t.Fatalf("short body should not classify as tutorial, got %q", got)
	}

	long := "how to build a parser. follow these steps carefully. " + strings.Repeat("filler words here ", 50)
	if got := Classify("https://example.com/x", "", long); got != TypeTutorial {
		t.Fatalf("expected tutorial, got %q", got)
	}
}

func TestClassify_TutorialNumberedSteps(t *testing.T) {
	body := "Setting up the toolchain. 1. install the compiler 2. configure the path 3. verify the version " +
		strings.Repeat("more detail follows ", 60)
	if got := Classify("https://example.com/setup", "", body); got != TypeTutorial {
		t.Fatalf("expected tutorial from numbered steps, got %q", got)
	}

	// Numbered steps past the first 200 words do not count.
	late := strings.Repeat("word ", 250) + "1. first 2. second 3. third"
	if got := Classify("https://example.com/x", "", late); got != TypeBlog {
		t.Fatalf("late steps should not classify as tutorial, got %q", got)
	}
}

func TestClassify_DefaultsToBlog(t *testing.T) {
	if got := Classify("https://example.com/essays/thoughts", "Some thoughts", "plain prose with no markers"); got != TypeBlog {
		t.Fatalf("expected blog default, got %q", got)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	url, title, body := "https://example.com/a", "A title", strings.Repeat("content ", 120)
	first := Classify(url, title, body)
	for i := 0; i < 5; i++ {
		if got := Classify(url, title, body); got != first {
			t.Fatalf("classification changed between calls: %q vs %q", first, got)
		}
	}
}
