package discover

import (
	"context"
	"sync"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"
)

// feedPaths are the conventional RSS/Atom locations probed on every site.
var feedPaths = []string{
	"/feed", "/rss", "/feed.xml", "/rss.xml", "/atom.xml", "/blog/feed", "/blog/rss",
}

// fromFeeds probes the conventional feed paths in parallel and collects
// same-domain item links. A path that 404s or serves junk is simply skipped.
func (d *Discoverer) fromFeeds(ctx context.Context) ([]string, error) {
	var (
		mu  sync.Mutex
		out []string
	)
	g, ctx := errgroup.WithContext(ctx)

	for _, p := range feedPaths {
		feedURL, ok := resolve(d.BaseURL, p)
		if !ok {
			continue
		}
		g.Go(func() error {
			body, _, err := d.Client.Get(ctx, feedURL)
			if err != nil {
				return nil
			}
			feed, err := gofeed.NewParser().ParseString(string(body))
			if err != nil {
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			for _, item := range feed.Items {
				if item.Link != "" && sameDomain(item.Link, d.domain) {
					out = append(out, item.Link)
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	return out, nil
}
