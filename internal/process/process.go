// Package process post-processes extracted items: duplicate removal, template
// detection for sites that serve the same shell on every URL, and splitting of
// oversized items at paragraph boundaries.
package process

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/websift/websift/internal/content"
	"github.com/websift/websift/internal/discover"
)

const (
	// DefaultChunkSize is the soft per-item content ceiling in characters.
	DefaultChunkSize = 8000
	// DefaultTemplateThreshold is how many identical bodies mark a template.
	DefaultTemplateThreshold = 3

	// minChunkChars rejects a split that would produce fragments.
	minChunkChars = 1000
	// maxChunks rejects a split that would shred one item into many.
	maxChunks = 3
)

// Processor runs the post-extraction pipeline. The zero value uses defaults.
type Processor struct {
	// ChunkSize is the soft content ceiling. Zero means 8000.
	ChunkSize int
	// TemplateThreshold is the identical-body count above which the shared
	// body is treated as template noise. Zero means 3.
	TemplateThreshold int
}

// Process deduplicates items and splits the oversized ones. The result of a
// second Process pass over its own output is unchanged.
func (p *Processor) Process(items []content.Item) []content.Item {
	unique := p.deduplicate(items)
	log.Info().Int("before", len(items)).Int("after", len(unique)).Msg("deduplicated items")

	chunked := p.chunkLarge(unique)
	log.Info().Int("items", len(chunked)).Msg("chunking done")
	return chunked
}

func (p *Processor) chunkSize() int {
	if p.ChunkSize > 0 {
		return p.ChunkSize
	}
	return DefaultChunkSize
}

func (p *Processor) templateThreshold() int {
	if p.TemplateThreshold > 0 {
		return p.TemplateThreshold
	}
	return DefaultTemplateThreshold
}

// deduplicate drops repeated bodies. When more than templateThreshold items
// share one body, the site is serving a template on its content URLs: those
// instances on post-shaped URLs are dropped outright, non-post instances kept,
// and if nothing survives one marked representative is returned so the caller
// can see what happened.
func (p *Processor) deduplicate(items []content.Item) []content.Item {
	counts := make(map[string]int, len(items))
	for _, item := range items {
		counts[contentHash(item.Content)]++
	}

	templateHash := ""
	for hash, n := range counts {
		if n > p.templateThreshold() {
			log.Warn().Int("count", n).Msg("identical content across items, treating as template")
			templateHash = hash
		}
	}

	if templateHash != "" {
		var filtered []content.Item
		for _, item := range items {
			if contentHash(item.Content) != templateHash {
				filtered = append(filtered, item)
				continue
			}
			if discover.LooksLikePostURL(item.SourceURL) {
				log.Warn().Str("url", item.SourceURL).Msg("dropping template content on post URL")
				continue
			}
			filtered = append(filtered, item)
		}
		if len(filtered) == 0 && len(items) > 0 {
			log.Warn().Msg("every item was template content, keeping one representative")
			rep := items[0]
			if !strings.HasPrefix(rep.Title, "[Template Content] ") {
				rep.Title = "[Template Content] " + rep.Title
			}
			return []content.Item{rep}
		}
		items = filtered
	}

	seen := make(map[string]struct{}, len(items))
	var unique []content.Item
	for _, item := range items {
		hash := contentHash(item.Content)
		if _, dup := seen[hash]; dup {
			log.Warn().Str("title", item.Title).Str("url", item.SourceURL).Msg("duplicate content dropped")
			continue
		}
		seen[hash] = struct{}{}
		unique = append(unique, item)
	}
	return unique
}

func contentHash(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

// chunkLarge splits items well over the ceiling, but only when the split is
// clean: at most maxChunks pieces, each substantial. A messy split keeps the
// item intact.
func (p *Processor) chunkLarge(items []content.Item) []content.Item {
	size := p.chunkSize()
	threshold := size + size/2

	var out []content.Item
	for _, item := range items {
		if len(item.Content) <= threshold {
			out = append(out, item)
			continue
		}
		chunks := splitParagraphs(item.Content, size)
		if len(chunks) > maxChunks || !allSubstantial(chunks) {
			log.Debug().Str("title", item.Title).Msg("kept intact, split would produce fragments")
			out = append(out, item)
			continue
		}
		for i, chunk := range chunks {
			part := item
			part.Content = chunk
			if len(chunks) > 1 {
				part.Title = fmt.Sprintf("%s (Part %d)", item.Title, i+1)
			}
			out = append(out, part)
		}
		log.Debug().Str("title", item.Title).Int("chunks", len(chunks)).Msg("split large item")
	}
	return out
}

func allSubstantial(chunks []string) bool {
	for _, c := range chunks {
		if len(c) <= minChunkChars {
			return false
		}
	}
	return true
}

// splitParagraphs greedily packs paragraphs into chunks up to the size limit.
// Paragraph boundaries are never broken, so a single huge paragraph yields a
// single oversized chunk.
func splitParagraphs(body string, size int) []string {
	paragraphs := strings.Split(body, "\n\n")

	var chunks []string
	var current []string
	length := 0
	for _, para := range paragraphs {
		if length+len(para) > size && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n\n"))
			current = []string{para}
			length = len(para)
			continue
		}
		current = append(current, para)
		length += len(para) + 2
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n\n"))
	}
	if len(chunks) == 0 {
		return []string{body}
	}
	return chunks
}
