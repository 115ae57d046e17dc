package prompt

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tiramai/ragapi/internal/config"
	"github.com/tiramai/ragapi/internal/domain/ragModel"
)

const noContextPlaceholder = "No relevant context found."

// FormatContext renders retrieved chunks as a single context block.
// Duplicate chunk texts (after trimming) are dropped, keeping the
// first and highest-ranked occurrence. Chunk numbering restarts from 1
// over the survivors.
func FormatContext(chunks []ragModel.RetrievedChunk) string {
	deduped := dedupeByText(chunks)
	if len(deduped) == 0 {
		return noContextPlaceholder
	}

	sections := make([]string, 0, len(deduped))
	for i, chunk := range deduped {
		source := chunk.DocumentFilename
		if source == "" {
			source = chunk.DocumentId
		}
		header := fmt.Sprintf("### Chunk %d from %s (Relevance: %.2f)", i+1, source, chunk.Similarity)
		sections = append(sections, header+"\n"+clipChunk(chunk.Text, config.MaxContextChunkLength))
	}
	return strings.Join(sections, "\n\n")
}

// ContextStats describes the context block that was assembled for a
// query; logged alongside the answer for diagnostics.
type ContextStats struct {
	TotalChunks       int
	Documents         []string
	TotalTextLength   int
	AverageSimilarity float64
}

func Stats(chunks []ragModel.RetrievedChunk) ContextStats {
	stats := ContextStats{TotalChunks: len(chunks)}
	if len(chunks) == 0 {
		return stats
	}

	docs := make(map[string]bool, len(chunks))
	var similaritySum float64
	for _, chunk := range chunks {
		docs[chunk.DocumentId] = true
		stats.TotalTextLength += len(chunk.Text)
		similaritySum += chunk.Similarity
	}
	for doc := range docs {
		stats.Documents = append(stats.Documents, doc)
	}
	sort.Strings(stats.Documents)
	stats.AverageSimilarity = similaritySum / float64(len(chunks))
	return stats
}

func clipChunk(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 || len(text) <= limit {
		return text
	}
	return truncateAtRune(text, limit) + "..."
}

// Summarize produces the source references surfaced alongside an
// answer, previews truncated to at most limit characters.
func Summarize(chunks []ragModel.RetrievedChunk, limit int) []ragModel.SourceRef {
	refs := make([]ragModel.SourceRef, 0, len(chunks))
	for _, chunk := range chunks {
		refs = append(refs, ragModel.SourceRef{
			ChunkId:          chunk.ChunkId,
			DocumentId:       chunk.DocumentId,
			DocumentFilename: chunk.DocumentFilename,
			Similarity:       chunk.Similarity,
			Preview:          preview(chunk.Text, limit),
		})
	}
	return refs
}

func dedupeByText(chunks []ragModel.RetrievedChunk) []ragModel.RetrievedChunk {
	seen := make(map[string]bool, len(chunks))
	kept := make([]ragModel.RetrievedChunk, 0, len(chunks))
	for _, chunk := range chunks {
		key := strings.TrimSpace(chunk.Text)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, chunk)
	}
	return kept
}

func preview(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 || len(text) <= limit {
		return text
	}
	return truncateAtRune(text, limit)
}

// truncateAtRune cuts text to at most limit bytes without splitting a
// multi-byte rune.
func truncateAtRune(text string, limit int) string {
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit]
}
