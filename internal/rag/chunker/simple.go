package chunker

import "strings"

// SimpleChunk is the fallback splitter used when the primary engine is
// unavailable or errors. It packs blank-line separated paragraphs into a
// buffer bounded by maxTokens*4 characters (one token is roughly four
// characters) and never splits a paragraph across pieces. TokenCount is
// the same character heuristic in reverse.
func SimpleChunk(markdown string, maxTokens int) []Piece {
	maxChars := maxTokens * 4

	var pieces []Piece
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		text := current.String()
		pieces = append(pieces, Piece{
			Text:       text,
			TokenCount: approxTokens(text),
		})
		current.Reset()
	}

	for _, para := range splitParagraphs(markdown) {
		if current.Len() > 0 && current.Len()+len(para) > maxChars {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	flush()

	return pieces
}

func approxTokens(text string) int {
	n := len(text) / 4
	if n < 1 {
		n = 1
	}
	return n
}
