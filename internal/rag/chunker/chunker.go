package chunker

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
	"github.com/tiramai/ragapi/internal/rag/parser"
	"github.com/tiramai/ragapi/pkg/logger_i"
)

// Piece is one ordered text segment under the token budget.
type Piece struct {
	Text       string
	TokenCount int
}

// Engine is the chunk-splitting collaborator. It consumes the structural
// parse; when it errors the ingestion coordinator falls back to SimpleChunk
// over the flattened markdown.
type Engine interface {
	Chunk(ctx context.Context, doc parser.ParsedDocument, maxTokens int) ([]Piece, error)
}

var encodingOnce sync.Once

type tokenChunker struct {
	enc    *tiktoken.Tiktoken
	logger *logger_i.Logger
}

// NewTokenChunker builds the primary chunker on a cl100k_base tiktoken
// encoding loaded offline, so no network call happens at startup.
func NewTokenChunker() (Engine, error) {
	encodingOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("loading tiktoken encoding: %w", err)
	}
	return &tokenChunker{
		enc:    enc,
		logger: logger_i.NewLogger("TokenChunker"),
	}, nil
}

func (c *tokenChunker) countTokens(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// Chunk packs paragraphs page by page into pieces of at most maxTokens
// tokens. A single paragraph over the budget is split on sentence
// boundaries rather than mid-sentence.
func (c *tokenChunker) Chunk(ctx context.Context, doc parser.ParsedDocument, maxTokens int) ([]Piece, error) {
	if maxTokens <= 0 {
		return nil, fmt.Errorf("invalid token budget %d", maxTokens)
	}
	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("no structural pages to chunk")
	}

	var pieces []Piece
	var buffer strings.Builder
	bufferTokens := 0

	flush := func() {
		text := strings.TrimSpace(buffer.String())
		if text != "" {
			pieces = append(pieces, Piece{Text: text, TokenCount: bufferTokens})
		}
		buffer.Reset()
		bufferTokens = 0
	}

	for _, page := range doc.Pages {
		for _, para := range splitParagraphs(page.Content) {
			for _, segment := range c.fitToBudget(para, maxTokens) {
				segTokens := c.countTokens(segment)
				if bufferTokens+segTokens > maxTokens && bufferTokens > 0 {
					flush()
				}
				if buffer.Len() > 0 {
					buffer.WriteString("\n\n")
				}
				buffer.WriteString(segment)
				bufferTokens += segTokens
			}
		}
	}
	flush()

	c.logger.Debug("Chunked document", "pieces", len(pieces), "maxTokens", maxTokens)
	return pieces, nil
}

// fitToBudget returns para unchanged when it fits, otherwise sentence-level
// splits each at most maxTokens.
func (c *tokenChunker) fitToBudget(para string, maxTokens int) []string {
	if c.countTokens(para) <= maxTokens {
		return []string{para}
	}

	var segments []string
	var current strings.Builder
	currentTokens := 0

	for _, sentence := range splitSentences(para) {
		n := c.countTokens(sentence)
		if currentTokens+n > maxTokens && current.Len() > 0 {
			segments = append(segments, strings.TrimSpace(current.String()))
			current.Reset()
			currentTokens = 0
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sentence)
		currentTokens += n
	}
	if current.Len() > 0 {
		segments = append(segments, strings.TrimSpace(current.String()))
	}
	return segments
}

func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		para = strings.TrimSpace(para)
		if para != "" {
			paragraphs = append(paragraphs, para)
		}
	}
	return paragraphs
}

func splitSentences(text string) []string {
	var sentences []string
	for _, s := range strings.SplitAfter(text, ". ") {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
