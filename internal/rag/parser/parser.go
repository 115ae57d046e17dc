package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tiramai/ragapi/internal/domain/ragModel"
	"github.com/tiramai/ragapi/pkg/logger_i"
)

// Page is one unit of the structural parse; for formats without page
// boundaries the whole document lands on page 1.
type Page struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

// ParsedDocument is what the parsing engine hands to the chunking engine.
// Markdown is the flattened text used by the fallback chunker when the
// structural pages cannot be chunked.
type ParsedDocument struct {
	Markdown string
	Pages    []Page
	Metadata map[string]any
}

// Engine is the document parsing collaborator.
type Engine interface {
	Parse(ctx context.Context, path string) (ParsedDocument, error)
}

type fileEngine struct {
	logger *logger_i.Logger
}

func NewEngine() Engine {
	return &fileEngine{logger: logger_i.NewLogger("DocParser")}
}

func (e *fileEngine) Parse(ctx context.Context, path string) (ParsedDocument, error) {
	ext := strings.ToLower(filepath.Ext(path))
	e.logger.Debug("Parsing document", "path", path, "ext", ext)

	var pages []Page
	var err error
	switch ext {
	case ".pdf":
		pages, err = e.extractPDF(path)
	case ".docx", ".txt", ".rtf", ".odt", ".md":
		pages, err = e.extractPlain(path)
	default:
		return ParsedDocument{}, fmt.Errorf("%w: unsupported file type %q", ragModel.ErrValidation, ext)
	}
	if err != nil {
		return ParsedDocument{}, fmt.Errorf("%w: %v", ragModel.ErrCollaboratorUnavailable, err)
	}

	var parts []string
	for _, p := range pages {
		if strings.TrimSpace(p.Content) != "" {
			parts = append(parts, p.Content)
		}
	}

	doc := ParsedDocument{
		Markdown: strings.Join(parts, "\n\n"),
		Pages:    pages,
		Metadata: map[string]any{
			"content_type": strings.TrimPrefix(ext, "."),
			"page_count":   len(pages),
		},
	}
	e.logger.Debug("Parsed document", "pages", len(pages), "markdownLength", len(doc.Markdown))
	return doc, nil
}
