package ingest

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/tiramai/ragapi/internal/config"
	"github.com/tiramai/ragapi/internal/domain/ragModel"
	"github.com/tiramai/ragapi/internal/rag/chunker"
	"github.com/tiramai/ragapi/internal/rag/parser"
	"github.com/tiramai/ragapi/internal/rag/vectorDB"
	"github.com/tiramai/ragapi/pkg/logger_i"
)

// ProgressFunc receives pipeline progress in [0,1] plus a short
// human-readable stage message.
type ProgressFunc func(progress float64, message string)

type Coordinator struct {
	parser    parser.Engine
	chunker   chunker.Engine
	vector    vectorDB.Store
	maxTokens int
	logger    *logger_i.Logger
}

// NewCoordinator wires the ingestion pipeline. A nil chunker is
// allowed; chunking then always takes the character-budget fallback.
// A maxTokens of 0 selects the configured default budget.
func NewCoordinator(parserEngine parser.Engine, chunkerEngine chunker.Engine, vector vectorDB.Store, maxTokens int) *Coordinator {
	if maxTokens <= 0 {
		maxTokens = config.MaxChunkTokens
	}
	return &Coordinator{
		parser:    parserEngine,
		chunker:   chunkerEngine,
		vector:    vector,
		maxTokens: maxTokens,
		logger:    logger_i.NewLogger("Document Ingestion"),
	}
}

// ProcessDocument runs parse -> chunk -> persist for one uploaded file
// and returns the document id and the number of chunks stored. The
// temp file is removed on success. A document with no extractable text
// ingests successfully with zero chunks.
func (c *Coordinator) ProcessDocument(ctx context.Context, path string, filename string, report ProgressFunc) (string, int, error) {
	loggr := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	if report == nil {
		report = func(float64, string) {}
	}

	report(0.2, "Parsing document...")
	doc, err := c.parser.Parse(ctx, path)
	if err != nil {
		loggr.Error("Error parsing document", "filename", filename, "error", err.Error())
		return "", 0, err
	}

	documentId := uuid.NewString()
	loggr.Debug("Parsed document", "filename", filename, "pages", len(doc.Pages), "documentId", documentId)

	report(0.6, "Chunking document...")
	pieces, method := c.chunkDocument(ctx, loggr, doc)
	loggr.Debug("Chunked document", "chunks", len(pieces), "method", method)

	report(0.8, "Storing chunks...")
	if len(pieces) > 0 {
		chunks := buildChunks(documentId, filename, pieces, method)
		if _, err := c.vector.UpsertChunks(ctx, documentId, chunks); err != nil {
			loggr.Error("Error storing chunks", "documentId", documentId, "error", err.Error())
			return "", 0, fmt.Errorf("%w: chunk storage: %v", ragModel.ErrCollaboratorUnavailable, err)
		}
	} else {
		loggr.Warn("Document produced no chunks", "filename", filename, "documentId", documentId)
	}

	if err := os.Remove(path); err != nil {
		loggr.Error("Error removing temp file", "path", path, "error", err.Error())
	}

	report(1.0, "Ingestion complete")
	return documentId, len(pieces), nil
}

// chunkDocument prefers the token-aware engine and falls back to plain
// character-budget packing when the engine is missing or fails.
func (c *Coordinator) chunkDocument(ctx context.Context, loggr *logger_i.Logger, doc parser.ParsedDocument) ([]chunker.Piece, string) {
	if c.chunker != nil {
		pieces, err := c.chunker.Chunk(ctx, doc, c.maxTokens)
		if err == nil {
			return pieces, "hybrid"
		}
		loggr.Warn("Token chunking failed, using fallback", "error", err.Error())
	}
	return chunker.SimpleChunk(doc.Markdown, c.maxTokens), "simple"
}

func buildChunks(documentId string, filename string, pieces []chunker.Piece, method string) []ragModel.Chunk {
	ingestedAt := time.Now().Unix()
	chunks := make([]ragModel.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = ragModel.Chunk{
			Id:   fmt.Sprintf("%s_%d", documentId, i),
			Text: piece.Text,
			Metadata: map[string]any{
				"document_id": documentId,
				"filename":    filename,
				"chunk_index": i,
				"chunk_size":  len(piece.Text),
				"token_count": piece.TokenCount,
				"method":      method,
				"ingested_at": ingestedAt,
			},
		}
	}
	return chunks
}
