package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tiramai/ragapi/internal/adapter/utils"
	"github.com/tiramai/ragapi/internal/config"
	"github.com/tiramai/ragapi/internal/domain/ragModel"
	"github.com/tiramai/ragapi/internal/metrics"
	"github.com/tiramai/ragapi/internal/rag/ingest"
	"github.com/tiramai/ragapi/internal/rag/llm"
	"github.com/tiramai/ragapi/internal/rag/prompt"
	"github.com/tiramai/ragapi/internal/rag/respcache"
	"github.com/tiramai/ragapi/internal/rag/retrieval"
	"github.com/tiramai/ragapi/internal/rag/vectorDB"
	"github.com/tiramai/ragapi/pkg/logger_i"
)

/*
ARCHITECTURE NOTE: OPAQUE INTERFACE PATTERN
---------------------------------------------------------

The handlers and the worker pool only ever see Service. The private
struct underneath owns every collaborator (vector store, ranker, LLM,
memory, cache), so swapping any of them for a mock in tests never
touches the callers.
*/

// AnswerRequest is one question against the knowledge base. A nil
// MinScore takes the configured default; an explicit value <= 0 turns
// score filtering off.
type AnswerRequest struct {
	Question   string
	SessionId  string
	TopK       int
	MinScore   *float64
	DocumentID string
	Style      string
}

type Service interface {
	Answer(ctx context.Context, request AnswerRequest) (ragModel.RAGAnswer, error)
	IngestDocument(ctx context.Context, path string, filename string, report ingest.ProgressFunc) (string, int, error)
	DeleteDocument(ctx context.Context, documentId string) error
	ListDocuments(ctx context.Context) ([]ragModel.DocumentInfo, error)
	DocumentChunks(ctx context.Context, documentId string) ([]ragModel.RetrievedChunk, error)
}

type service struct {
	vectorDB    vectorDB.Store
	ranker      *retrieval.Ranker
	llmProvider llm.Provider
	memory      ragModel.MemoryStore
	cache       *respcache.Cache
	coordinator *ingest.Coordinator
	logger      *logger_i.Logger
}

// NewService constructor
func NewService(vector vectorDB.Store, ranker *retrieval.Ranker, provider llm.Provider, memory ragModel.MemoryStore, cache *respcache.Cache, coordinator *ingest.Coordinator) Service {
	return &service{
		vectorDB:    vector,
		ranker:      ranker,
		llmProvider: provider,
		memory:      memory,
		cache:       cache,
		coordinator: coordinator,
		logger:      logger_i.NewLogger("RAG Service :"),
	}
}

func (s *service) Answer(ctx context.Context, request AnswerRequest) (ragModel.RAGAnswer, error) {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	start := time.Now()
	status := "error"
	defer func() { metrics.CaptureAnswerMetrics(status, time.Since(start)) }()

	if strings.TrimSpace(request.Question) == "" {
		return ragModel.RAGAnswer{}, fmt.Errorf("%w: empty question", ragModel.ErrValidation)
	}

	processContext, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	sessionId := request.SessionId
	if sessionId == "" {
		sessionId = utils.GetNewUUID()
	}

	// Retrieval
	chunks, err := s.executeRetrievalStep(processContext, inMethodLogger, request)
	if err != nil {
		return ragModel.RAGAnswer{}, s.pipelineError(inMethodLogger, "RETRIEVAL_FAILURE", err)
	}

	// History is best effort: a broken memory store degrades to a
	// contextless conversation instead of failing the question.
	history := s.executeHistoryStep(processContext, inMethodLogger, sessionId)

	contextStats := prompt.Stats(chunks)
	inMethodLogger.Debug("Context assembled",
		"chunks", contextStats.TotalChunks,
		"documents", len(contextStats.Documents),
		"textLength", contextStats.TotalTextLength,
		"avgSimilarity", contextStats.AverageSimilarity)

	messages := prompt.BuildMessages(request.Style, prompt.FormatContext(chunks), history, request.Question)
	params := llm.Params{
		Model:       "",
		Temperature: config.ModelTemperature,
		MaxTokens:   config.ModelMaxTokens,
	}

	// Cache Check
	key := respcache.Fingerprint(messages, params)
	completion, cached := s.executeCacheCheckStep(inMethodLogger, key)

	// LLM Generation
	if !cached {
		completion, err = s.executeLLMStep(processContext, inMethodLogger, messages, params)
		if err != nil {
			return ragModel.RAGAnswer{}, s.pipelineError(inMethodLogger, "LLM_GENERATION_FAILURE", err)
		}
		if s.cache != nil && key != "" {
			s.cache.Put(key, completion)
		}
	}

	s.executeMemoryWriteStep(ctx, inMethodLogger, sessionId, request.Question, completion.Text)

	status = "ok"
	return ragModel.RAGAnswer{
		Answer:    completion.Text,
		Sources:   prompt.Summarize(chunks, config.PreviewLength),
		SessionId: sessionId,
		Usage:     completion.Usage,
	}, nil
}

func (s *service) IngestDocument(ctx context.Context, path string, filename string, report ingest.ProgressFunc) (string, int, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("Document_ingestion", time.Since(start)) }()

	documentId, chunkCount, err := s.coordinator.ProcessDocument(ctx, path, filename, report)
	if err != nil {
		return "", 0, s.pipelineError(s.logger, "INGESTION_FAILURE", err)
	}
	return documentId, chunkCount, nil
}

func (s *service) DeleteDocument(ctx context.Context, documentId string) error {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	existing, err := s.vectorDB.ChunksByDocument(ctx, documentId)
	if err != nil {
		return s.pipelineError(inMethodLogger, "DOCUMENT_LOOKUP_FAILURE", err)
	}
	if len(existing) == 0 {
		return fmt.Errorf("%w: document %s", ragModel.ErrNotFound, documentId)
	}

	if err := s.vectorDB.DeleteByDocument(ctx, documentId); err != nil {
		return s.pipelineError(inMethodLogger, "DOCUMENT_DELETE_FAILURE", err)
	}
	inMethodLogger.Info("Deleted document", "documentId", documentId, "chunks", len(existing))
	return nil
}

func (s *service) ListDocuments(ctx context.Context) ([]ragModel.DocumentInfo, error) {
	docs, err := s.vectorDB.ListDocuments(ctx)
	if err != nil {
		return nil, s.pipelineError(s.logger, "DOCUMENT_LIST_FAILURE", err)
	}
	return docs, nil
}

func (s *service) DocumentChunks(ctx context.Context, documentId string) ([]ragModel.RetrievedChunk, error) {
	chunks, err := s.ranker.ChunksForDocument(ctx, documentId)
	if err != nil {
		return nil, s.pipelineError(s.logger, "DOCUMENT_CHUNKS_FAILURE", err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: document %s", ragModel.ErrNotFound, documentId)
	}
	return chunks, nil
}
