package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/tiramai/ragapi/internal/config"
	"github.com/tiramai/ragapi/internal/domain/ragModel"
	"github.com/tiramai/ragapi/internal/metrics"
	"github.com/tiramai/ragapi/internal/rag/llm"
	"github.com/tiramai/ragapi/internal/rag/retrieval"
	"github.com/tiramai/ragapi/pkg/logger_i"
)

// pipelineError folds any step failure into the single error kind the
// transport layer maps to a response.
func (s *service) pipelineError(log *logger_i.Logger, step string, err error) error {
	log.Error(step, "error", err)
	return fmt.Errorf("%w: %s: %w", ragModel.ErrPipelineFailure, step, err)
}

func (s *service) executeRetrievalStep(ctx context.Context, log *logger_i.Logger, request AnswerRequest) ([]ragModel.RetrievedChunk, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	chunks, err := s.ranker.Retrieve(ctx, request.Question, retrieval.Options{
		TopK:       request.TopK,
		MinScore:   request.MinScore,
		DocumentID: request.DocumentID,
	})
	if err != nil {
		return nil, err
	}
	log.Debug("Retrieval step", "chunks", len(chunks))
	return chunks, nil
}

func (s *service) executeHistoryStep(ctx context.Context, log *logger_i.Logger, sessionId string) []ragModel.ConversationTurn {
	if s.memory == nil {
		return nil
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("memory_read", time.Since(start)) }()

	history, err := s.memory.GetHistory(ctx, sessionId, config.MaxHistoryTurns)
	if err != nil {
		log.Warn("Failed to load conversation history", "sessionId", sessionId, "error", err.Error())
		return nil
	}
	return history
}

func (s *service) executeCacheCheckStep(log *logger_i.Logger, key string) (llm.Completion, bool) {
	if s.cache == nil {
		return llm.Completion{}, false
	}
	// An empty key means the request could not be fingerprinted;
	// distinct requests must not share a cache entry.
	if key == "" {
		log.Warn("Request fingerprinting failed, bypassing cache")
		return llm.Completion{}, false
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	completion, found := s.cache.Get(key)
	metrics.CaptureCacheLookup(found)
	if found {
		log.Debug("Answer served from cache")
	}
	return completion, found
}

func (s *service) executeLLMStep(ctx context.Context, log *logger_i.Logger, messages []ragModel.ConversationTurn, params llm.Params) (llm.Completion, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	completion, err := s.llmProvider.CompleteMessages(ctx, messages, params)
	if err != nil {
		return llm.Completion{}, err
	}
	log.Debug("LLM step", "model", completion.Model, "tokens", completion.Usage.TotalTokens)
	return completion, nil
}

// executeMemoryWriteStep records the exchange; failures only log.
func (s *service) executeMemoryWriteStep(ctx context.Context, log *logger_i.Logger, sessionId string, question string, answer string) {
	if s.memory == nil {
		return
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("memory_write", time.Since(start)) }()

	if err := s.memory.AppendTurn(ctx, sessionId, ragModel.ConversationTurn{Role: ragModel.RoleUser, Content: question}); err != nil {
		log.Error("Failed to record user turn", "sessionId", sessionId, "error", err.Error())
		return
	}
	if err := s.memory.AppendTurn(ctx, sessionId, ragModel.ConversationTurn{Role: ragModel.RoleAssistant, Content: answer}); err != nil {
		log.Error("Failed to record assistant turn", "sessionId", sessionId, "error", err.Error())
	}
}
