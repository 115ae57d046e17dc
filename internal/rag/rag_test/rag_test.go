package rag_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tiramai/ragapi/internal/config"
	"github.com/tiramai/ragapi/internal/domain/ragModel"
	"github.com/tiramai/ragapi/internal/rag"
	"github.com/tiramai/ragapi/internal/rag/ingest"
	"github.com/tiramai/ragapi/internal/rag/llm"
	"github.com/tiramai/ragapi/internal/rag/parser"
	"github.com/tiramai/ragapi/internal/rag/respcache"
	"github.com/tiramai/ragapi/internal/rag/retrieval"
	"github.com/tiramai/ragapi/internal/rag/vectorDB"
	"github.com/tiramai/ragapi/pkg/logger_i"
)

func init() {
	logger_i.Init()
}

func newTestService(vector *MockVectorDB, provider *MockLLM, memory ragModel.MemoryStore, parsing parser.Engine, chunkBudget int) rag.Service {
	coordinator := ingest.NewCoordinator(parsing, nil, vector, chunkBudget)
	return rag.NewService(vector, retrieval.NewRanker(vector), provider, memory, respcache.NewCache(time.Minute), coordinator)
}

func zeroScore() *float64 {
	zero := 0.0
	return &zero
}

func TestAnswer_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		request        rag.AnswerRequest
		setupMocks     func(v *MockVectorDB, l *MockLLM, m *MockMemory)
		expectedAnswer string
		expectedErr    error
	}{
		{
			name:    "Success_Full_Flow",
			request: rag.AnswerRequest{Question: "test question", MinScore: zeroScore()},
			setupMocks: func(v *MockVectorDB, l *MockLLM, m *MockMemory) {
				v.OnQuery = func(ctx context.Context, text string, topK int, filter *vectorDB.Filter) ([]vectorDB.Hit, error) {
					return []vectorDB.Hit{{ID: "d_0", Text: "relevant context", Distance: 0.2}}, nil
				}
				l.OnCompleteMessages = func(ctx context.Context, messages []ragModel.ConversationTurn, params llm.Params) (llm.Completion, error) {
					return llm.Completion{Text: "final answer", Model: "mock"}, nil
				}
			},
			expectedAnswer: "final answer",
		},
		{
			name:    "Success_No_Context",
			request: rag.AnswerRequest{Question: "unrelated question"},
			setupMocks: func(v *MockVectorDB, l *MockLLM, m *MockMemory) {
				v.OnQuery = func(ctx context.Context, text string, topK int, filter *vectorDB.Filter) ([]vectorDB.Hit, error) {
					return nil, nil
				}
			},
			expectedAnswer: "mocked llm response",
		},
		{
			name:        "Failure_Empty_Question",
			request:     rag.AnswerRequest{Question: "   "},
			setupMocks:  func(v *MockVectorDB, l *MockLLM, m *MockMemory) {},
			expectedErr: ragModel.ErrValidation,
		},
		{
			name:    "Failure_Vector_Search",
			request: rag.AnswerRequest{Question: "test question"},
			setupMocks: func(v *MockVectorDB, l *MockLLM, m *MockMemory) {
				v.OnQuery = func(ctx context.Context, text string, topK int, filter *vectorDB.Filter) ([]vectorDB.Hit, error) {
					return nil, errors.New("db timeout")
				}
			},
			expectedErr: ragModel.ErrPipelineFailure,
		},
		{
			name:    "Failure_LLM_Generation",
			request: rag.AnswerRequest{Question: "test question"},
			setupMocks: func(v *MockVectorDB, l *MockLLM, m *MockMemory) {
				l.OnCompleteMessages = func(ctx context.Context, messages []ragModel.ConversationTurn, params llm.Params) (llm.Completion, error) {
					return llm.Completion{}, errors.New("provider down")
				}
			},
			expectedErr: ragModel.ErrPipelineFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mVec := &MockVectorDB{}
			mLLM := &MockLLM{}
			mMem := &MockMemory{}
			tt.setupMocks(mVec, mLLM, mMem)

			s := newTestService(mVec, mLLM, mMem, &MockParser{}, 0)
			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

			answer, err := s.Answer(ctx, tt.request)

			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("expected %v, got %v", tt.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if answer.Answer != tt.expectedAnswer {
				t.Errorf("Answer got %q, want %q", answer.Answer, tt.expectedAnswer)
			}
			if answer.SessionId == "" {
				t.Error("expected a session id to be assigned")
			}
		})
	}
}

func TestAnswer_CacheSkipsSecondLLMCall(t *testing.T) {
	mVec := &MockVectorDB{OnQuery: func(ctx context.Context, text string, topK int, filter *vectorDB.Filter) ([]vectorDB.Hit, error) {
		return []vectorDB.Hit{{ID: "d_0", Text: "stable context", Distance: 0.2}}, nil
	}}
	mLLM := &MockLLM{}
	// nil memory so both calls assemble an identical prompt
	s := newTestService(mVec, mLLM, nil, &MockParser{}, 0)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "cache-trace")

	request := rag.AnswerRequest{Question: "repeat me", SessionId: "s1"}
	first, err := s.Answer(ctx, request)
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	second, err := s.Answer(ctx, request)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	if mLLM.Calls != 1 {
		t.Errorf("expected 1 provider call, got %d", mLLM.Calls)
	}
	if first.Answer != second.Answer {
		t.Errorf("cached answer should match: %q vs %q", first.Answer, second.Answer)
	}
}

func TestAnswer_RecordsConversation(t *testing.T) {
	mMem := &MockMemory{}
	s := newTestService(&MockVectorDB{}, &MockLLM{}, mMem, &MockParser{}, 0)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "memory-trace")

	_, err := s.Answer(ctx, rag.AnswerRequest{Question: "remember this", SessionId: "s-mem"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	turns := mMem.Appended["s-mem"]
	if len(turns) != 2 {
		t.Fatalf("expected user and assistant turns, got %d", len(turns))
	}
	if turns[0].Role != ragModel.RoleUser || turns[0].Content != "remember this" {
		t.Errorf("first turn should be the question: %+v", turns[0])
	}
	if turns[1].Role != ragModel.RoleAssistant {
		t.Errorf("second turn should be the answer: %+v", turns[1])
	}
}

func TestIngestThenQuery_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("placeholder"), 0o600); err != nil {
		t.Fatal(err)
	}

	parsing := &MockParser{OnParse: func(ctx context.Context, p string) (parser.ParsedDocument, error) {
		return parser.ParsedDocument{Markdown: "Alpha.\n\nBeta.\n\nGamma."}, nil
	}}
	mVec := &MockVectorDB{}
	// A 2-token budget (8 chars) holds one paragraph at a time, so the
	// fallback splitter must produce one chunk per paragraph.
	s := newTestService(mVec, &MockLLM{}, &MockMemory{}, parsing, 2)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "e2e-trace")

	documentId, chunkCount, err := s.IngestDocument(ctx, path, "notes.txt", nil)
	if err != nil {
		t.Fatalf("ingestion failed: %v", err)
	}
	if chunkCount != 3 {
		t.Fatalf("expected 3 chunks from ingestion, got %d", chunkCount)
	}

	chunks, err := s.DocumentChunks(ctx, documentId)
	if err != nil {
		t.Fatalf("chunk listing failed: %v", err)
	}
	if len(chunks) != chunkCount {
		t.Errorf("expected %d stored chunks, got %d", chunkCount, len(chunks))
	}
	wantIds := map[string]bool{
		documentId + "_0": true,
		documentId + "_1": true,
		documentId + "_2": true,
	}
	for _, chunk := range chunks {
		if chunk.Similarity != 1.0 {
			t.Errorf("listing should score chunks 1.0, got %v", chunk.Similarity)
		}
		if !wantIds[chunk.ChunkId] {
			t.Errorf("unexpected chunk id %q", chunk.ChunkId)
		}
		delete(wantIds, chunk.ChunkId)
	}
	if len(wantIds) != 0 {
		t.Errorf("missing chunk ids: %v", wantIds)
	}

	answer, err := s.Answer(ctx, rag.AnswerRequest{Question: "Beta", MinScore: zeroScore(), TopK: 1})
	if err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	if len(answer.Sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(answer.Sources))
	}
	if answer.Sources[0].DocumentId != documentId {
		t.Errorf("source should point at the ingested document: %+v", answer.Sources[0])
	}
	if answer.Sources[0].ChunkId != documentId+"_1" {
		t.Errorf("query should hit the middle chunk, got %q", answer.Sources[0].ChunkId)
	}
	if answer.Sources[0].Preview != "Beta." {
		t.Errorf("source preview should be the matching chunk text, got %q", answer.Sources[0].Preview)
	}

	if err := s.DeleteDocument(ctx, documentId); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := s.DocumentChunks(ctx, documentId); !errors.Is(err, ragModel.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteDocument_Unknown(t *testing.T) {
	s := newTestService(&MockVectorDB{}, &MockLLM{}, &MockMemory{}, &MockParser{}, 0)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "del-trace")

	err := s.DeleteDocument(ctx, "ghost-doc")
	if !errors.Is(err, ragModel.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
