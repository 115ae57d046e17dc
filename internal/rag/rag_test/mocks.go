package rag_test

import (
	"context"
	"strings"
	"sync"

	"github.com/tiramai/ragapi/internal/domain/ragModel"
	"github.com/tiramai/ragapi/internal/rag/llm"
	"github.com/tiramai/ragapi/internal/rag/parser"
	"github.com/tiramai/ragapi/internal/rag/vectorDB"
)

// MockVectorDB implements vectorDB.Store. Upserted chunks are kept in
// memory so ingest-then-query scenarios work without a real engine;
// Query matches on substring with distance 0.
type MockVectorDB struct {
	// Control fields to simulate different behaviors
	OnQuery            func(ctx context.Context, text string, topK int, filter *vectorDB.Filter) ([]vectorDB.Hit, error)
	OnUpsertChunks     func(ctx context.Context, documentId string, chunks []ragModel.Chunk) ([]string, error)
	OnDeleteByDocument func(ctx context.Context, documentId string) error

	mu     sync.Mutex
	stored map[string][]ragModel.Chunk
}

func (m *MockVectorDB) remember(documentId string, chunks []ragModel.Chunk) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stored == nil {
		m.stored = make(map[string][]ragModel.Chunk)
	}
	m.stored[documentId] = chunks
}

func (m *MockVectorDB) UpsertChunks(ctx context.Context, documentId string, chunks []ragModel.Chunk) ([]string, error) {
	if m.OnUpsertChunks != nil {
		return m.OnUpsertChunks(ctx, documentId, chunks)
	}
	m.remember(documentId, chunks)
	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		ids[i] = chunk.Id
	}
	return ids, nil
}

func (m *MockVectorDB) Query(ctx context.Context, text string, topK int, filter *vectorDB.Filter) ([]vectorDB.Hit, error) {
	if m.OnQuery != nil {
		return m.OnQuery(ctx, text, topK, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var hits []vectorDB.Hit
	for documentId, chunks := range m.stored {
		if filter != nil && filter.DocumentID != "" && filter.DocumentID != documentId {
			continue
		}
		for _, chunk := range chunks {
			if len(hits) >= topK {
				return hits, nil
			}
			if strings.Contains(chunk.Text, text) {
				hits = append(hits, vectorDB.Hit{ID: chunk.Id, Text: chunk.Text, Metadata: chunk.Metadata, Distance: 0})
			}
		}
	}
	return hits, nil
}

func (m *MockVectorDB) DeleteByDocument(ctx context.Context, documentId string) error {
	if m.OnDeleteByDocument != nil {
		return m.OnDeleteByDocument(ctx, documentId)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stored, documentId)
	return nil
}

func (m *MockVectorDB) ChunksByDocument(ctx context.Context, documentId string) ([]vectorDB.Hit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var hits []vectorDB.Hit
	for _, chunk := range m.stored[documentId] {
		hits = append(hits, vectorDB.Hit{ID: chunk.Id, Text: chunk.Text, Metadata: chunk.Metadata})
	}
	return hits, nil
}

func (m *MockVectorDB) ListDocuments(ctx context.Context) ([]ragModel.DocumentInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var docs []ragModel.DocumentInfo
	for documentId, chunks := range m.stored {
		docs = append(docs, ragModel.DocumentInfo{Id: documentId, ChunkCount: len(chunks)})
	}
	return docs, nil
}

// MockLLM implements llm.Provider and counts calls so cache-hit tests
// can assert the provider was skipped.
type MockLLM struct {
	OnCompleteMessages func(ctx context.Context, messages []ragModel.ConversationTurn, params llm.Params) (llm.Completion, error)
	Calls              int
}

func (m *MockLLM) Complete(ctx context.Context, prompt string, params llm.Params) (llm.Completion, error) {
	return m.CompleteMessages(ctx, []ragModel.ConversationTurn{{Role: ragModel.RoleUser, Content: prompt}}, params)
}

func (m *MockLLM) CompleteMessages(ctx context.Context, messages []ragModel.ConversationTurn, params llm.Params) (llm.Completion, error) {
	m.Calls++
	if m.OnCompleteMessages != nil {
		return m.OnCompleteMessages(ctx, messages, params)
	}
	return llm.Completion{Text: "mocked llm response", Model: "mock"}, nil
}

// MockMemory implements ragModel.MemoryStore.
type MockMemory struct {
	OnGetHistory func(ctx context.Context, sessionId string, limit int) ([]ragModel.ConversationTurn, error)

	mu       sync.Mutex
	Appended map[string][]ragModel.ConversationTurn
}

func (m *MockMemory) GetHistory(ctx context.Context, sessionId string, limit int) ([]ragModel.ConversationTurn, error) {
	if m.OnGetHistory != nil {
		return m.OnGetHistory(ctx, sessionId, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Appended[sessionId], nil
}

func (m *MockMemory) AppendTurn(ctx context.Context, sessionId string, turn ragModel.ConversationTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Appended == nil {
		m.Appended = make(map[string][]ragModel.ConversationTurn)
	}
	m.Appended[sessionId] = append(m.Appended[sessionId], turn)
	return nil
}

func (m *MockMemory) ValidateSession(ctx context.Context, sessionId string) bool { return true }

func (m *MockMemory) InitSession(ctx context.Context, sessionId string) error { return nil }

// MockParser implements parser.Engine for ingest-through-service tests.
type MockParser struct {
	OnParse func(ctx context.Context, path string) (parser.ParsedDocument, error)
}

func (m *MockParser) Parse(ctx context.Context, path string) (parser.ParsedDocument, error) {
	if m.OnParse != nil {
		return m.OnParse(ctx, path)
	}
	return parser.ParsedDocument{Markdown: "default content"}, nil
}
