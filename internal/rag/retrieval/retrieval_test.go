package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/tiramai/ragapi/internal/domain/ragModel"
	"github.com/tiramai/ragapi/internal/rag/vectorDB"
	"github.com/tiramai/ragapi/pkg/logger_i"
)

func init() {
	logger_i.Init()
}

type mockStore struct {
	QueryFunc            func(ctx context.Context, text string, topK int, filter *vectorDB.Filter) ([]vectorDB.Hit, error)
	ChunksByDocumentFunc func(ctx context.Context, documentId string) ([]vectorDB.Hit, error)
}

func (m *mockStore) UpsertChunks(ctx context.Context, documentId string, chunks []ragModel.Chunk) ([]string, error) {
	return nil, nil
}

func (m *mockStore) Query(ctx context.Context, text string, topK int, filter *vectorDB.Filter) ([]vectorDB.Hit, error) {
	return m.QueryFunc(ctx, text, topK, filter)
}

func (m *mockStore) DeleteByDocument(ctx context.Context, documentId string) error {
	return nil
}

func (m *mockStore) ChunksByDocument(ctx context.Context, documentId string) ([]vectorDB.Hit, error) {
	return m.ChunksByDocumentFunc(ctx, documentId)
}

func (m *mockStore) ListDocuments(ctx context.Context) ([]ragModel.DocumentInfo, error) {
	return nil, nil
}

func TestSimilarityFromDistance(t *testing.T) {
	cases := []struct {
		name     string
		distance float64
		want     float64
	}{
		{"identical vectors", 0, 1.0},
		{"opposite vectors", 2, 0.0},
		{"orthogonal vectors", 1, 0.5},
		{"round-off below zero", 2.0001, 0.0},
		{"round-off above one", -0.0001, 1.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SimilarityFromDistance(tc.distance)
			if got != tc.want {
				t.Errorf("distance %v: got %v, want %v", tc.distance, got, tc.want)
			}
		})
	}
}

func TestRetrieveFiltersByMinScore(t *testing.T) {
	store := &mockStore{
		QueryFunc: func(ctx context.Context, text string, topK int, filter *vectorDB.Filter) ([]vectorDB.Hit, error) {
			// all similarity 0.5
			return []vectorDB.Hit{
				{ID: "a_0", Text: "alpha", Distance: 1},
				{ID: "a_1", Text: "beta", Distance: 1},
			}, nil
		},
	}
	ranker := NewRanker(store)

	strict := 0.9
	chunks, err := ranker.Retrieve(context.Background(), "q", Options{TopK: 5, MinScore: &strict})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected all hits below threshold to be dropped, got %d", len(chunks))
	}
}

func TestRetrieveZeroMinScoreDisablesFilter(t *testing.T) {
	store := &mockStore{
		QueryFunc: func(ctx context.Context, text string, topK int, filter *vectorDB.Filter) ([]vectorDB.Hit, error) {
			return []vectorDB.Hit{
				{ID: "a_0", Text: "barely related", Distance: 1.9},
			}, nil
		},
	}
	ranker := NewRanker(store)

	zero := 0.0
	chunks, err := ranker.Retrieve(context.Background(), "q", Options{TopK: 5, MinScore: &zero})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected the weak hit to survive with filtering off, got %d", len(chunks))
	}
	if chunks[0].Similarity >= 0.1 {
		t.Errorf("expected a low similarity, got %v", chunks[0].Similarity)
	}
}

func TestRetrieveSortsBySimilarityDescending(t *testing.T) {
	store := &mockStore{
		QueryFunc: func(ctx context.Context, text string, topK int, filter *vectorDB.Filter) ([]vectorDB.Hit, error) {
			return []vectorDB.Hit{
				{ID: "mid", Text: "mid", Distance: 0.8},
				{ID: "best", Text: "best", Distance: 0.2},
				{ID: "worst", Text: "worst", Distance: 0.9},
			}, nil
		},
	}
	ranker := NewRanker(store)

	zero := 0.0
	chunks, err := ranker.Retrieve(context.Background(), "q", Options{TopK: 3, MinScore: &zero})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantOrder := []string{"best", "mid", "worst"}
	if len(chunks) != len(wantOrder) {
		t.Fatalf("expected %d chunks, got %d", len(wantOrder), len(chunks))
	}
	for i, want := range wantOrder {
		if chunks[i].ChunkId != want {
			t.Errorf("position %d: got %q, want %q", i, chunks[i].ChunkId, want)
		}
	}
}

func TestRetrieveDefaultsApplied(t *testing.T) {
	var gotTopK int
	store := &mockStore{
		QueryFunc: func(ctx context.Context, text string, topK int, filter *vectorDB.Filter) ([]vectorDB.Hit, error) {
			gotTopK = topK
			return nil, nil
		},
	}
	ranker := NewRanker(store)

	if _, err := ranker.Retrieve(context.Background(), "q", Options{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotTopK != 5 {
		t.Errorf("expected default topK 5, got %d", gotTopK)
	}
}

func TestRetrieveWrapsStoreError(t *testing.T) {
	store := &mockStore{
		QueryFunc: func(ctx context.Context, text string, topK int, filter *vectorDB.Filter) ([]vectorDB.Hit, error) {
			return nil, errors.New("connection refused")
		},
	}
	ranker := NewRanker(store)

	_, err := ranker.Retrieve(context.Background(), "q", Options{})
	if !errors.Is(err, ragModel.ErrCollaboratorUnavailable) {
		t.Errorf("expected ErrCollaboratorUnavailable, got %v", err)
	}
}

func TestChunksForDocumentScoresFull(t *testing.T) {
	store := &mockStore{
		ChunksByDocumentFunc: func(ctx context.Context, documentId string) ([]vectorDB.Hit, error) {
			return []vectorDB.Hit{
				{ID: documentId + "_0", Text: "first"},
				{ID: documentId + "_1", Text: "second"},
			}, nil
		},
	}
	ranker := NewRanker(store)

	chunks, err := ranker.ChunksForDocument(context.Background(), "doc1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	for _, chunk := range chunks {
		if chunk.Similarity != 1.0 {
			t.Errorf("chunk %s: expected similarity 1.0, got %v", chunk.ChunkId, chunk.Similarity)
		}
	}
}
