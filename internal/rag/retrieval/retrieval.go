package retrieval

import (
	"context"
	"fmt"
	"sort"

	"github.com/tiramai/ragapi/internal/config"
	"github.com/tiramai/ragapi/internal/domain/ragModel"
	"github.com/tiramai/ragapi/internal/rag/vectorDB"
	"github.com/tiramai/ragapi/pkg/logger_i"
)

// Options tune a single retrieval call. A nil MinScore means "use the
// configured default"; an explicit value <= 0 disables score filtering
// entirely.
type Options struct {
	TopK       int
	MinScore   *float64
	DocumentID string
}

type Ranker struct {
	store  vectorDB.Store
	logger *logger_i.Logger
}

func NewRanker(store vectorDB.Store) *Ranker {
	return &Ranker{
		store:  store,
		logger: logger_i.NewLogger("retrieval"),
	}
}

// Retrieve runs a similarity search and returns matches ordered by
// descending similarity, filtered by the effective minimum score.
func (r *Ranker) Retrieve(ctx context.Context, query string, opts Options) ([]ragModel.RetrievedChunk, error) {
	loggr := r.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	topK := opts.TopK
	if topK <= 0 {
		topK = config.TopKRetrieval
	}

	minScore := config.MinSimilarityScore
	if opts.MinScore != nil {
		minScore = *opts.MinScore
	}

	var filter *vectorDB.Filter
	if opts.DocumentID != "" {
		filter = &vectorDB.Filter{DocumentID: opts.DocumentID}
	}

	hits, err := r.store.Query(ctx, query, topK, filter)
	if err != nil {
		loggr.Error("Vector search failed", "error", err.Error())
		return nil, fmt.Errorf("%w: vector search: %v", ragModel.ErrCollaboratorUnavailable, err)
	}

	chunks := make([]ragModel.RetrievedChunk, 0, len(hits))
	for _, hit := range hits {
		similarity := SimilarityFromDistance(hit.Distance)
		if minScore > 0 && similarity < minScore {
			continue
		}
		chunks = append(chunks, retrievedFromHit(hit, similarity))
	}

	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Similarity > chunks[j].Similarity
	})

	loggr.Debug("Retrieved chunks", "requested", topK, "kept", len(chunks), "minScore", minScore)
	return chunks, nil
}

// ChunksForDocument lists a document's stored chunks without scoring;
// every entry carries similarity 1.0.
func (r *Ranker) ChunksForDocument(ctx context.Context, documentId string) ([]ragModel.RetrievedChunk, error) {
	loggr := r.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	hits, err := r.store.ChunksByDocument(ctx, documentId)
	if err != nil {
		loggr.Error("Chunk listing failed", "documentId", documentId, "error", err.Error())
		return nil, fmt.Errorf("%w: chunk listing: %v", ragModel.ErrCollaboratorUnavailable, err)
	}

	chunks := make([]ragModel.RetrievedChunk, 0, len(hits))
	for _, hit := range hits {
		chunks = append(chunks, retrievedFromHit(hit, 1.0))
	}
	return chunks, nil
}

// SimilarityFromDistance maps a cosine distance in [0, 2] onto a
// similarity in [0, 1]: 1 - d/2, clamped against engine round-off.
func SimilarityFromDistance(distance float64) float64 {
	similarity := 1 - distance/2
	if similarity < 0 {
		return 0
	}
	if similarity > 1 {
		return 1
	}
	return similarity
}

func retrievedFromHit(hit vectorDB.Hit, similarity float64) ragModel.RetrievedChunk {
	return ragModel.RetrievedChunk{
		ChunkId:          hit.ID,
		DocumentId:       metadataString(hit.Metadata, "document_id"),
		DocumentFilename: metadataString(hit.Metadata, "filename"),
		Text:             hit.Text,
		Similarity:       similarity,
		Distance:         hit.Distance,
		Metadata:         hit.Metadata,
	}
}

func metadataString(metadata map[string]any, key string) string {
	if metadata == nil {
		return ""
	}
	if value, ok := metadata[key].(string); ok {
		return value
	}
	return ""
}
