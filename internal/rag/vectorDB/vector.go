package vectorDB

import (
	"context"

	"github.com/tiramai/ragapi/internal/domain/ragModel"
)

// Hit is a raw match from the vector engine. Distance is cosine
// distance in [0, 2]; the retrieval layer converts it to a similarity.
type Hit struct {
	ID       string
	Text     string
	Metadata map[string]any
	Distance float64
}

// Filter restricts a query to a subset of the collection.
type Filter struct {
	DocumentID string
}

type Store interface {
	// UpsertChunks embeds and writes the chunks of one document,
	// returning the ids actually stored.
	UpsertChunks(ctx context.Context, documentId string, chunks []ragModel.Chunk) ([]string, error)

	Query(ctx context.Context, text string, topK int, filter *Filter) ([]Hit, error)

	//document management calls
	DeleteByDocument(ctx context.Context, documentId string) error
	ChunksByDocument(ctx context.Context, documentId string) ([]Hit, error)
	ListDocuments(ctx context.Context) ([]ragModel.DocumentInfo, error)
}
