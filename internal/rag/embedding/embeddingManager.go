package embedding

import "context"

// Embedder turns raw text into vectors. It is internal to the vector
// store adapter; nothing above the store layer sees vectors.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}
