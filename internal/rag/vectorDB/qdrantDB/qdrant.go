package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"github.com/tiramai/ragapi/internal/config"
	"github.com/tiramai/ragapi/internal/domain/ragModel"
	"github.com/tiramai/ragapi/internal/rag/embedding"
	"github.com/tiramai/ragapi/internal/rag/vectorDB"
	"github.com/tiramai/ragapi/pkg/logger_i"
)

var logger *logger_i.Logger
var qdrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)
var collectionName = config.ChunkCollectionName

type ClientHolder struct {
	QObj     *qdrant.Client
	embedder embedding.Embedder
}

func GetQdrantStore(ctx context.Context, embedder embedding.Embedder) vectorDB.Store {

	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient()
		if res != nil {
			qdrantInstance = res
			go closeQdrant(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil || embedder == nil {
		return nil
	}
	return &ClientHolder{
		QObj:     qdrantInstance,
		embedder: embedder,
	}
}

func newClient() *qdrant.Client {

	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
	}

	err = createCollection(context.Background(), client, collectionName)
	if err != nil {
		logger.Error("could not create collection: ", "collectionName", collectionName, "error:", err)
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

func (db *ClientHolder) UpsertChunks(ctx context.Context, documentId string, chunks []ragModel.Chunk) ([]string, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if len(chunks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := db.embedder.BatchEmbedding(ctx, texts)
	if err != nil {
		loggr.Error("Error embedding chunk batch: ", "error:", err)
		return nil, err
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(chunks))
	stored := make([]string, len(chunks))

	for i, chunk := range chunks {
		payload := map[string]any{
			"content":     chunk.Text,
			"chunk_id":    chunk.Id,
			"document_id": documentId,
		}
		for k, v := range chunk.Metadata {
			payload[k] = v
		}

		qdrantPoints[i] = &qdrant.PointStruct{
			// Qdrant only accepts UUID/integer ids, so the logical
			// "<docId>_<index>" id is folded into a deterministic UUID.
			// Re-ingesting the same document lands on the same points.
			Id:      qdrant.NewID(pointId(chunk.Id)),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(payload),
		}
		stored[i] = chunk.Id
	}

	_, err = db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})

	if err != nil {
		return nil, fmt.Errorf("qdrant upsert failed: %w", err)
	}

	loggr.Debug("Upserted chunks", "documentId", documentId, "count", len(chunks))
	return stored, nil
}

func (db *ClientHolder) Query(ctx context.Context, text string, topK int, filter *vectorDB.Filter) ([]vectorDB.Hit, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	queryVector, err := db.embedder.GetEmbedding(ctx, text)
	if err != nil {
		loggr.Error("Error embedding query: ", "error:", err)
		return nil, err
	}

	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		Filter:         documentFilter(filter),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return nil, err
	}

	hits := make([]vectorDB.Hit, 0, len(result))
	for _, point := range result {
		// cosine similarity score -> cosine distance
		hits = append(hits, hitFromPayload(point.Payload, 1-float64(point.Score)))
	}

	loggr.Debug("Query matched", "count", len(hits))
	return hits, nil
}

func (db *ClientHolder) DeleteByDocument(ctx context.Context, documentId string) error {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	_, err := db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collectionName,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch("document_id", documentId)},
		}),
		Wait: qdrant.PtrOf(true),
	})
	if err != nil {
		loggr.Error("Error deleting document points: ", "documentId", documentId, "error:", err)
		return err
	}
	return nil
}

func (db *ClientHolder) ChunksByDocument(ctx context.Context, documentId string) ([]vectorDB.Hit, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	points, err := db.QObj.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: collectionName,
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch("document_id", documentId)},
		},
		Limit:       qdrant.PtrOf(uint32(config.QdrantListScrollLimit)),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Error("Error scrolling document chunks: ", "documentId", documentId, "error:", err)
		return nil, err
	}

	hits := make([]vectorDB.Hit, 0, len(points))
	for _, point := range points {
		hits = append(hits, hitFromPayload(point.Payload, 0))
	}
	return hits, nil
}

func (db *ClientHolder) ListDocuments(ctx context.Context) ([]ragModel.DocumentInfo, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	points, err := db.QObj.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: collectionName,
		Limit:          qdrant.PtrOf(uint32(config.QdrantListScrollLimit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Error("Error scrolling collection: ", "error:", err)
		return nil, err
	}

	byDoc := make(map[string]*ragModel.DocumentInfo)
	var order []string
	for _, point := range points {
		docId := point.Payload["document_id"].GetStringValue()
		if docId == "" {
			continue
		}
		info, ok := byDoc[docId]
		if !ok {
			info = &ragModel.DocumentInfo{
				Id:         docId,
				Filename:   point.Payload["filename"].GetStringValue(),
				IngestedAt: point.Payload["ingested_at"].GetIntegerValue(),
			}
			byDoc[docId] = info
			order = append(order, docId)
		}
		info.ChunkCount++
	}

	docs := make([]ragModel.DocumentInfo, 0, len(order))
	for _, docId := range order {
		docs = append(docs, *byDoc[docId])
	}
	return docs, nil
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	return err
}

func documentFilter(filter *vectorDB.Filter) *qdrant.Filter {
	if filter == nil || filter.DocumentID == "" {
		return nil
	}
	return &qdrant.Filter{
		Must: []*qdrant.Condition{qdrant.NewMatch("document_id", filter.DocumentID)},
	}
}

func hitFromPayload(payload map[string]*qdrant.Value, distance float64) vectorDB.Hit {
	metadata := make(map[string]any, len(payload))
	for key, value := range payload {
		if key == "content" {
			continue
		}
		switch kind := value.GetKind().(type) {
		case *qdrant.Value_StringValue:
			metadata[key] = kind.StringValue
		case *qdrant.Value_IntegerValue:
			metadata[key] = kind.IntegerValue
		case *qdrant.Value_DoubleValue:
			metadata[key] = kind.DoubleValue
		case *qdrant.Value_BoolValue:
			metadata[key] = kind.BoolValue
		}
	}

	return vectorDB.Hit{
		ID:       payload["chunk_id"].GetStringValue(),
		Text:     payload["content"].GetStringValue(),
		Metadata: metadata,
		Distance: distance,
	}
}

func pointId(chunkId string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunkId)).String()
}
