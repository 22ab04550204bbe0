package qdrantIndex

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/qdrant/go-client/qdrant"

	"repurposer/internal/config"
	"repurposer/internal/domain/contentModel"
	"repurposer/internal/pipeline/vectorIndex"
	"repurposer/pkg/logger_i"
)

var logger *logger_i.Logger
var qdrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)

type ClientHolder struct {
	QObj           *qdrant.Client
	collectionName string

	mu      sync.Mutex
	created bool
}

// GetQdrantIndex returns the singleton index, or nil when Qdrant is not
// reachable. Callers treat nil as "semantic search unavailable".
func GetQdrantIndex(ctx context.Context) vectorIndex.Index {
	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient()
		if res != nil {
			qdrantInstance = res
			go closeQdrant(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj:           qdrantInstance,
		collectionName: config.ChunkCollectionName,
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
		return nil
	}

	//probe connectivity so a dead Qdrant degrades to nil instead of
	//failing on the first upsert
	if _, err := client.HealthCheck(context.Background()); err != nil {
		logger.Error("qdrant unreachable: ", "error:", err)
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

// EnsureCollection creates the chunk collection on first use. The check
// runs once per process, later calls are a no-op.
func (db *ClientHolder) EnsureCollection(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.created {
		return nil
	}
	if err := createCollection(ctx, db.QObj, db.collectionName); err != nil {
		return err
	}
	db.created = true
	return nil
}

func (db *ClientHolder) UpsertChunks(ctx context.Context, chunks []contentModel.ContentChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := db.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("ensure collection: %w", err)
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		if len(chunk.Embedding) != int(dimension) {
			return fmt.Errorf("chunk %s: vector has %d dimensions, want %d", chunk.Id, len(chunk.Embedding), dimension)
		}
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.Id),
			Vectors: qdrant.NewVectors(chunk.Embedding...),
			Payload: qdrant.NewValueMap(map[string]any{
				"chunk_id":    chunk.Id,
				"source_id":   chunk.SourceId,
				"chunk_text":  chunk.Text,
				"chunk_index": chunk.Index,
				"token_count": chunk.TokenCount,
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: db.collectionName,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (db *ClientHolder) Search(ctx context.Context, vector []float32, sourceId string, limit int, threshold float32) ([]vectorIndex.Match, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	if err := db.EnsureCollection(ctx); err != nil {
		return nil, fmt.Errorf("ensure collection: %w", err)
	}
	if limit <= 0 {
		limit = config.RetrievalLimit
	}

	query := &qdrant.QueryPoints{
		CollectionName: db.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if threshold > 0 {
		query.ScoreThreshold = qdrant.PtrOf(threshold)
	}
	if sourceId != "" {
		query.Filter = &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch("source_id", sourceId)},
		}
	}

	result, err := db.QObj.Query(ctx, query)
	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return nil, err
	}

	matches := make([]vectorIndex.Match, 0, len(result))
	for _, hit := range result {
		matches = append(matches, vectorIndex.Match{
			ChunkId:  hit.Payload["chunk_id"].GetStringValue(),
			SourceId: hit.Payload["source_id"].GetStringValue(),
			Text:     hit.Payload["chunk_text"].GetStringValue(),
			Index:    int(hit.Payload["chunk_index"].GetIntegerValue()),
			Score:    hit.Score,
		})
	}

	loggr.Debug("Search", "hits", len(matches))
	return matches, nil
}

func (db *ClientHolder) DeleteSource(ctx context.Context, sourceId string) error {
	if err := db.EnsureCollection(ctx); err != nil {
		return err
	}
	_, err := db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: db.collectionName,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch("source_id", sourceId)},
		}),
		Wait: qdrant.PtrOf(true),
	})
	return err
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

	return client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}
