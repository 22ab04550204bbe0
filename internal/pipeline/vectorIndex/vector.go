package vectorIndex

import (
	"context"

	"repurposer/internal/domain/contentModel"
)

// Match is one scored hit from a similarity search.
type Match struct {
	ChunkId  string  `json:"chunk_id"`
	SourceId string  `json:"source_id"`
	Text     string  `json:"chunk_text"`
	Index    int     `json:"chunk_index"`
	Score    float32 `json:"score"`
}

type Index interface {
	EnsureCollection(ctx context.Context) error
	// UpsertChunks writes chunk vectors keyed by chunk id. Re-upserting the
	// same ids overwrites, it never duplicates points.
	UpsertChunks(ctx context.Context, chunks []contentModel.ContentChunk) error
	// Search returns hits ordered by descending score. sourceId narrows the
	// search to one source when non-empty; hits below threshold are dropped.
	Search(ctx context.Context, vector []float32, sourceId string, limit int, threshold float32) ([]Match, error)
	DeleteSource(ctx context.Context, sourceId string) error
}
