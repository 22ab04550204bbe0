package vectorIndex

import (
	"context"
	"testing"

	"repurposer/internal/domain/contentModel"
)

func chunkWithVector(id, sourceId string, index int, vec []float32) contentModel.ContentChunk {
	return contentModel.ContentChunk{
		Id:        id,
		SourceId:  sourceId,
		Text:      "chunk " + id,
		Index:     index,
		Embedding: vec,
	}
}

func TestUpsertIsIdempotent(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	chunks := []contentModel.ContentChunk{
		chunkWithVector("c-0", "src-1", 0, []float32{1, 0, 0}),
		chunkWithVector("c-1", "src-1", 1, []float32{0, 1, 0}),
	}
	if err := idx.UpsertChunks(ctx, chunks); err != nil {
		t.Fatal(err)
	}
	// Re-upserting the same ids must overwrite, not duplicate.
	if err := idx.UpsertChunks(ctx, chunks); err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 2 {
		t.Errorf("point count = %d, want 2 after double upsert", idx.Len())
	}
}

func TestSearchRankingAndThreshold(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	// Vectors at fixed angles from the query so cosine scores are known:
	// c-high ~0.9, c-mid ~0.5, c-low ~0.1.
	query := []float32{1, 0}
	err := idx.UpsertChunks(ctx, []contentModel.ContentChunk{
		chunkWithVector("c-high", "src-1", 0, []float32{0.9, 0.43589}),
		chunkWithVector("c-mid", "src-1", 1, []float32{0.5, 0.86603}),
		chunkWithVector("c-low", "src-1", 2, []float32{0.1, 0.99499}),
	})
	if err != nil {
		t.Fatal(err)
	}

	matches, err := idx.Search(ctx, query, "", 2, 0.3)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Fatalf("len(matches) = %d, want 2 (limit 2, threshold drops c-low)", len(matches))
	}
	if matches[0].ChunkId != "c-high" || matches[1].ChunkId != "c-mid" {
		t.Errorf("order = [%s %s], want [c-high c-mid]", matches[0].ChunkId, matches[1].ChunkId)
	}
	if matches[0].Score < matches[1].Score {
		t.Error("matches must be ordered by descending score")
	}
}

func TestSearchSourceFilter(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	err := idx.UpsertChunks(ctx, []contentModel.ContentChunk{
		chunkWithVector("a-0", "src-a", 0, []float32{1, 0}),
		chunkWithVector("b-0", "src-b", 0, []float32{1, 0}),
	})
	if err != nil {
		t.Fatal(err)
	}

	matches, err := idx.Search(ctx, []float32{1, 0}, "src-b", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].SourceId != "src-b" {
		t.Errorf("matches = %+v, want only src-b", matches)
	}
}

func TestDeleteSource(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	err := idx.UpsertChunks(ctx, []contentModel.ContentChunk{
		chunkWithVector("a-0", "src-a", 0, []float32{1, 0}),
		chunkWithVector("a-1", "src-a", 1, []float32{0, 1}),
		chunkWithVector("b-0", "src-b", 0, []float32{1, 1}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := idx.DeleteSource(ctx, "src-a"); err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 1 {
		t.Errorf("point count = %d, want 1 after deleting src-a", idx.Len())
	}
}

func TestUpsertRejectsMissingVector(t *testing.T) {
	idx := NewMemoryIndex()
	err := idx.UpsertChunks(context.Background(), []contentModel.ContentChunk{
		{Id: "c-0", SourceId: "src-1"},
	})
	if err == nil {
		t.Error("chunk without a vector must be rejected")
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := cosineSimilarity([]float32{1, 0}, []float32{1, 0}); got < 0.999 {
		t.Errorf("identical vectors: score = %f, want ~1", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{0, 1}); got > 0.001 {
		t.Errorf("orthogonal vectors: score = %f, want ~0", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{0, 0}); got != 0 {
		t.Errorf("zero vector: score = %f, want 0", got)
	}
}
