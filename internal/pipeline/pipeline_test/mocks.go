package pipeline_test

import (
	"context"

	"repurposer/internal/domain/contentModel"
	"repurposer/internal/pipeline/vectorIndex"
)

// MockIndex implements vectorIndex.Index
type MockIndex struct {
	// Control fields to simulate different behaviors
	OnEnsureCollection func(ctx context.Context) error
	OnUpsertChunks     func(ctx context.Context, chunks []contentModel.ContentChunk) error
	OnSearch           func(ctx context.Context, vector []float32, sourceId string, limit int, threshold float32) ([]vectorIndex.Match, error)
	OnDeleteSource     func(ctx context.Context, sourceId string) error
}

func (m *MockIndex) EnsureCollection(ctx context.Context) error {
	if m.OnEnsureCollection != nil {
		return m.OnEnsureCollection(ctx)
	}
	return nil
}

func (m *MockIndex) UpsertChunks(ctx context.Context, chunks []contentModel.ContentChunk) error {
	if m.OnUpsertChunks != nil {
		return m.OnUpsertChunks(ctx, chunks)
	}
	return nil
}

func (m *MockIndex) Search(ctx context.Context, vector []float32, sourceId string, limit int, threshold float32) ([]vectorIndex.Match, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, vector, sourceId, limit, threshold)
	}
	return []vectorIndex.Match{{ChunkId: "c-0", Text: "default context", Score: 0.9}}, nil
}

func (m *MockIndex) DeleteSource(ctx context.Context, sourceId string) error {
	if m.OnDeleteSource != nil {
		return m.OnDeleteSource(ctx, sourceId)
	}
	return nil
}

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, text)
	}
	return []float32{0.1}, nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, texts)
	}
	// Return dummy vectors matching input size
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{0.1, 0.2}
	}
	return vectors, nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, system string, user string) (string, error)
}

func (m *MockLLM) Generate(ctx context.Context, system string, user string) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, system, user)
	}
	return `{"hashtags": ["#mock"], "categories": ["testing"]}`, nil
}

func (m *MockLLM) ModelName() string { return "mock-model" }
