package vectorIndex

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"repurposer/internal/domain/contentModel"
)

type memoryPoint struct {
	vector   []float32
	sourceId string
	text     string
	index    int
}

// MemoryIndex is a brute-force cosine index. It backs tests and local
// runs where Qdrant is not reachable.
type MemoryIndex struct {
	mu     sync.RWMutex
	points map[string]memoryPoint
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{points: make(map[string]memoryPoint)}
}

func (m *MemoryIndex) EnsureCollection(ctx context.Context) error { return nil }

func (m *MemoryIndex) UpsertChunks(ctx context.Context, chunks []contentModel.ContentChunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			return fmt.Errorf("chunk %s has no vector", chunk.Id)
		}
		vec := make([]float32, len(chunk.Embedding))
		copy(vec, chunk.Embedding)
		m.points[chunk.Id] = memoryPoint{
			vector:   vec,
			sourceId: chunk.SourceId,
			text:     chunk.Text,
			index:    chunk.Index,
		}
	}
	return nil
}

func (m *MemoryIndex) Search(ctx context.Context, vector []float32, sourceId string, limit int, threshold float32) ([]Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 {
		limit = 10
	}

	matches := make([]Match, 0)
	for id, p := range m.points {
		if sourceId != "" && p.sourceId != sourceId {
			continue
		}
		score := cosineSimilarity(vector, p.vector)
		if score < threshold {
			continue
		}
		matches = append(matches, Match{
			ChunkId:  id,
			SourceId: p.sourceId,
			Text:     p.text,
			Index:    p.index,
			Score:    score,
		})
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (m *MemoryIndex) DeleteSource(ctx context.Context, sourceId string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range m.points {
		if p.sourceId == sourceId {
			delete(m.points, id)
		}
	}
	return nil
}

// Len reports the number of stored points.
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.points)
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
