package chunker

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"repurposer/internal/config"
	"repurposer/internal/domain/contentModel"
)

// chunkNamespace seeds deterministic chunk ids so reprocessing a source
// overwrites the same points in the vector index instead of duplicating them.
var chunkNamespace = uuid.MustParse("8b3e1a4e-6c1d-4b5a-9f2e-5d7c0a9b1e42")

type Options struct {
	Size    int
	Overlap int
}

func DefaultOptions() Options {
	return Options{Size: config.DefaultChunkSize, Overlap: config.DefaultChunkOverlap}
}

func (o Options) validate() error {
	if o.Size <= 0 || o.Size > config.MaxChunkSize {
		return fmt.Errorf("chunk size %d out of range (1..%d)", o.Size, config.MaxChunkSize)
	}
	if o.Overlap < 0 || o.Overlap > config.MaxChunkOverlap {
		return fmt.Errorf("chunk overlap %d out of range (0..%d)", o.Overlap, config.MaxChunkOverlap)
	}
	if o.Overlap >= o.Size {
		return fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", o.Overlap, o.Size)
	}
	return nil
}

// Split slices text into fixed-size chunks with the configured overlap.
// Offsets are character positions into the original text, indexes are
// 0-based and contiguous. Each chunk after the first starts overlap
// characters before the previous chunk's end; the walk stops once a
// chunk reaches the end of the text.
func Split(sourceId, text string, opts Options) ([]contentModel.ContentChunk, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return []contentModel.ContentChunk{}, nil
	}

	var chunks []contentModel.ContentChunk
	runes := []rune(trimmed)
	start := 0
	for index := 0; start < len(runes); index++ {
		end := start + opts.Size
		if end > len(runes) {
			end = len(runes)
		}
		chunkText := string(runes[start:end])
		chunks = append(chunks, contentModel.ContentChunk{
			Id:         ChunkId(sourceId, index),
			SourceId:   sourceId,
			Text:       chunkText,
			Index:      index,
			StartPos:   start,
			EndPos:     end,
			TokenCount: len(strings.Fields(chunkText)),
		})
		if end == len(runes) {
			break
		}
		start = end - opts.Overlap
	}
	return chunks, nil
}

// ChunkId derives the same id for the same (source, index) pair on every
// run, keeping vector points and chunk rows in lockstep across reprocessing.
func ChunkId(sourceId string, index int) string {
	return uuid.NewSHA1(chunkNamespace, []byte(fmt.Sprintf("%s:%d", sourceId, index))).String()
}

// AttachTimings maps character offsets onto the recording timeline for
// audio and video transcripts, proportional to position in the text.
func AttachTimings(chunks []contentModel.ContentChunk, totalChars int, durationSeconds float64) {
	if totalChars <= 0 || durationSeconds <= 0 {
		return
	}
	perChar := durationSeconds / float64(totalChars)
	for i := range chunks {
		chunks[i].StartTime = float64(chunks[i].StartPos) * perChar
		chunks[i].EndTime = float64(chunks[i].EndPos) * perChar
	}
}
