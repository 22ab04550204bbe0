package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"repurposer/internal/config"
	"repurposer/internal/domain/contentModel"
	"repurposer/internal/domain/jobModel"
	"repurposer/internal/metrics"
	"repurposer/internal/pipeline/chunker"
	"repurposer/internal/pipeline/extract"
	"repurposer/internal/pipeline/generate"
	"repurposer/pkg/logger_i"
)

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("pipeline step", "Current Status", job.CurrentStep)
	return job
}

func (s *service) jobError(job jobModel.Job, err error, message string, canRetry bool) jobModel.Job {
	s.logger.Error(message, "error", err)

	job.Error = jobModel.JobError{
		Code:    http.StatusInternalServerError,
		Message: message,
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusFailed
	job.CurrentStep = jobModel.Error
	return job
}

func (s *service) executeExtractStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job) (string, error) {
	*job = logOutput(*job, jobModel.Extracting, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("extraction", time.Since(start)) }()

	stepCtx, cancel := context.WithTimeout(ctx, config.PipelineStepTimeout)
	defer cancel()

	return extract.Text(stepCtx, job.JobPayload.FilePath, job.JobPayload.SourceType, s.transcriber)
}

func (s *service) executeChunkStep(log *logger_i.Logger, job *jobModel.Job, text string) ([]contentModel.ContentChunk, error) {
	*job = logOutput(*job, jobModel.Chunking, log)

	chunks, err := chunker.Split(job.SourceId, text, chunker.DefaultOptions())
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("source %s produced no chunks", job.SourceId)
	}

	sourceType := job.JobPayload.SourceType
	if sourceType == contentModel.SourceAudio || sourceType == contentModel.SourceVideo {
		//estimate the recording length from the transcript at ~2.5 words/sec
		words := 0
		for _, c := range chunks {
			words += c.TokenCount
		}
		chunker.AttachTimings(chunks, len([]rune(text)), float64(words)/wordsPerSecond)
	}

	log.Debug("chunked source", "chunks", len(chunks))
	return chunks, nil
}

const wordsPerSecond = 2.5

func (s *service) executeEmbeddingStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, chunks []contentModel.ContentChunk) error {
	*job = logOutput(*job, jobModel.EmbeddingAPICall, log)

	if s.embedder == nil {
		return fmt.Errorf("embeddings unavailable: no embedder configured")
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := s.embedder.BatchEmbedding(ctx, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding mismatch: %d chunks, %d vectors", len(chunks), len(vectors))
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}
	return nil
}

// executeIndexStep writes chunks to the vector index and the relational
// store. Chunk ids are deterministic, so a retried job overwrites its own
// points instead of duplicating them.
func (s *service) executeIndexStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, chunks []contentModel.ContentChunk) error {
	*job = logOutput(*job, jobModel.VectorUpsert, log)

	if s.index == nil {
		return fmt.Errorf("vector index unavailable")
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_upsert", time.Since(start)) }()

	if err := s.index.UpsertChunks(ctx, chunks); err != nil {
		return err
	}
	if err := s.store.ReplaceChunks(ctx, job.SourceId, chunks); err != nil {
		return err
	}
	metrics.CountIndexedChunks(len(chunks))
	return nil
}

// executeRetrievalStep gathers the context the generator prompts with:
// the source's leading chunks, capped per generation.
func (s *service) executeRetrievalStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job) (string, []string, error) {
	*job = logOutput(*job, jobModel.Retrieval, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("retrieval", time.Since(start)) }()

	chunks, err := s.store.ListChunks(ctx, job.SourceId)
	if err != nil {
		return "", nil, err
	}
	if len(chunks) == 0 {
		return "", nil, fmt.Errorf("source %s has no chunks", job.SourceId)
	}
	if len(chunks) > config.RetrievalChunksPerGeneration {
		chunks = chunks[:config.RetrievalChunksPerGeneration]
	}

	texts := make([]string, len(chunks))
	ids := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
		ids[i] = c.Id
	}
	return joinChunks(texts), ids, nil
}

func (s *service) executeLLMStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, contextText string, chunkIds []string) ([]contentModel.GeneratedContent, error) {
	*job = logOutput(*job, jobModel.LLMCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	return s.generator.Run(ctx, generate.Request{
		SourceId:       job.SourceId,
		JobId:          job.Id,
		Owner:          job.Owner,
		ContentTypes:   job.JobPayload.ContentTypes,
		ContextText:    contextText,
		SourceChunkIds: chunkIds,
		Options: generate.PromptOptions{
			CustomPrompts:  job.JobPayload.CustomPrompts,
			TargetAudience: job.JobPayload.TargetAudience,
			Tone:           job.JobPayload.Tone,
		},
	})
}

func (s *service) executeStoreStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, results []contentModel.GeneratedContent) error {
	*job = logOutput(*job, jobModel.StoreWrite, log)

	ids := make([]string, 0, len(results))
	for _, content := range results {
		if err := s.store.SaveGenerated(ctx, content); err != nil {
			return err
		}
		metrics.CountGeneratedContent(string(content.ContentType))
		ids = append(ids, content.Id)
	}
	job.JobPayload.GeneratedIds = ids
	return nil
}

func joinChunks(texts []string) string {
	out := ""
	for i, t := range texts {
		if i > 0 {
			out += "\n\n"
		}
		out += t
	}
	return out
}
