package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"repurposer/internal/config"
	"repurposer/internal/data/contentStore"
	"repurposer/internal/domain/contentModel"
	"repurposer/internal/domain/jobModel"
	"repurposer/internal/metrics"
	"repurposer/internal/pipeline/embedding"
	"repurposer/internal/pipeline/extract"
	"repurposer/internal/pipeline/generate"
	"repurposer/internal/pipeline/vectorIndex"
	"repurposer/pkg/logger_i"
)

// ErrSearchUnavailable is returned when the embedding client or vector
// index never came up. The handler maps it to 503.
var ErrSearchUnavailable = errors.New("semantic search unavailable: embeddings or vector index not configured")

// Service is what the worker calls. It hides the extraction, embedding,
// indexing and generation dependencies behind the two job entry points.
type Service interface {
	ProcessSource(ctx context.Context, job jobModel.Job) jobModel.Job
	GenerateContent(ctx context.Context, job jobModel.Job) jobModel.Job
	SemanticSearch(ctx context.Context, query string, sourceId string, limit int) ([]vectorIndex.Match, error)
}

type service struct {
	store       contentStore.Store
	index       vectorIndex.Index
	embedder    embedding.Embedder
	generator   *generate.Generator
	transcriber extract.Transcriber
	logger      *logger_i.Logger
}

// NewService wires the pipeline. index, embedder and the generator's
// provider may be nil when their backing service is unreachable; the
// affected operations degrade with explicit errors instead of panics.
func NewService(store contentStore.Store, index vectorIndex.Index, em embedding.Embedder, gen *generate.Generator, tr extract.Transcriber) Service {
	return &service{
		store:       store,
		index:       index,
		embedder:    em,
		generator:   gen,
		transcriber: tr,
		logger:      logger_i.NewLogger("Pipeline Service :"),
	}
}

// ProcessSource runs upload -> extract -> chunk -> embed -> index. The
// source row tracks the outcome: processed with a transcript on success,
// failed with a reason otherwise.
func (s *service) ProcessSource(ctx context.Context, jobt jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "JobId", jobt.Id)
	jobt.CurrentStep = jobModel.ProcessInit

	if err := s.markProcessing(ctx, jobt.SourceId); err != nil {
		return s.jobError(jobt, err, "SOURCE_STATE_FAILURE", false)
	}

	text, err := s.executeExtractStep(ctx, inMethodLogger, &jobt)
	if err != nil {
		s.failSource(ctx, jobt.SourceId, "extraction failed: "+err.Error())
		return s.jobError(jobt, err, "EXTRACTION_FAILURE", retryable(err))
	}

	chunks, err := s.executeChunkStep(inMethodLogger, &jobt, text)
	if err != nil {
		s.failSource(ctx, jobt.SourceId, "chunking failed: "+err.Error())
		return s.jobError(jobt, err, "CHUNKING_FAILURE", false)
	}

	if err := s.executeEmbeddingStep(ctx, inMethodLogger, &jobt, chunks); err != nil {
		s.failSource(ctx, jobt.SourceId, "embedding failed: "+err.Error())
		return s.jobError(jobt, err, "EMBEDDING_FAILURE", retryable(err))
	}

	if err := s.executeIndexStep(ctx, inMethodLogger, &jobt, chunks); err != nil {
		// A source whose chunks cannot be persisted is unusable for
		// generation, it must end up failed.
		s.failSource(ctx, jobt.SourceId, "indexing failed: "+err.Error())
		return s.jobError(jobt, err, "VECTOR_DB_FAILURE", retryable(err))
	}

	if err := s.store.UpdateSourceStatus(ctx, jobt.SourceId, contentModel.SourceProcessed, text, ""); err != nil {
		return s.jobError(jobt, err, "SOURCE_STATE_FAILURE", false)
	}

	s.cleanupUpload(jobt.JobPayload.FilePath)

	jobt.CurrentStep = jobModel.Complete
	jobt.Status = jobModel.JobStatusProcessed
	return jobt
}

// GenerateContent retrieves context for a processed source and produces
// one piece of content per requested type.
func (s *service) GenerateContent(ctx context.Context, jobt jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "JobId", jobt.Id)
	jobt.CurrentStep = jobModel.GenerateInit

	source, ok, err := s.store.GetSource(ctx, jobt.SourceId)
	if err != nil {
		return s.jobError(jobt, err, "CONTENT_STORE_FAILURE", retryable(err))
	}
	if !ok {
		return s.jobError(jobt, fmt.Errorf("source %s not found", jobt.SourceId), "SOURCE_NOT_FOUND", false)
	}
	if source.Status != contentModel.SourceProcessed {
		err := fmt.Errorf("source %s is %s, generation needs a processed source", source.Id, source.Status)
		return s.jobError(jobt, err, "SOURCE_NOT_READY", false)
	}

	contextText, chunkIds, err := s.executeRetrievalStep(ctx, inMethodLogger, &jobt)
	if err != nil {
		return s.jobError(jobt, err, "RETRIEVAL_FAILURE", retryable(err))
	}

	results, err := s.executeLLMStep(ctx, inMethodLogger, &jobt, contextText, chunkIds)
	if err != nil {
		return s.jobError(jobt, err, "LLM_GENERATION_FAILURE", retryable(err))
	}

	if err := s.executeStoreStep(ctx, inMethodLogger, &jobt, results); err != nil {
		return s.jobError(jobt, err, "CONTENT_STORE_FAILURE", retryable(err))
	}

	jobt.CurrentStep = jobModel.Complete
	jobt.Status = jobModel.JobStatusGenerated
	return jobt
}

// SemanticSearch embeds the query and runs a similarity search, scoped to
// one source when sourceId is non-empty.
func (s *service) SemanticSearch(ctx context.Context, query string, sourceId string, limit int) ([]vectorIndex.Match, error) {
	if s.embedder == nil || s.index == nil {
		return nil, ErrSearchUnavailable
	}
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("empty query")
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("semantic_search", time.Since(start)) }()

	vector, err := s.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return s.index.Search(ctx, vector, sourceId, limit, config.ScoreThreshold)
}

// markProcessing moves the source into processing, tolerating a job retry
// that already did so.
func (s *service) markProcessing(ctx context.Context, sourceId string) error {
	err := s.store.UpdateSourceStatus(ctx, sourceId, contentModel.SourceProcessing, "", "")
	if err == nil {
		return nil
	}
	if errors.Is(err, contentStore.ErrInvalidTransition) {
		source, ok, getErr := s.store.GetSource(ctx, sourceId)
		if getErr == nil && ok && source.Status == contentModel.SourceProcessing {
			return nil
		}
	}
	return err
}

func (s *service) failSource(ctx context.Context, sourceId string, reason string) {
	if err := s.store.UpdateSourceStatus(ctx, sourceId, contentModel.SourceFailed, "", reason); err != nil {
		s.logger.Error("could not mark source failed", "sourceId", sourceId, "error", err)
	}
}

func (s *service) cleanupUpload(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil {
		s.logger.Error("Error removing file", "error", err)
	}
}
