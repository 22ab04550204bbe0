package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"repurposer/internal/config"
	"repurposer/internal/data/contentStore"
	"repurposer/internal/domain/contentModel"
	"repurposer/internal/domain/jobModel"
	"repurposer/internal/pipeline"
	"repurposer/internal/pipeline/generate"
	"repurposer/internal/pipeline/vectorIndex"
)

func newTestService(t *testing.T, store contentStore.Store, idx *MockIndex, emb *MockEmbedder, llm *MockLLM) pipeline.Service {
	t.Helper()
	return pipeline.NewService(store, idx, emb, generate.NewGenerator(llm), nil)
}

func seedUpload(t *testing.T, store contentStore.Store, id string, status contentModel.SourceStatus) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "upload.txt")
	if err := os.WriteFile(path, []byte("test content for processing, long enough to chunk"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := store.CreateSource(context.Background(), contentModel.ContentSource{
		Id:         id,
		Title:      "upload",
		SourceType: contentModel.SourceText,
		FilePath:   path,
		Status:     status,
		Owner:      config.DefaultOwner,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func processJob(sourceId, path string) jobModel.Job {
	return jobModel.Job{
		Id:       "job-p1",
		JobType:  jobModel.JobTypeProcess,
		SourceId: sourceId,
		Owner:    config.DefaultOwner,
		JobPayload: jobModel.JobPayload{
			FilePath:   path,
			SourceType: contentModel.SourceText,
		},
	}
}

func TestProcessSource_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(e *MockEmbedder, v *MockIndex)
		expectedStatus jobModel.JobStatus
		expectedSource contentModel.SourceStatus
		expectRetry    bool
	}{
		{
			name:           "Success_Full_Flow",
			setupMocks:     func(e *MockEmbedder, v *MockIndex) {},
			expectedStatus: jobModel.JobStatusProcessed,
			expectedSource: contentModel.SourceProcessed,
		},
		{
			name: "Failure_Embedding",
			setupMocks: func(e *MockEmbedder, v *MockIndex) {
				e.OnBatchEmbedding = func(ctx context.Context, texts []string) ([][]float32, error) {
					return nil, errors.New("api limit")
				}
			},
			expectedStatus: jobModel.JobStatusFailed,
			expectedSource: contentModel.SourceFailed,
		},
		{
			name: "Failure_Vector_Upsert",
			setupMocks: func(e *MockEmbedder, v *MockIndex) {
				v.OnUpsertChunks = func(ctx context.Context, chunks []contentModel.ContentChunk) error {
					return errors.New("connection refused")
				}
			},
			expectedStatus: jobModel.JobStatusFailed,
			expectedSource: contentModel.SourceFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEmbed := &MockEmbedder{}
			mIdx := &MockIndex{}
			tt.setupMocks(mEmbed, mIdx)

			store := contentStore.NewMemoryStore()
			s := newTestService(t, store, mIdx, mEmbed, &MockLLM{})

			path := seedUpload(t, store, "src-1", contentModel.SourceUploaded)
			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

			result := s.ProcessSource(ctx, processJob("src-1", path))

			if result.Status != tt.expectedStatus {
				t.Errorf("Status got %v, want %v", result.Status, tt.expectedStatus)
			}

			source, _, _ := store.GetSource(ctx, "src-1")
			if source.Status != tt.expectedSource {
				t.Errorf("Source status got %v, want %v", source.Status, tt.expectedSource)
			}
		})
	}
}

func TestProcessSourcePersistsChunksAndTranscript(t *testing.T) {
	store := contentStore.NewMemoryStore()
	s := newTestService(t, store, &MockIndex{}, &MockEmbedder{}, &MockLLM{})

	path := seedUpload(t, store, "src-1", contentModel.SourceUploaded)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	result := s.ProcessSource(ctx, processJob("src-1", path))
	if result.Status != jobModel.JobStatusProcessed {
		t.Fatalf("Status = %v, error = %+v", result.Status, result.Error)
	}

	chunks, err := store.ListChunks(ctx, "src-1")
	if err != nil || len(chunks) == 0 {
		t.Fatalf("chunks = %v, err = %v", chunks, err)
	}

	source, _, _ := store.GetSource(ctx, "src-1")
	if source.Transcript == "" {
		t.Error("processed source must carry its transcript")
	}

	// Uploads are deleted once processed.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("upload file should be removed after processing")
	}
}

func TestProcessSourceRetryAfterFailure(t *testing.T) {
	store := contentStore.NewMemoryStore()
	mEmbed := &MockEmbedder{}
	failing := true
	mEmbed.OnBatchEmbedding = func(ctx context.Context, texts []string) ([][]float32, error) {
		if failing {
			return nil, errors.New("transient")
		}
		vectors := make([][]float32, len(texts))
		for i := range vectors {
			vectors[i] = []float32{0.1}
		}
		return vectors, nil
	}

	s := newTestService(t, store, &MockIndex{}, mEmbed, &MockLLM{})
	path := seedUpload(t, store, "src-1", contentModel.SourceUploaded)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "retry-trace")

	result := s.ProcessSource(ctx, processJob("src-1", path))
	if result.Status != jobModel.JobStatusFailed {
		t.Fatalf("first attempt should fail, got %v", result.Status)
	}

	// Second attempt: failed -> processing is a legal transition.
	failing = false
	result = s.ProcessSource(ctx, processJob("src-1", path))
	if result.Status != jobModel.JobStatusProcessed {
		t.Fatalf("retry should succeed, got %v error %+v", result.Status, result.Error)
	}
}

func TestGenerateContent_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		sourceStatus   contentModel.SourceStatus
		setupLLM       func(l *MockLLM)
		expectedStatus jobModel.JobStatus
		expectRetry    bool
	}{
		{
			name:           "Success_Full_Flow",
			sourceStatus:   contentModel.SourceProcessed,
			setupLLM:       func(l *MockLLM) {},
			expectedStatus: jobModel.JobStatusGenerated,
		},
		{
			name:           "Failure_Source_Not_Processed",
			sourceStatus:   contentModel.SourceUploaded,
			setupLLM:       func(l *MockLLM) {},
			expectedStatus: jobModel.JobStatusFailed,
		},
		{
			name:         "Failure_LLM_Generation",
			sourceStatus: contentModel.SourceProcessed,
			setupLLM: func(l *MockLLM) {
				l.OnGenerate = func(ctx context.Context, system string, user string) (string, error) {
					return "", errors.New("provider down")
				}
			},
			expectedStatus: jobModel.JobStatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mLLM := &MockLLM{}
			tt.setupLLM(mLLM)

			store := contentStore.NewMemoryStore()
			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "gen-trace")

			err := store.CreateSource(ctx, contentModel.ContentSource{
				Id:         "src-1",
				SourceType: contentModel.SourceText,
				Status:     tt.sourceStatus,
				Owner:      config.DefaultOwner,
			})
			if err != nil {
				t.Fatal(err)
			}
			err = store.ReplaceChunks(ctx, "src-1", []contentModel.ContentChunk{
				{Id: "c-0", SourceId: "src-1", Text: "chunk zero", Index: 0},
				{Id: "c-1", SourceId: "src-1", Text: "chunk one", Index: 1},
			})
			if err != nil {
				t.Fatal(err)
			}

			s := newTestService(t, store, &MockIndex{}, &MockEmbedder{}, mLLM)
			result := s.GenerateContent(ctx, jobModel.Job{
				Id:       "job-g1",
				JobType:  jobModel.JobTypeGenerate,
				SourceId: "src-1",
				Owner:    config.DefaultOwner,
				JobPayload: jobModel.JobPayload{
					ContentTypes: []contentModel.ContentType{contentModel.HashtagsType, contentModel.LinkedInPostType},
				},
			})

			if result.Status != tt.expectedStatus {
				t.Errorf("Status got %v, want %v (error %+v)", result.Status, tt.expectedStatus, result.Error)
			}

			if tt.expectedStatus == jobModel.JobStatusGenerated {
				if len(result.JobPayload.GeneratedIds) != 2 {
					t.Errorf("GeneratedIds = %v, want one per content type", result.JobPayload.GeneratedIds)
				}
				contents, _ := store.ListGeneratedByJob(ctx, "job-g1")
				if len(contents) != 2 {
					t.Errorf("stored contents = %d, want 2", len(contents))
				}
				for _, c := range contents {
					if c.Status != contentModel.ContentGenerated {
						t.Errorf("content status = %s, want generated", c.Status)
					}
				}
			}
		})
	}
}

func TestSemanticSearch(t *testing.T) {
	mIdx := &MockIndex{}
	var gotSource string
	var gotThreshold float32
	mIdx.OnSearch = func(ctx context.Context, vector []float32, sourceId string, limit int, threshold float32) ([]vectorIndex.Match, error) {
		gotSource = sourceId
		gotThreshold = threshold
		return []vectorIndex.Match{{ChunkId: "c-0", SourceId: sourceId, Score: 0.91}}, nil
	}

	s := newTestService(t, contentStore.NewMemoryStore(), mIdx, &MockEmbedder{}, &MockLLM{})
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "search-trace")

	matches, err := s.SemanticSearch(ctx, "what did the talk cover", "src-1", 5)
	if err != nil {
		t.Fatalf("SemanticSearch: %v", err)
	}
	if len(matches) != 1 || matches[0].ChunkId != "c-0" {
		t.Errorf("matches = %+v", matches)
	}
	if gotSource != "src-1" {
		t.Errorf("search source filter = %q, want src-1", gotSource)
	}
	if gotThreshold != config.ScoreThreshold {
		t.Errorf("threshold = %f, want %f", gotThreshold, config.ScoreThreshold)
	}
}

func TestSemanticSearchEmptyQuery(t *testing.T) {
	s := newTestService(t, contentStore.NewMemoryStore(), &MockIndex{}, &MockEmbedder{}, &MockLLM{})
	if _, err := s.SemanticSearch(context.Background(), "   ", "", 5); err == nil {
		t.Error("empty query must be rejected")
	}
}
