package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"repurposer/internal/config"
	"repurposer/internal/data/contentStore"
	"repurposer/internal/data/store"
	"repurposer/internal/domain/contentModel"
	"repurposer/internal/domain/jobModel"
	"repurposer/internal/handlers"
	"repurposer/internal/job"
	"repurposer/internal/pipeline"
	"repurposer/internal/pipeline/generate"
	"repurposer/internal/pipeline/vectorIndex"
)

var (
	setupOnce sync.Once
	memStore  *contentStore.MemoryStore
	jobStore  *store.InMemoryJobStore
)

// the handler singletons initialize once for the whole package
func initHandlers() {
	setupOnce.Do(func() {
		memStore = contentStore.NewMemoryStore()
		jobStore = store.InitInMemoryJobStore()

		jobSvc := job.InitJobService(job.ServiceConfig{
			JobChannel:        make(chan jobModel.Job, 16),
			DispatcherChannel: make(chan bool, 16),
			JobStore:          jobStore,
		})
		pipelineSvc := pipeline.NewService(memStore, vectorIndex.NewMemoryIndex(), nil, generate.NewGenerator(nil), nil)

		handlers.InitJobHandler(jobSvc)
		handlers.InitContentHandler(memStore, pipelineSvc)
	})
}

func withTrace(r *http.Request) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), config.TRACE_ID_KEY, "test-trace"))
}

// buildUpload creates a multipart body whose file part declares an
// explicit content type, the way a browser or curl would.
func buildUpload(t *testing.T, filename string, declaredType string, title string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if title != "" {
		if err := w.WriteField("title", title); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", declaredType)
	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write([]byte("some uploaded words")); err != nil {
		t.Fatalf("part write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("writer close: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestUploadRejectsDisallowedDeclaredType(t *testing.T) {
	initHandlers()
	t.Chdir(t.TempDir())

	body, contentType := buildUpload(t, "notes.txt", "video/avi", "my notes")
	req := withTrace(httptest.NewRequest(http.MethodPost, "/content/upload", body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handlers.UploadHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for disallowed declared content type", rec.Code)
	}
}

func TestUploadTrustsDeclaredTypeOverExtension(t *testing.T) {
	initHandlers()
	t.Chdir(t.TempDir())

	// no title field either: it must default to the filename
	body, contentType := buildUpload(t, "notes.data", "text/plain", "")
	req := withTrace(httptest.NewRequest(http.MethodPost, "/content/upload", body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handlers.UploadHandler(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202 for an allowed declared content type, body %s", rec.Code, rec.Body.String())
	}

	sources, err := memStore.ListSources(context.Background(), config.DefaultOwner, 0, 50)
	if err != nil {
		t.Fatalf("ListSources: %v", err)
	}
	var created *contentModel.ContentSource
	for i := range sources {
		if sources[i].Title == "notes.data" {
			created = &sources[i]
		}
	}
	if created == nil {
		t.Fatalf("no source titled after the filename; sources: %+v", sources)
	}
	if created.SourceType != contentModel.SourceText {
		t.Errorf("source type = %s, want text from the declared content type", created.SourceType)
	}
}

func generatedRouter() *chi.Mux {
	router := chi.NewRouter()
	router.Get("/content/generated/{job_id}", func(w http.ResponseWriter, r *http.Request) {
		handlers.GetGeneratedHandler(w, withTrace(r))
	})
	return router
}

func TestGetGeneratedUnknownJobAnswersNotFoundStatus(t *testing.T) {
	initHandlers()

	req := httptest.NewRequest(http.MethodGet, "/content/generated/no-such-job", nil)
	rec := httptest.NewRecorder()
	generatedRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var envelope map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("response is not a JSON object: %v, body %s", err, rec.Body.String())
	}
	if envelope["status"] != "not_found" {
		t.Errorf(`status field = %v, want "not_found"`, envelope["status"])
	}
}

func TestGetGeneratedReturnsStatusEnvelope(t *testing.T) {
	initHandlers()
	ctx := context.Background()

	jobId := "gen-job-env"
	if err := jobStore.SaveJob(ctx, jobModel.Job{
		Id:          jobId,
		JobType:     jobModel.JobTypeGenerate,
		Status:      jobModel.JobStatusGenerated,
		CreatedTime: time.Now(),
	}); err != nil {
		t.Fatalf("SaveJob: %v", err)
	}
	if err := memStore.SaveGenerated(ctx, contentModel.GeneratedContent{
		Id:          "content-env-1",
		SourceId:    "src-env",
		JobId:       jobId,
		ContentType: contentModel.HashtagsType,
		Content:     contentModel.RawPayload(contentModel.HashtagsType, "#one #two"),
		Status:      contentModel.ContentGenerated,
		Owner:       config.DefaultOwner,
		CreatedAt:   time.Now(),
	}); err != nil {
		t.Fatalf("SaveGenerated: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/content/generated/"+jobId, nil)
	rec := httptest.NewRecorder()
	generatedRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var envelope map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope["job_id"] != jobId {
		t.Errorf("job_id = %v, want %s", envelope["job_id"], jobId)
	}
	if envelope["status"] != string(jobModel.JobStatusGenerated) {
		t.Errorf("status = %v, want %s", envelope["status"], jobModel.JobStatusGenerated)
	}
	content, ok := envelope["content"].([]any)
	if !ok || len(content) != 1 {
		t.Fatalf("content = %v, want one generated piece", envelope["content"])
	}
	if _, ok := envelope["created_at"]; !ok {
		t.Error("created_at missing from envelope")
	}
}
