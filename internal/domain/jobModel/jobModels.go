package jobModel

import (
	"context"
	"time"

	"repurposer/internal/domain/contentModel"
)

type JobStatus string
type InternalStatus string
type JobType string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusProcessed  JobStatus = "processed" //terminal for process jobs
	JobStatusGenerated  JobStatus = "generated" //terminal for generate jobs
	JobStatusFailed     JobStatus = "failed"

	ProcessInit      InternalStatus = "ProcessInit"
	Extracting       InternalStatus = "Extracting"
	Chunking         InternalStatus = "Chunking"
	EmbeddingAPICall InternalStatus = "EmbeddingAPI"
	VectorUpsert     InternalStatus = "VectorUpsert"

	GenerateInit InternalStatus = "GenerateInit"
	Retrieval    InternalStatus = "Retrieval"
	LLMCall      InternalStatus = "LLM"
	StoreWrite   InternalStatus = "ContentStore"

	Complete InternalStatus = "Complete"
	Error    InternalStatus = "Error"

	JobTypeProcess  JobType = "Process"
	JobTypeGenerate JobType = "Generate"
)

// Job is one asynchronous unit of work: either processing an upload
// (chunk + embed + index) or generating content for a source.
type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	SourceId    string         `json:"source_id"`
	Owner       string         `json:"owner"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	Attempts    int            `json:"attempts"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	//generate jobs
	ContentTypes   []contentModel.ContentType `json:"content_types,omitempty"`
	CustomPrompts  map[string]string          `json:"custom_prompts,omitempty"`
	TargetAudience string                     `json:"target_audience,omitempty"`
	Tone           string                     `json:"tone,omitempty"`
	MaxLength      int                        `json:"max_length,omitempty"`
	GeneratedIds   []string                   `json:"generated_ids,omitempty"`

	//process jobs
	FilePath   string                  `json:"file_path,omitempty"`
	SourceType contentModel.SourceType `json:"source_type,omitempty"`
}

// Terminal reports whether the job has finished, successfully or not.
func (j Job) Terminal() bool {
	switch j.Status {
	case JobStatusProcessed, JobStatusGenerated, JobStatusFailed:
		return true
	}
	return false
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
