package api

import (
	"time"

	"repurposer/internal/domain/contentModel"
)

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	SourceId  string            `json:"source_id" example:"src_550"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type Result struct {
	Status       string   `json:"status"`
	CurrentStep  string   `json:"current_step,omitempty"`
	GeneratedIds []string `json:"generated_ids,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	SourceId  string `json:"source_id,omitempty"`
	StatusURL string `json:"status_url"`
}

type SourceResponse struct {
	Id            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	SourceType    string    `json:"source_type"`
	Status        string    `json:"status"`
	FileSize      int64     `json:"file_size"`
	FailureReason string    `json:"failure_reason,omitempty"`
	ChunkCount    int       `json:"chunk_count,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type GeneratedContentResponse struct {
	Id             string                         `json:"id"`
	SourceId       string                         `json:"source_id"`
	JobId          string                         `json:"job_id"`
	ContentType    string                         `json:"content_type"`
	Content        contentModel.GeneratedPayload  `json:"content"`
	Status         string                         `json:"status"`
	ModelUsed      string                         `json:"model_used,omitempty"`
	GenerationTime float64                        `json:"generation_time,omitempty"`
	Reviews        []ReviewResponse               `json:"reviews,omitempty"`
	CreatedAt      time.Time                      `json:"created_at"`
}

// GenerationStatusResponse is the polling envelope for a generation job:
// queued/in_progress jobs report status only, finished jobs carry the
// generated pieces, unknown job ids answer {"status":"not_found"}.
type GenerationStatusResponse struct {
	JobId     string                     `json:"job_id,omitempty"`
	Status    string                     `json:"status"`
	Message   string                     `json:"message,omitempty"`
	Content   []GeneratedContentResponse `json:"content,omitempty"`
	CreatedAt time.Time                  `json:"created_at,omitzero"`
}

type ReviewResponse struct {
	Id        string    `json:"id"`
	ContentId string    `json:"content_id"`
	Reviewer  string    `json:"reviewer"`
	Status    string    `json:"status"`
	Feedback  string    `json:"feedback,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ScheduleResponse struct {
	Id            string    `json:"id"`
	ContentId     string    `json:"content_id"`
	Platform      string    `json:"platform"`
	ScheduledTime time.Time `json:"scheduled_time"`
	Status        string    `json:"status"`
}

type SearchMatch struct {
	ChunkId  string  `json:"chunk_id"`
	SourceId string  `json:"source_id"`
	Text     string  `json:"chunk_text"`
	Index    int     `json:"chunk_index"`
	Score    float32 `json:"score"`
}

type SearchResponse struct {
	Query   string        `json:"query"`
	Matches []SearchMatch `json:"matches"`
}

type AnalyticsResponse struct {
	TotalSources    int64   `json:"total_sources"`
	TotalGenerated  int64   `json:"total_generated"`
	ApprovedContent int64   `json:"approved_content"`
	ApprovalRate    float64 `json:"approval_rate"`
}

// requests---------------------

type GenerateRequest struct {
	SourceId       string            `json:"source_id" validate:"required"`
	ContentTypes   []string          `json:"content_types" validate:"required"`
	CustomPrompts  map[string]string `json:"custom_prompts,omitempty"`
	TargetAudience string            `json:"target_audience,omitempty"`
	Tone           string            `json:"tone,omitempty"`
}

type ReviewRequest struct {
	ContentId     string         `json:"content_id" validate:"required"`
	Status        string         `json:"status" validate:"required"`
	Feedback      string         `json:"feedback,omitempty"`
	Modifications map[string]any `json:"modifications,omitempty"`
}

type ScheduleRequest struct {
	ContentId     string    `json:"content_id" validate:"required"`
	Platform      string    `json:"platform" validate:"required"`
	ScheduledTime time.Time `json:"scheduled_time" validate:"required"`
}

type SearchRequest struct {
	Query    string `json:"query" validate:"required"`
	SourceId string `json:"source_id,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}
