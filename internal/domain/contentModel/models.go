package contentModel

import "time"

type SourceType string

const (
	SourceText  SourceType = "text"
	SourceAudio SourceType = "audio"
	SourceVideo SourceType = "video"
	SourcePDF   SourceType = "pdf"
)

// ContentSource is an uploaded piece of source material. The processing job
// mutates Status and Transcript; the row itself is never deleted by the
// pipeline.
type ContentSource struct {
	Id            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	SourceType    SourceType     `json:"source_type"`
	FilePath      string         `json:"file_path"`
	FileSize      int64          `json:"file_size"`
	Status        SourceStatus   `json:"status"`
	Transcript    string         `json:"transcript,omitempty"`
	FailureReason string         `json:"failure_reason,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	Owner         string         `json:"owner"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// ContentChunk is one contiguous slice of a source. Immutable once created;
// chunk Index is 0-based and contiguous per source, offsets are character
// positions for text sources and StartTime/EndTime are seconds for
// audio/video sources.
type ContentChunk struct {
	Id         string         `json:"id"`
	SourceId   string         `json:"source_id"`
	Text       string         `json:"chunk_text"`
	Index      int            `json:"chunk_index"`
	StartPos   int            `json:"start_position"`
	EndPos     int            `json:"end_position"`
	StartTime  float64        `json:"start_time,omitempty"`
	EndTime    float64        `json:"end_time,omitempty"`
	TokenCount int            `json:"token_count"`
	Embedding  []float32      `json:"-"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// GeneratedContent is one generated output for one content type.
type GeneratedContent struct {
	Id             string           `json:"id"`
	SourceId       string           `json:"source_id"`
	JobId          string           `json:"job_id"`
	ContentType    ContentType      `json:"content_type"`
	Content        GeneratedPayload `json:"content"`
	Status         ContentStatus    `json:"status"`
	SourceChunkIds []string         `json:"source_chunks,omitempty"`
	Prompt         string           `json:"generation_prompt,omitempty"`
	ModelUsed      string           `json:"model_used,omitempty"`
	GenerationTime float64          `json:"generation_time,omitempty"` //seconds
	Owner          string           `json:"owner"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// Review is an append-only audit entry. The latest review's status is
// mirrored onto the reviewed GeneratedContent.
type Review struct {
	Id            string         `json:"id"`
	ContentId     string         `json:"content_id"`
	Reviewer      string         `json:"reviewer"`
	Status        ContentStatus  `json:"status"`
	Feedback      string         `json:"feedback,omitempty"`
	Modifications map[string]any `json:"modifications,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

type ContentSchedule struct {
	Id            string         `json:"id"`
	ContentId     string         `json:"content_id"`
	Platform      string         `json:"platform"`
	ScheduledTime time.Time      `json:"scheduled_time"`
	Status        ScheduleStatus `json:"status"`
	ExternalId    string         `json:"external_id,omitempty"`
	Owner         string         `json:"owner"`
	CreatedAt     time.Time      `json:"created_at"`
}
