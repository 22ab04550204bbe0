package contentStore

import (
	"context"
	"errors"

	"repurposer/internal/domain/contentModel"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotApproved       = errors.New("content must be approved before scheduling")
)

// Analytics is the per-owner overview the dashboard reads.
type Analytics struct {
	TotalSources    int64   `json:"total_sources"`
	TotalGenerated  int64   `json:"total_generated"`
	ApprovedContent int64   `json:"approved_content"`
	ApprovalRate    float64 `json:"approval_rate"`
}

// Store persists sources, chunks, generated content, reviews and
// schedules. Implementations enforce the status state machines so a bad
// transition can never reach a row.
type Store interface {
	CreateSource(ctx context.Context, source contentModel.ContentSource) error
	GetSource(ctx context.Context, id string) (contentModel.ContentSource, bool, error)
	ListSources(ctx context.Context, owner string, offset, limit int) ([]contentModel.ContentSource, error)
	// UpdateSourceStatus validates the transition and optionally records
	// the transcript (processing) or the failure reason (failed).
	UpdateSourceStatus(ctx context.Context, id string, to contentModel.SourceStatus, transcript, failureReason string) error

	// ReplaceChunks swaps the full chunk sequence of a source in one
	// call. Chunk IDs are deterministic, so re-running a processing job
	// overwrites rather than duplicates.
	ReplaceChunks(ctx context.Context, sourceId string, chunks []contentModel.ContentChunk) error
	ListChunks(ctx context.Context, sourceId string) ([]contentModel.ContentChunk, error)

	SaveGenerated(ctx context.Context, content contentModel.GeneratedContent) error
	GetGenerated(ctx context.Context, id string) (contentModel.GeneratedContent, bool, error)
	ListGeneratedByJob(ctx context.Context, jobId string) ([]contentModel.GeneratedContent, error)

	// AddReview appends the review and mirrors its status onto the
	// reviewed content. Returns the updated content.
	AddReview(ctx context.Context, review contentModel.Review) (contentModel.GeneratedContent, error)
	ListReviews(ctx context.Context, contentId string) ([]contentModel.Review, error)

	CreateSchedule(ctx context.Context, schedule contentModel.ContentSchedule) error

	AnalyticsOverview(ctx context.Context, owner string) (Analytics, error)
}
