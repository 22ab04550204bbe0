package contentModel

type SourceStatus string
type ContentStatus string
type ScheduleStatus string

const (
	SourceUploaded   SourceStatus = "uploaded"
	SourceProcessing SourceStatus = "processing"
	SourceProcessed  SourceStatus = "processed"
	SourceFailed     SourceStatus = "failed"

	ContentGenerated     ContentStatus = "generated"
	ContentApproved      ContentStatus = "approved"
	ContentRejected      ContentStatus = "rejected"
	ContentNeedsRevision ContentStatus = "needs_revision"
	ContentPublished     ContentStatus = "published"

	ScheduleScheduled ScheduleStatus = "scheduled"
	SchedulePublished ScheduleStatus = "published"
	ScheduleFailed    ScheduleStatus = "failed"
)

var sourceTransitions = map[SourceStatus][]SourceStatus{
	SourceUploaded:   {SourceProcessing},
	SourceProcessing: {SourceProcessed, SourceFailed},
	SourceFailed:     {SourceProcessing}, //at-least-once reprocessing
}

var contentTransitions = map[ContentStatus][]ContentStatus{
	ContentGenerated:     {ContentApproved, ContentRejected, ContentNeedsRevision},
	ContentNeedsRevision: {ContentApproved, ContentRejected},
	ContentApproved:      {ContentPublished, ContentRejected},
}

// CanTransition reports whether a source may move from its current status
// to the target. No transition may skip states.
func (s SourceStatus) CanTransition(to SourceStatus) bool {
	for _, next := range sourceTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (s ContentStatus) CanTransition(to ContentStatus) bool {
	for _, next := range contentTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidReviewStatus limits what a reviewer may set on content.
func ValidReviewStatus(s ContentStatus) bool {
	switch s {
	case ContentApproved, ContentRejected, ContentNeedsRevision:
		return true
	}
	return false
}

// CanSchedule requires prior approval: scheduling anything else is a
// client error, never an implicit transition.
func CanSchedule(s ContentStatus) bool {
	return s == ContentApproved
}
