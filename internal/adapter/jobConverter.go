package adapter

import (
	"fmt"
	"time"

	"repurposer/internal/api"
	"repurposer/internal/data/contentStore"
	"repurposer/internal/domain/contentModel"
	"repurposer/internal/domain/jobModel"
	"repurposer/internal/pipeline/vectorIndex"
)

func ToInitJobResponse(id string, sourceId string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		SourceId:  sourceId,
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:       string(job.Status),
		CurrentStep:  string(job.CurrentStep),
		GeneratedIds: job.JobPayload.GeneratedIds,
	}

	return api.JobResponse{
		Id:        job.Id,
		SourceId:  job.SourceId,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}

func ToSourceResponse(source contentModel.ContentSource, chunkCount int) api.SourceResponse {
	return api.SourceResponse{
		Id:            source.Id,
		Title:         source.Title,
		Description:   source.Description,
		SourceType:    string(source.SourceType),
		Status:        string(source.Status),
		FileSize:      source.FileSize,
		FailureReason: source.FailureReason,
		ChunkCount:    chunkCount,
		CreatedAt:     source.CreatedAt,
		UpdatedAt:     source.UpdatedAt,
	}
}

func ToGeneratedResponse(content contentModel.GeneratedContent, reviews []contentModel.Review) api.GeneratedContentResponse {
	out := api.GeneratedContentResponse{
		Id:             content.Id,
		SourceId:       content.SourceId,
		JobId:          content.JobId,
		ContentType:    string(content.ContentType),
		Content:        content.Content,
		Status:         string(content.Status),
		ModelUsed:      content.ModelUsed,
		GenerationTime: content.GenerationTime,
		CreatedAt:      content.CreatedAt,
	}
	for _, r := range reviews {
		out.Reviews = append(out.Reviews, ToReviewResponse(r))
	}
	return out
}

func ToReviewResponse(review contentModel.Review) api.ReviewResponse {
	return api.ReviewResponse{
		Id:        review.Id,
		ContentId: review.ContentId,
		Reviewer:  review.Reviewer,
		Status:    string(review.Status),
		Feedback:  review.Feedback,
		CreatedAt: review.CreatedAt,
	}
}

func ToScheduleResponse(schedule contentModel.ContentSchedule) api.ScheduleResponse {
	return api.ScheduleResponse{
		Id:            schedule.Id,
		ContentId:     schedule.ContentId,
		Platform:      schedule.Platform,
		ScheduledTime: schedule.ScheduledTime,
		Status:        string(schedule.Status),
	}
}

func ToSearchResponse(query string, matches []vectorIndex.Match) api.SearchResponse {
	out := api.SearchResponse{Query: query, Matches: []api.SearchMatch{}}
	for _, m := range matches {
		out.Matches = append(out.Matches, api.SearchMatch{
			ChunkId:  m.ChunkId,
			SourceId: m.SourceId,
			Text:     m.Text,
			Index:    m.Index,
			Score:    m.Score,
		})
	}
	return out
}

func ToAnalyticsResponse(stats contentStore.Analytics) api.AnalyticsResponse {
	return api.AnalyticsResponse{
		TotalSources:    stats.TotalSources,
		TotalGenerated:  stats.TotalGenerated,
		ApprovedContent: stats.ApprovedContent,
		ApprovalRate:    stats.ApprovalRate,
	}
}
