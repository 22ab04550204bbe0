package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"repurposer/internal/adapter"
	"repurposer/internal/adapter/utils"
	"repurposer/internal/api"
	"repurposer/internal/config"
	"repurposer/internal/data/contentStore"
	"repurposer/internal/domain/contentModel"
	"repurposer/internal/pipeline"
	"repurposer/pkg/logger_i"
)

var (
	contentInstance *ContentHandler //private singleton
	contentOnce     sync.Once
	logCH           *logger_i.Logger
)

type ContentHandler struct {
	store           contentStore.Store
	pipelineService pipeline.Service
}

func InitContentHandler(store contentStore.Store, pipelineService pipeline.Service) {
	contentOnce.Do(func() {
		contentInstance = &ContentHandler{store: store, pipelineService: pipelineService}
	})
}

// ListSourcesHandler godoc
// @Summary      List uploaded sources
// @Description  Returns uploaded sources for the current owner, newest first.
// @Tags         Content
// @Produce      json
// @Param        offset  query     int  false  "Pagination offset"
// @Param        limit   query     int  false  "Page size (default 20)"
// @Success      200     {array}   api.SourceResponse
// @Router       /content/sources [get]
func ListSourcesHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		offset := queryInt(r, "offset", 0)
		limit := queryInt(r, "limit", 20)

		sources, err := contentInstance.store.ListSources(r.Context(), config.DefaultOwner, offset, limit)
		if err != nil {
			logCH.Error("Couldn't list sources :", "err", err)
			WriteErrorResponse(w, http.StatusInternalServerError, "", "Storage error")
			return
		}

		out := make([]api.SourceResponse, 0, len(sources))
		for _, s := range sources {
			out = append(out, adapter.ToSourceResponse(s, 0))
		}
		writeJsonResponse(w, http.StatusOK, out)
	}
}

// GetSourceHandler godoc
// @Summary      Get one source
// @Description  Returns a single source with its processing status and chunk count.
// @Tags         Content
// @Produce      json
// @Param        id   path      string  true  "Source ID"
// @Success      200  {object}  api.SourceResponse
// @Failure      404  {object}  api.JobResponse  "Source not found"
// @Router       /content/sources/{id} [get]
func GetSourceHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		id := utils.GetChiURLParam(r, "id")
		source, found, err := contentInstance.store.GetSource(r.Context(), id)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, id, "Storage error")
			return
		}
		if !found {
			WriteErrorResponse(w, http.StatusNotFound, id, "Source not found")
			return
		}

		chunks, err := contentInstance.store.ListChunks(r.Context(), id)
		if err != nil {
			logCH.Warn("Couldn't count chunks :", "err", err)
		}
		writeJsonResponse(w, http.StatusOK, adapter.ToSourceResponse(source, len(chunks)))
	}
}

// GetGeneratedHandler godoc
// @Summary      Get generation job results
// @Description  Returns the generation job's status envelope with every piece of content it produced, or status "not_found" for an unknown job id.
// @Tags         Content
// @Produce      json
// @Param        job_id  path      string  true  "Generation job ID"
// @Success      200     {object}  api.GenerationStatusResponse
// @Router       /content/generated/{job_id} [get]
func GetGeneratedHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		jobId := utils.GetChiURLParam(r, "job_id")
		contents, err := contentInstance.store.ListGeneratedByJob(r.Context(), jobId)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, jobId, "Storage error")
			return
		}
		jobRecord, jobFound := GetJobStatus(jobId, r.Context().Value(config.TRACE_ID_KEY).(string))

		if len(contents) == 0 && !jobFound {
			writeJsonResponse(w, http.StatusOK, api.GenerationStatusResponse{
				Status:  "not_found",
				Message: "Job not found",
			})
			return
		}

		response := api.GenerationStatusResponse{JobId: jobId}
		switch {
		case jobFound:
			response.Status = string(jobRecord.Status)
			response.CreatedAt = jobRecord.CreatedTime
		default:
			//job record expired from the store, content rows remain
			response.Status = string(contents[0].Status)
			response.CreatedAt = contents[0].CreatedAt
		}

		for _, c := range contents {
			reviews, err := contentInstance.store.ListReviews(r.Context(), c.Id)
			if err != nil {
				logCH.Warn("Couldn't list reviews :", "err", err)
			}
			response.Content = append(response.Content, adapter.ToGeneratedResponse(c, reviews))
		}
		writeJsonResponse(w, http.StatusOK, response)
	}
}

// ReviewHandler godoc
// @Summary      Review generated content
// @Description  Records a review and moves the content through the approval state machine.
// @Tags         Review
// @Accept       json
// @Produce      json
// @Param        request  body      api.ReviewRequest  true  "Content ID and review verdict"
// @Success      200      {object}  api.GeneratedContentResponse  "Content with its updated status"
// @Failure      400      {object}  api.JobResponse  "Invalid verdict or illegal status transition"
// @Failure      404      {object}  api.JobResponse  "Content not found"
// @Router       /content/review [post]
func ReviewHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		var requestData api.ReviewRequest
		defer closeBody(r.Body, "Review")
		if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || requestData.ContentId == "" {
			WriteErrorResponse(w, http.StatusBadRequest, requestData.ContentId, "Bad Request")
			return
		}

		status := contentModel.ContentStatus(requestData.Status)
		if !contentModel.ValidReviewStatus(status) {
			WriteErrorResponse(w, http.StatusBadRequest, requestData.ContentId, "Invalid review status")
			return
		}

		review := contentModel.Review{
			Id:            utils.GetNewUUID(),
			ContentId:     requestData.ContentId,
			Reviewer:      config.DefaultOwner,
			Status:        status,
			Feedback:      requestData.Feedback,
			Modifications: requestData.Modifications,
			CreatedAt:     time.Now(),
		}
		updated, err := contentInstance.store.AddReview(r.Context(), review)
		if err != nil {
			switch {
			case errors.Is(err, contentStore.ErrNotFound):
				WriteErrorResponse(w, http.StatusNotFound, requestData.ContentId, "Content not found")
			case errors.Is(err, contentStore.ErrInvalidTransition):
				WriteErrorResponse(w, http.StatusBadRequest, requestData.ContentId, "Illegal status transition")
			default:
				WriteErrorResponse(w, http.StatusInternalServerError, requestData.ContentId, "Storage error")
			}
			return
		}
		writeJsonResponse(w, http.StatusOK, adapter.ToGeneratedResponse(updated, []contentModel.Review{review}))
	}
}

// ListReviewsHandler godoc
// @Summary      List reviews for content
// @Tags         Review
// @Produce      json
// @Param        content_id  path      string  true  "Generated content ID"
// @Success      200         {array}   api.ReviewResponse
// @Router       /content/reviews/{content_id} [get]
func ListReviewsHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		contentId := utils.GetChiURLParam(r, "content_id")
		reviews, err := contentInstance.store.ListReviews(r.Context(), contentId)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, contentId, "Storage error")
			return
		}
		out := make([]api.ReviewResponse, 0, len(reviews))
		for _, review := range reviews {
			out = append(out, adapter.ToReviewResponse(review))
		}
		writeJsonResponse(w, http.StatusOK, out)
	}
}

// ScheduleHandler godoc
// @Summary      Schedule approved content
// @Description  Schedules a piece of approved content for publication on a platform.
// @Tags         Schedule
// @Accept       json
// @Produce      json
// @Param        request  body      api.ScheduleRequest  true  "Content ID, platform and time"
// @Success      201      {object}  api.ScheduleResponse
// @Failure      400      {object}  api.JobResponse  "Content is not approved"
// @Failure      404      {object}  api.JobResponse  "Content not found"
// @Router       /content/schedule [post]
func ScheduleHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		var requestData api.ScheduleRequest
		defer closeBody(r.Body, "Schedule")
		if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil ||
			requestData.ContentId == "" || requestData.Platform == "" || requestData.ScheduledTime.IsZero() {
			WriteErrorResponse(w, http.StatusBadRequest, requestData.ContentId, "Bad Request")
			return
		}

		schedule := contentModel.ContentSchedule{
			Id:            utils.GetNewUUID(),
			ContentId:     requestData.ContentId,
			Platform:      requestData.Platform,
			ScheduledTime: requestData.ScheduledTime,
			Status:        contentModel.ScheduleScheduled,
			Owner:         config.DefaultOwner,
			CreatedAt:     time.Now(),
		}
		if err := contentInstance.store.CreateSchedule(r.Context(), schedule); err != nil {
			switch {
			case errors.Is(err, contentStore.ErrNotFound):
				WriteErrorResponse(w, http.StatusNotFound, requestData.ContentId, "Content not found")
			case errors.Is(err, contentStore.ErrNotApproved):
				WriteErrorResponse(w, http.StatusBadRequest, requestData.ContentId, "Content is not approved")
			default:
				WriteErrorResponse(w, http.StatusInternalServerError, requestData.ContentId, "Storage error")
			}
			return
		}
		writeJsonResponse(w, http.StatusCreated, adapter.ToScheduleResponse(schedule))
	}
}

// SearchHandler godoc
// @Summary      Semantic search over indexed chunks
// @Description  Embeds the query and returns the closest chunks, optionally filtered to one source.
// @Tags         Search
// @Accept       json
// @Produce      json
// @Param        request  body      api.SearchRequest  true  "Query text with optional source filter"
// @Success      200      {object}  api.SearchResponse
// @Failure      400      {object}  api.JobResponse  "Empty query"
// @Failure      503      {object}  api.JobResponse  "Embedding or vector backend unavailable"
// @Router       /search/semantic [post]
func SearchHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		var requestData api.SearchRequest
		defer closeBody(r.Body, "Search")
		if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || requestData.Query == "" {
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
			return
		}

		limit := requestData.Limit
		if limit <= 0 || limit > config.RetrievalLimit {
			limit = config.RetrievalLimit
		}

		matches, err := contentInstance.pipelineService.SemanticSearch(r.Context(), requestData.Query, requestData.SourceId, limit)
		if err != nil {
			logCH.Error("Semantic search failed :", "err", err)
			if errors.Is(err, pipeline.ErrSearchUnavailable) {
				WriteErrorResponse(w, http.StatusServiceUnavailable, "", "Search unavailable")
				return
			}
			WriteErrorResponse(w, http.StatusInternalServerError, "", "Search failed")
			return
		}
		writeJsonResponse(w, http.StatusOK, adapter.ToSearchResponse(requestData.Query, matches))
	}
}

// AnalyticsHandler godoc
// @Summary      Content analytics overview
// @Description  Returns source, generation and approval counts for the current owner.
// @Tags         Analytics
// @Produce      json
// @Success      200  {object}  api.AnalyticsResponse
// @Router       /analytics/overview [get]
func AnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		stats, err := contentInstance.store.AnalyticsOverview(r.Context(), config.DefaultOwner)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, "", "Storage error")
			return
		}
		writeJsonResponse(w, http.StatusOK, adapter.ToAnalyticsResponse(stats))
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

func closeBody(body io.ReadCloser, handler string) {
	if err := body.Close(); err != nil {
		logCH.Error("Couldn't close the "+handler+" handler reader :", err)
	}
}
