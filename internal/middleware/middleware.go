package middleware

import (
	"net/http"
	"strconv"

	"repurposer/internal/handlers"
	"repurposer/internal/metrics"
	"repurposer/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
	id           string
}

var GetHandler = Wrap(handlers.GetHandler)

var UploadHandler = Wrap(handlers.UploadHandler)
var GenerateHandler = Wrap(handlers.GenerateHandler)
var GetStatusHandler = Wrap(handlers.GetStatusHandler)

var ListSourcesHandler = Wrap(handlers.ListSourcesHandler)
var GetSourceHandler = Wrap(handlers.GetSourceHandler)
var GetGeneratedHandler = Wrap(handlers.GetGeneratedHandler)
var ReviewHandler = Wrap(handlers.ReviewHandler)
var ListReviewsHandler = Wrap(handlers.ListReviewsHandler)
var ScheduleHandler = Wrap(handlers.ScheduleHandler)
var SearchHandler = Wrap(handlers.SearchHandler)
var AnalyticsHandler = Wrap(handlers.AnalyticsHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}
func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Info("New request received")
	re = injectTrace(re)
	re = authenticate(re)
	if re.badRequest.isBadRequest {
		return re //stop if auth fails, Wrap writes the failure
	}
	re = rateLimiter(re)

	return re
}
