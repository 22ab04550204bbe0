package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"repurposer/internal/adapter"
	"repurposer/internal/adapter/utils"
	"repurposer/internal/api"
	"repurposer/internal/config"
	"repurposer/internal/domain/contentModel"
	"repurposer/internal/domain/jobModel"
	"repurposer/internal/pipeline/extract"
	"repurposer/pkg/logger_i"
)

var logRH *logger_i.Logger

// technically i dont need this
// but i want to eventually remove jobHandler from handlers and set it in another package
// so in anticipation for that this struct exists
type newJobData struct {
	id       string
	sourceId string
	owner    string
	traceId  string
	jobType  jobModel.JobType
	payload  jobModel.JobPayload
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// UploadHandler handles the uploading of source material for repurposing.
// @Summary      Upload source material
// @Description  Receives a file via multipart/form-data, checks its declared content type, saves it to the upload directory, and queues a processing job.
// @Tags         Content
// @Accept       multipart/form-data
// @Produce      json
// @Param        title        formData  string  false  "Display title of the source (defaults to the filename)"
// @Param        description  formData  string  false  "Optional description"
// @Param        file         formData  file    true   "The text, PDF, audio or video file to upload"
// @Success      202  {object}  api.InitJobResponse  "Accepted - returns job id and source id"
// @Failure      400  {object}  api.JobResponse      "Bad Request - missing fields, file too large or unsupported file type"
// @Failure      500  {object}  api.JobResponse      "Internal Server Error - storage or write error"
// @Router       /content/upload [post]
func UploadHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		targetDir, errString := getTargetDirectory()
		if errString != "" {
			logRH.Error("Couldn't get target directory :", "err", errString)
			WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
			return
		}

		err := r.ParseMultipartForm(config.MaxUploadSize)
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
			return
		}

		fileReader, fileMetadata, err := r.FormFile("file")
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
			return
		}
		defer fileReader.Close()

		title := r.FormValue("title")
		if title == "" {
			title = fileMetadata.Filename
		}

		sourceType, errString := resolveSourceType(fileMetadata)
		if errString != "" {
			logRH.Warn("Unsupported upload", "filename", fileMetadata.Filename, "content type", fileMetadata.Header.Get("Content-Type"))
			WriteErrorResponse(w, http.StatusBadRequest, title, errString)
			return
		}

		filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename)
		uploadPath := filepath.Join(targetDir, filename)
		destinationFileWriter, err := os.Create(uploadPath)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, title, "Storage error")
			return
		}
		defer destinationFileWriter.Close()

		written, err := io.Copy(destinationFileWriter, fileReader)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, title, "Write error")
			return
		}

		source := contentModel.ContentSource{
			Id:          utils.GetNewUUID(),
			Title:       title,
			Description: r.FormValue("description"),
			SourceType:  sourceType,
			FilePath:    uploadPath,
			FileSize:    written,
			Status:      contentModel.SourceUploaded,
			Owner:       config.DefaultOwner,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		if err := contentInstance.store.CreateSource(r.Context(), source); err != nil {
			logRH.Error("Couldn't create source row :", "err", err)
			WriteErrorResponse(w, http.StatusInternalServerError, title, "Storage error")
			return
		}

		newJob := newJobData{
			id:       utils.GetNewUUID(),
			sourceId: source.Id,
			owner:    source.Owner,
			traceId:  r.Context().Value(config.TRACE_ID_KEY).(string),
			jobType:  jobModel.JobTypeProcess,
			payload: jobModel.JobPayload{
				FilePath:   uploadPath,
				SourceType: sourceType,
			},
		}
		CreateNewJob(newJob)
		writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id, source.Id))
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// GenerateHandler godoc
// @Summary      Generate content from a processed source
// @Description  Queues a generation job producing one output per requested content type.
// @Tags         Content
// @Accept       json
// @Produce      json
// @Param        request  body      api.GenerateRequest  true  "Source ID and target content types"
// @Success      202      {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400      {object}  api.JobResponse      "Invalid request data or source not processed"
// @Failure      404      {object}  api.JobResponse      "Source not found"
// @Router       /content/generate [post]
func GenerateHandler(w http.ResponseWriter, request *http.Request) {
	if validateContext(request.Context()) {

		var requestData api.GenerateRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the Generate handler reader :", err)
			}
		}(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil {
			logRH.Warn("Bad Generate Request: ", "error:", err)
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
			return
		}

		contentTypes, errString := validateGenerateRequest(requestData)
		if errString != "" {
			logRH.Warn("Bad Generate Request: ", "error:", errString, "request data:", requestData)
			WriteErrorResponse(w, http.StatusBadRequest, requestData.SourceId, errString)
			return
		}

		source, found, err := contentInstance.store.GetSource(request.Context(), requestData.SourceId)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, requestData.SourceId, "Storage error")
			return
		}
		if !found {
			WriteErrorResponse(w, http.StatusNotFound, requestData.SourceId, "Source not found")
			return
		}
		if source.Status != contentModel.SourceProcessed {
			WriteErrorResponse(w, http.StatusBadRequest, requestData.SourceId, "Source not processed")
			return
		}

		newJob := newJobData{
			id:       utils.GetNewUUID(),
			sourceId: source.Id,
			owner:    source.Owner,
			traceId:  request.Context().Value(config.TRACE_ID_KEY).(string),
			jobType:  jobModel.JobTypeGenerate,
			payload: jobModel.JobPayload{
				ContentTypes:   contentTypes,
				CustomPrompts:  requestData.CustomPrompts,
				TargetAudience: requestData.TargetAudience,
				Tone:           requestData.Tone,
			},
		}
		CreateNewJob(newJob)
		writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id, source.Id))
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific job using its ID.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse  "The current status of the job"
// @Failure      404  {object}  api.JobResponse  "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		//use chi get the url id
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}

// resolveSourceType decides the source type from the part's declared
// content type. The filename extension only gets a say when the client
// declared nothing useful.
func resolveSourceType(fileMetadata *multipart.FileHeader) (contentModel.SourceType, string) {
	declared := fileMetadata.Header.Get("Content-Type")
	if typeName, allowed := config.AllowedUploadContentTypes[declared]; allowed {
		return contentModel.SourceType(typeName), ""
	}
	if declared == "" || declared == "application/octet-stream" {
		sourceType, err := extract.SourceTypeForPath(fileMetadata.Filename)
		if err != nil {
			return "", "Unsupported file type"
		}
		return sourceType, ""
	}
	return "", "Unsupported file type"
}

func validateGenerateRequest(requestData api.GenerateRequest) ([]contentModel.ContentType, string) {
	if requestData.SourceId == "" {
		return nil, "source_id is required"
	}
	if len(requestData.ContentTypes) == 0 {
		return nil, "content_types is required"
	}
	contentTypes := make([]contentModel.ContentType, 0, len(requestData.ContentTypes))
	for _, raw := range requestData.ContentTypes {
		ct := contentModel.ContentType(raw)
		if !contentModel.ValidContentType(ct) {
			return nil, fmt.Sprintf("unsupported content type %q", raw)
		}
		contentTypes = append(contentTypes, ct)
	}
	return contentTypes, ""
}
