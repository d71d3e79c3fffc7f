package submissions

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"truthcheck-backend/internal/quota"
	"truthcheck-backend/internal/shared/server/middleware"
	"truthcheck-backend/internal/shared/server/respond"
	"truthcheck-backend/internal/shared/storage/object"
	"truthcheck-backend/internal/shared/telemetry"
)

// Per-modality upload caps. Video dominates because clips come straight
// from the capture UI without transcoding.
const (
	maxImageUploadSize = 10 << 20
	maxAudioUploadSize = 25 << 20
	maxVideoUploadSize = 100 << 20
)

// Handler wires HTTP handlers to the submissions service.
type Handler struct {
	Svc   *Service
	Store object.ObjectStore

	polls *pollLimiter
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, store object.ObjectStore) *Handler {
	return &Handler{
		Svc:   svc,
		Store: store,
		polls: newPollLimiter(pollLimitWindow, nil),
	}
}

// RegisterRoutes attaches submission routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/submissions", h.createSubmission)
	rg.POST("/submissions/:id/submit", h.submitSubmission)
	rg.GET("/submissions", h.listSubmissions)
	rg.GET("/submissions/:id", h.getSubmission)
	rg.POST("/submissions/:id/cancel", h.cancelSubmission)
}

type createSubmissionRequest struct {
	Modality    string `json:"modality" form:"modality"`
	TextContent string `json:"textContent" form:"textContent"`
	URLContent  string `json:"urlContent" form:"urlContent"`
}

// createSubmission accepts JSON bodies for text and url modalities and
// multipart form uploads for image, audio, and video. The submission is
// created and immediately handed to analysis.
func (h *Handler) createSubmission(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createSubmissionRequest
	contentType := c.ContentType()
	isMultipart := strings.HasPrefix(contentType, "multipart/form-data")
	if isMultipart {
		req.Modality = c.PostForm("modality")
		req.TextContent = c.PostForm("textContent")
		req.URLContent = c.PostForm("urlContent")
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}

	modality, err := ParseModality(req.Modality)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown modality", nil)
		return
	}

	raw := RawInput{Text: req.TextContent, URL: req.URLContent}
	if modality.RequiresFile() {
		fileRef, ok := h.storeUpload(c, modality)
		if !ok {
			return
		}
		raw.File = fileRef
	}

	payload, err := NormalizePayload(modality, raw)
	if err != nil {
		h.discardUpload(c, raw.File)
		respondValidationError(c, err)
		return
	}

	submission, err := h.Svc.Create(WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c)), userID, payload)
	if err != nil {
		h.discardUpload(c, raw.File)
		switch {
		case errors.Is(err, quota.ErrLimitReached):
			respond.Error(c, http.StatusTooManyRequests, "limit_reached", "You've reached your analysis limit. Upgrade your plan to continue.", []map[string]string{
				{"field": "quota", "issue": "limit_reached"},
			})
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create submission", nil)
		}
		return
	}

	c.Set("submissionId", submission.ID)

	submitted, err := h.Svc.Submit(WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c)), submission.ID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start analysis", nil)
		return
	}

	respond.Accepted(c, gin.H{
		"submissionId": submitted.ID,
		"status":       submitted.Status,
		"modality":     submitted.Payload.Modality,
	})
}

// submitSubmission retries analysis for a submission that was created but
// never entered analysis, typically after an enqueue failure.
func (h *Handler) submitSubmission(c *gin.Context) {
	submissionID := c.Param("id")
	if submissionID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "submission id is required", nil)
		return
	}

	submission, err := h.Svc.Submit(WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c)), submissionID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "submission not found", nil)
		case errors.Is(err, ErrAlreadySubmitted):
			respond.Error(c, http.StatusConflict, "already_submitted", "submission was already submitted", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start analysis", nil)
		}
		return
	}

	c.Set("submissionId", submission.ID)
	respond.Accepted(c, gin.H{
		"submissionId": submission.ID,
		"status":       submission.Status,
	})
}

func (h *Handler) getSubmission(c *gin.Context) {
	submissionID := c.Param("id")
	if submissionID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "submission id is required", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	if !h.polls.Allow(userID, submissionID) {
		c.Header("Retry-After", strconv.Itoa(h.polls.RetryAfterSeconds()))
		respond.Error(c, http.StatusTooManyRequests, "poll_too_fast", "poll interval exceeded", nil)
		return
	}

	submission, err := h.Svc.Get(c.Request.Context(), submissionID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "submission not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch submission", nil)
		}
		return
	}

	c.Set("submissionId", submission.ID)
	respond.JSON(c, http.StatusOK, submissionResponse(submission))
}

func (h *Handler) listSubmissions(c *gin.Context) {
	if middleware.IsGuest(c) {
		respond.Error(c, http.StatusUnauthorized, "login_required", "Login required to view history", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0

	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 50 {
		limit = 50
	}

	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	userSubmissions, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list submissions", nil)
		return
	}

	resp := make([]gin.H, 0, len(userSubmissions))
	for _, submission := range userSubmissions {
		resp = append(resp, submissionResponse(submission))
	}

	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) cancelSubmission(c *gin.Context) {
	submissionID := c.Param("id")
	if submissionID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "submission id is required", nil)
		return
	}

	submission, err := h.Svc.Cancel(WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c)), submissionID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "submission not found", nil)
		case errors.Is(err, ErrNotCancellable):
			respond.Error(c, http.StatusConflict, "not_cancellable", "submission is not analyzing", []map[string]string{
				{"field": "status", "issue": string(submission.Status)},
			})
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to cancel submission", nil)
		}
		return
	}

	c.Set("submissionId", submission.ID)
	respond.JSON(c, http.StatusOK, submissionResponse(submission))
}

// storeUpload validates and persists the multipart file for file-backed
// modalities. On failure it writes the error response and returns false.
func (h *Handler) storeUpload(c *gin.Context, modality Modality) (*FileRef, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize(modality))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "missing_file", "file is required", nil)
		return nil, false
	}

	declaredMime := fileHeader.Header.Get("Content-Type")
	if declaredMime != "" && declaredMime != "application/octet-stream" && !modality.AcceptsMime(declaredMime) {
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_media_type", "file type does not match modality", []map[string]string{
			{"field": "file", "issue": declaredMime},
		})
		return nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return nil, false
	}
	defer file.Close()

	userID := middleware.UserIDFromContext(c)
	storageKey, size, sniffedMime, err := h.Store.Save(c.Request.Context(), userID, fileHeader.Filename, file)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store file", nil)
		return nil, false
	}

	mimeType := declaredMime
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = sniffedMime
	}

	return &FileRef{
		StorageKey: storageKey,
		FileName:   fileHeader.Filename,
		MimeType:   mimeType,
		SizeBytes:  size,
	}, true
}

// discardUpload removes an already-stored object when its submission is
// rejected, so over-quota or invalid requests do not leave orphans behind.
func (h *Handler) discardUpload(c *gin.Context, fileRef *FileRef) {
	if fileRef == nil || h.Store == nil {
		return
	}
	if err := h.Store.Delete(c.Request.Context(), fileRef.StorageKey); err != nil {
		telemetry.Warn("submission.upload.discard_failed", map[string]any{
			"storage_key": fileRef.StorageKey,
			"error":       err.Error(),
		})
	}
}

func maxUploadSize(modality Modality) int64 {
	switch modality {
	case ModalityAudio:
		return maxAudioUploadSize
	case ModalityVideo:
		return maxVideoUploadSize
	default:
		return maxImageUploadSize
	}
}

func respondValidationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmptyInput):
		respond.Error(c, http.StatusBadRequest, "empty_input", "text content is required", nil)
	case errors.Is(err, ErrInvalidURL):
		respond.Error(c, http.StatusBadRequest, "invalid_url", "a valid absolute http(s) url is required", nil)
	case errors.Is(err, ErrMissingFile):
		respond.Error(c, http.StatusBadRequest, "missing_file", "file is required", nil)
	case errors.Is(err, ErrUnsupportedMediaType):
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_media_type", "file type does not match modality", nil)
	default:
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	}
}

func submissionResponse(submission Submission) gin.H {
	resp := gin.H{
		"id":        submission.ID,
		"status":    submission.Status,
		"modality":  submission.Payload.Modality,
		"createdAt": submission.CreatedAt,
	}
	if submission.SubmittedAt != nil {
		resp["submittedAt"] = submission.SubmittedAt
	}
	if submission.CompletedAt != nil {
		resp["completedAt"] = submission.CompletedAt
	}
	if submission.ReportID != "" {
		resp["reportId"] = submission.ReportID
	}
	if submission.ErrorKind != "" {
		resp["errorKind"] = submission.ErrorKind
	}
	return resp
}
