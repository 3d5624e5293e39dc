package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BlazingTwister/finalflow/internal/constants"
	"github.com/BlazingTwister/finalflow/internal/dto"
	apierrors "github.com/BlazingTwister/finalflow/internal/errors"
	"github.com/BlazingTwister/finalflow/internal/services"
)

// SubmissionHandler exposes submission recording, the acknowledgement gate
// and file download over HTTP.
type SubmissionHandler struct {
	submissionService *services.SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler
func NewSubmissionHandler(submissionService *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
	}
}

// Submit records the authenticated student's submission against a slot.
// Files arrive as a multipart form under the "files" field.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	userID, slotID, ok := actorAndID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		apierrors.BadRequest(c, "Invalid multipart form")
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) > constants.MaxUploadFiles {
		apierrors.BadRequest(c, fmt.Sprintf("At most %d files are allowed", constants.MaxUploadFiles))
		return
	}

	uploads := make([]services.FileUpload, 0, len(fileHeaders))
	var opened []io.Closer
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, header := range fileHeaders {
		f, err := header.Open()
		if err != nil {
			apierrors.BadRequest(c, fmt.Sprintf("Failed to read file %s", header.Filename))
			return
		}
		opened = append(opened, f)

		uploads = append(uploads, services.FileUpload{
			Name:        header.Filename,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
			Content:     f,
		})
	}

	submission, err := h.submissionService.Submit(userID, slotID, uploads)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSubmissionDTO(*submission))
}

// GetOwnSubmission returns one of the student's own submissions
func (h *SubmissionHandler) GetOwnSubmission(c *gin.Context) {
	userID, submissionID, ok := actorAndID(c)
	if !ok {
		return
	}

	submission, err := h.submissionService.GetOwnSubmission(submissionID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSubmissionDTO(*submission))
}

// Acknowledge marks a submission as acknowledged by the slot owner
func (h *SubmissionHandler) Acknowledge(c *gin.Context) {
	userID, submissionID, ok := actorAndID(c)
	if !ok {
		return
	}

	submission, err := h.submissionService.Acknowledge(submissionID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSubmissionDTO(*submission))
}

// Comment sets or overwrites the lecturer comment on a submission
func (h *SubmissionHandler) Comment(c *gin.Context) {
	userID, submissionID, ok := actorAndID(c)
	if !ok {
		return
	}

	type CommentRequest struct {
		Comment string `json:"comment" binding:"required"`
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	submission, err := h.submissionService.Comment(submissionID, userID, req.Comment)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSubmissionDTO(*submission))
}

// DownloadFile streams a submission file to the slot owner. Files are only
// released once the owning submission has been acknowledged.
func (h *SubmissionHandler) DownloadFile(c *gin.Context) {
	userID, fileID, ok := actorAndID(c)
	if !ok {
		return
	}

	file, err := h.submissionService.AuthorizeDownload(fileID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	reader, err := h.submissionService.OpenFile(file)
	if err != nil {
		apierrors.InternalError(c, "Failed to open file")
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Header("Content-Type", file.MimeType)
	c.Header("Content-Length", fmt.Sprintf("%d", file.FileSize))
	if _, err := io.Copy(c.Writer, reader); err != nil {
		// Headers are already out; nothing sensible left to send
		c.Abort()
	}
}
