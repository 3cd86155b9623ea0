package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cargoscan/internal/domain"
	"cargoscan/internal/service"
)

// JobHandler handles background scan job endpoints.
type JobHandler struct {
	jobService service.JobService
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(jobService service.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// Create handles POST /api/v1/jobs
// @Summary Enqueue a background scan
// @Description Stage the image and queue it for processing when the worker next polls
// @Tags jobs
// @Accept multipart/form-data
// @Produce json
// @Param image formData file false "Document photo (JPG or PNG)"
// @Param document_type formData string false "Document type hint (invoice, delivery_note, warehouse_label)"
// @Param text formData string false "Pre-extracted OCR text, skips the OCR stage"
// @Param max_attempts formData int false "Retry budget"
// @Success 201 {object} APIResponse{data=domain.ScanJob}
// @Security BearerAuth
// @Router /jobs [post]
func (h *JobHandler) Create(c *gin.Context) {
	input := service.EnqueueScanInput{
		PreExtractedText: c.PostForm("text"),
	}
	if t := c.PostForm("document_type"); t != "" {
		input.DocumentType = domain.ParseDocumentType(t)
	}
	if m := c.PostForm("max_attempts"); m != "" {
		if n, err := strconv.Atoi(m); err == nil && n > 0 {
			input.MaxAttempts = n
		}
	}

	if file, header, err := c.Request.FormFile("image"); err == nil {
		defer func() { _ = file.Close() }()
		if header.Size > maxUploadBytes {
			RespondError(c, http.StatusRequestEntityTooLarge, "IMAGE_TOO_LARGE", "image exceeds maximum allowed size")
			return
		}

		tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("job-%s%s", uuid.New().String(), filepath.Ext(header.Filename)))
		out, err := os.Create(tmpPath)
		if err != nil {
			RespondError(c, http.StatusInternalServerError, "UPLOAD_FAILED", "could not stage the uploaded image")
			return
		}
		if _, err := out.ReadFrom(file); err != nil {
			_ = out.Close()
			_ = os.Remove(tmpPath)
			RespondError(c, http.StatusInternalServerError, "UPLOAD_FAILED", "could not stage the uploaded image")
			return
		}
		_ = out.Close()
		defer func() { _ = os.Remove(tmpPath) }()
		input.ImagePath = tmpPath
	}

	job, err := h.jobService.Enqueue(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, job)
}

// List handles GET /api/v1/jobs
// @Summary List scan jobs
// @Tags jobs
// @Produce json
// @Param offset query int false "Pagination offset"
// @Param limit query int false "Page size (default 50)"
// @Success 200 {object} APIResponse{data=[]domain.ScanJob}
// @Security BearerAuth
// @Router /jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	jobs, err := h.jobService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, jobs, PagMeta{Total: len(jobs), Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/jobs/:id
// @Summary Fetch one scan job
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} APIResponse{data=domain.ScanJob}
// @Failure 404 {object} APIResponse "Not found"
// @Security BearerAuth
// @Router /jobs/{id} [get]
func (h *JobHandler) GetByID(c *gin.Context) {
	job, err := h.jobService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, job)
}

// Cancel handles POST /api/v1/jobs/:id/cancel
// @Summary Cancel a scan job
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} APIResponse
// @Failure 409 {object} APIResponse "Job already finished"
// @Security BearerAuth
// @Router /jobs/{id}/cancel [post]
func (h *JobHandler) Cancel(c *gin.Context) {
	if err := h.jobService.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"cancelled": c.Param("id")})
}
