package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cargoscan/internal/domain"
	"cargoscan/internal/service"
)

// maxUploadBytes caps capture uploads at 20MB.
const maxUploadBytes = 20 << 20

// CaptureHandler drives the interactive capture pipeline.
type CaptureHandler struct {
	pipeline service.Pipeline
}

// NewCaptureHandler creates a new CaptureHandler.
func NewCaptureHandler(pipeline service.Pipeline) *CaptureHandler {
	return &CaptureHandler{pipeline: pipeline}
}

// processDocumentInput is the DTO for the process step. DocumentType
// overrides the detected classification when set.
type processDocumentInput struct {
	DocumentType string `json:"document_type"`
}

// Capture handles POST /api/v1/capture/image
// @Summary Capture a document image
// @Description Upload an image, run OCR and classify the recognized text
// @Tags capture
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Document photo (JPG or PNG)"
// @Success 200 {object} APIResponse{data=service.PipelineState}
// @Failure 422 {object} APIResponse "No text recognized"
// @Security BearerAuth
// @Router /capture/image [post]
func (h *CaptureHandler) Capture(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_IMAGE", "image field is required")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxUploadBytes {
		RespondError(c, http.StatusRequestEntityTooLarge, "IMAGE_TOO_LARGE", "image exceeds maximum allowed size")
		return
	}

	// Spill the upload to a temp file; the pipeline copies it into
	// store-controlled storage before OCR.
	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("capture-%s%s", uuid.New().String(), filepath.Ext(header.Filename)))
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

	state, err := h.pipeline.ProcessImage(c.Request.Context(), tmpPath)
	if err != nil {
		status, code, _ := MapDomainError(err)
		RespondError(c, status, code, state.Message)
		return
	}
	RespondOK(c, state)
}

// Process handles POST /api/v1/capture/process
// @Summary Extract and persist the captured document
// @Description Run structured-field extraction on the recognized text and store the document
// @Tags capture
// @Accept json
// @Produce json
// @Param input body processDocumentInput false "Document type override"
// @Success 200 {object} APIResponse{data=service.PipelineState}
// @Failure 409 {object} APIResponse "No recognized text to process"
// @Security BearerAuth
// @Router /capture/process [post]
func (h *CaptureHandler) Process(c *gin.Context) {
	var input processDocumentInput
	if err := c.ShouldBindJSON(&input); err != nil && c.Request.ContentLength > 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	var docType domain.DocumentType
	if input.DocumentType != "" {
		docType = domain.ParseDocumentType(input.DocumentType)
	}

	state, err := h.pipeline.ProcessDocument(c.Request.Context(), docType)
	if err != nil {
		status, code, msg := MapDomainError(err)
		if state.Message != "" {
			msg = state.Message
		}
		RespondError(c, status, code, msg)
		return
	}
	RespondOK(c, state)
}

// State handles GET /api/v1/capture/state
// @Summary Current pipeline state
// @Tags capture
// @Produce json
// @Success 200 {object} APIResponse{data=service.PipelineState}
// @Security BearerAuth
// @Router /capture/state [get]
func (h *CaptureHandler) State(c *gin.Context) {
	RespondOK(c, h.pipeline.State())
}

// Reset handles POST /api/v1/capture/reset
// @Summary Reset the pipeline
// @Description Return the pipeline to the idle state from any phase
// @Tags capture
// @Produce json
// @Success 200 {object} APIResponse{data=service.PipelineState}
// @Security BearerAuth
// @Router /capture/reset [post]
func (h *CaptureHandler) Reset(c *gin.Context) {
	h.pipeline.Reset()
	RespondOK(c, h.pipeline.State())
}
