package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"cargoscan/internal/export"
	"cargoscan/internal/service"
)

// ExportHandler renders and publishes document artifacts.
type ExportHandler struct {
	docService service.DocumentService
	exporter   service.DocumentExporter
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(docService service.DocumentService, exporter service.DocumentExporter) *ExportHandler {
	return &ExportHandler{docService: docService, exporter: exporter}
}

// DownloadExcel handles GET /api/v1/documents/:id/export/xlsx
// @Summary Download the Excel export
// @Tags exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Document ID"
// @Success 200 {file} binary
// @Failure 404 {object} APIResponse "Not found"
// @Security BearerAuth
// @Router /documents/{id}/export/xlsx [get]
func (h *ExportHandler) DownloadExcel(c *gin.Context) {
	doc, err := h.docService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	body, err := export.Workbook(doc)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.attach(c, doc.ExportBaseName()+".xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", body)
}

// DownloadJSON handles GET /api/v1/documents/:id/export/json
// @Summary Download the shareable JSON export
// @Tags exports
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {file} binary
// @Failure 404 {object} APIResponse "Not found"
// @Security BearerAuth
// @Router /documents/{id}/export/json [get]
func (h *ExportHandler) DownloadJSON(c *gin.Context) {
	doc, err := h.docService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	body, err := export.ShareableJSON(doc)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.attach(c, doc.ExportBaseName()+".json", "application/json", body)
}

// DownloadQR handles GET /api/v1/documents/:id/export/qr
// @Summary Download the QR reference image
// @Tags exports
// @Produce image/png
// @Param id path string true "Document ID"
// @Success 200 {file} binary
// @Failure 404 {object} APIResponse "Not found"
// @Security BearerAuth
// @Router /documents/{id}/export/qr [get]
func (h *ExportHandler) DownloadQR(c *gin.Context) {
	doc, err := h.docService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	body, err := export.QRReference(doc)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.attach(c, doc.ExportBaseName()+".png", "image/png", body)
}

type publishInput struct {
	Format string `json:"format" binding:"required,oneof=xlsx json qr"`
	Name   string `json:"name"`
}

// Publish handles POST /api/v1/documents/:id/export
// @Summary Publish an export artifact
// @Description Render the document in the requested format and publish it to configured object storage
// @Tags exports
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param input body publishInput true "Format (xlsx, json or qr) and optional filename override"
// @Success 201 {object} APIResponse{data=service.ExportArtifact}
// @Failure 404 {object} APIResponse "Not found"
// @Security BearerAuth
// @Router /documents/{id}/export [post]
func (h *ExportHandler) Publish(c *gin.Context) {
	var input publishInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	doc, err := h.docService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	var artifact *service.ExportArtifact
	switch input.Format {
	case "xlsx":
		artifact, err = h.exporter.PublishExcel(c.Request.Context(), doc, input.Name)
	case "json":
		artifact, err = h.exporter.PublishJSON(c.Request.Context(), doc, input.Name)
	case "qr":
		artifact, err = h.exporter.PublishQR(c.Request.Context(), doc, input.Name)
	}
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, artifact)
}

func (h *ExportHandler) attach(c *gin.Context, filename, contentType string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, body)
}
