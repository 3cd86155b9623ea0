package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cargoscan/internal/service"
)

// DocumentHandler handles stored-document endpoints.
type DocumentHandler struct {
	docService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(docService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{docService: docService}
}

type updateTagsInput struct {
	Tags []string `json:"tags"`
}

type setStarredInput struct {
	Starred *bool `json:"starred" binding:"required"`
}

// List handles GET /api/v1/documents
// @Summary List stored documents
// @Description Returns documents in capture order, optionally filtered by a search query
// @Tags documents
// @Produce json
// @Param q query string false "Case-insensitive search over identifiers, parties and item descriptions"
// @Success 200 {object} APIResponse{data=[]domain.Document}
// @Security BearerAuth
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	query := c.Query("q")

	var err error
	docs, err := h.docService.Search(c.Request.Context(), query)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, docs, PagMeta{Total: len(docs), Limit: len(docs)})
}

// GetByID handles GET /api/v1/documents/:id
// @Summary Fetch one document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} APIResponse{data=domain.Document}
// @Failure 404 {object} APIResponse "Not found"
// @Security BearerAuth
// @Router /documents/{id} [get]
func (h *DocumentHandler) GetByID(c *gin.Context) {
	doc, err := h.docService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// Delete handles DELETE /api/v1/documents/:id
// @Summary Delete a document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse "Not found"
// @Security BearerAuth
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	// The service treats deleting an absent id as a no-op; the API
	// reports 404 so clients learn the id was never there.
	if _, err := h.docService.Get(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	if err := h.docService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

// UpdateTags handles PUT /api/v1/documents/:id/tags
// @Summary Replace a document's tags
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param input body updateTagsInput true "Tags"
// @Success 200 {object} APIResponse{data=domain.Document}
// @Security BearerAuth
// @Router /documents/{id}/tags [put]
func (h *DocumentHandler) UpdateTags(c *gin.Context) {
	var input updateTagsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	doc, err := h.docService.UpdateTags(c.Request.Context(), c.Param("id"), input.Tags)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// SetStarred handles PUT /api/v1/documents/:id/star
// @Summary Star or unstar a document
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param input body setStarredInput true "Starred flag"
// @Success 200 {object} APIResponse{data=domain.Document}
// @Security BearerAuth
// @Router /documents/{id}/star [put]
func (h *DocumentHandler) SetStarred(c *gin.Context) {
	var input setStarredInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Starred == nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", "starred field is required")
		return
	}

	doc, err := h.docService.SetStarred(c.Request.Context(), c.Param("id"), *input.Starred)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}
