package recipe

import (
	"net/http"
	"strings"

	recipeService "recipe-viewer/internal/core/recipe"
	"recipe-viewer/internal/core/store"
	"recipe-viewer/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// CreateDocumentRequest 建立文件；提供 source_url 時從外部來源取得資料
type CreateDocumentRequest struct {
	SourceURL string `json:"source_url,omitempty"`
	common.RecipePayload
}

// DocumentResponse 文件摘要加上原始資料
type DocumentResponse struct {
	recipeService.DocumentSummary
	Payload common.RecipePayload `json:"payload"`
}

func (h *Handler) documentResponse(doc *store.Document) DocumentResponse {
	return DocumentResponse{
		DocumentSummary: h.service.Summary(doc),
		Payload:         doc.Payload,
	}
}

// HandleCreateDocument POST /documents
func (h *Handler) HandleCreateDocument(c *gin.Context) {
	var req CreateDocumentRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	var (
		doc *store.Document
		err error
	)
	if url := strings.TrimSpace(req.SourceURL); url != "" {
		doc, err = h.service.CreateFromSource(c.Request.Context(), url)
	} else {
		doc, err = h.service.Create(c.Request.Context(), &req.RecipePayload)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Location", c.FullPath()+"/"+doc.ID)
	c.JSON(http.StatusCreated, h.documentResponse(doc))
}

// HandleGetDocument GET /documents/:id
func (h *Handler) HandleGetDocument(c *gin.Context) {
	doc, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.documentResponse(doc))
}

// HandleReplaceDocument PUT /documents/:id
func (h *Handler) HandleReplaceDocument(c *gin.Context) {
	var payload common.RecipePayload
	if err := bindJSON(c, &payload); err != nil {
		h.respondError(c, err)
		return
	}

	doc, err := h.service.Replace(c.Request.Context(), c.Param("id"), &payload)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.documentResponse(doc))
}

// HandleDeleteDocument DELETE /documents/:id
func (h *Handler) HandleDeleteDocument(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
