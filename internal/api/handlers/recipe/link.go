package recipe

import (
	"net/http"

	"recipe-viewer/internal/core/linker"
	"recipe-viewer/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// SetLinkingRequest 切換連結功能
type SetLinkingRequest struct {
	Enabled *bool `json:"enabled"`
}

// LinkingResponse 連結狀態與索引（關閉時索引為 null）
type LinkingResponse struct {
	LinkingEnabled bool          `json:"linking_enabled"`
	Index          *linker.Index `json:"index"`
}

// HandleLink POST /link 一次性建立索引
func (h *Handler) HandleLink(c *gin.Context) {
	var payload common.RecipePayload
	if err := bindJSON(c, &payload); err != nil {
		h.respondError(c, err)
		return
	}

	index, err := h.service.LinkPayload(c.Request.Context(), &payload)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, index)
}

// HandleSetLinking PUT /documents/:id/linking
func (h *Handler) HandleSetLinking(c *gin.Context) {
	var req SetLinkingRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	if req.Enabled == nil {
		h.respondError(c, common.NewValidationError("enabled is required"))
		return
	}

	index, err := h.service.SetLinking(c.Request.Context(), c.Param("id"), *req.Enabled)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, LinkingResponse{LinkingEnabled: *req.Enabled, Index: index})
}

// HandleGetLinks GET /documents/:id/links
func (h *Handler) HandleGetLinks(c *gin.Context) {
	index, err := h.service.LinkIndex(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, index)
}

// HandleStepHighlight GET /documents/:id/steps/:step/highlights?ingredient=
func (h *Handler) HandleStepHighlight(c *gin.Context) {
	step, err := intParam(c, "step")
	if err != nil {
		h.respondError(c, err)
		return
	}
	ingredients, err := intQueryArray(c, "ingredient")
	if err != nil {
		h.respondError(c, err)
		return
	}

	highlight, err := h.service.Highlight(c.Request.Context(), c.Param("id"), step, ingredients)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, highlight)
}

// HandleIngredientHighlights GET /documents/:id/ingredients/:ingredient/highlights
func (h *Handler) HandleIngredientHighlights(c *gin.Context) {
	ingredient, err := intParam(c, "ingredient")
	if err != nil {
		h.respondError(c, err)
		return
	}

	highlights, err := h.service.IngredientHighlights(c.Request.Context(), c.Param("id"), ingredient)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ingredient": ingredient,
		"steps":      highlights,
	})
}
