package recipe

import (
	"net/http"

	"recipe-viewer/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// ScaleRequest 一次性縮放食材
type ScaleRequest struct {
	ParsedIngredients []common.ParsedIngredient `json:"parsedIngredients"`
	Factor            *float64                  `json:"factor"`
}

// HandleScale POST /scale
func (h *Handler) HandleScale(c *gin.Context) {
	var req ScaleRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	if req.Factor == nil {
		h.respondError(c, common.NewValidationError("factor is required"))
		return
	}

	result, err := h.service.ScalePayload(req.ParsedIngredients, *req.Factor)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleScaleDocument GET /documents/:id/scale?factor=
func (h *Handler) HandleScaleDocument(c *gin.Context) {
	factor, err := parseFactor(c.DefaultQuery("factor", "1"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.service.Scale(c.Request.Context(), c.Param("id"), factor)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandlePresets GET /scale/presets
func (h *Handler) HandlePresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": h.service.Presets()})
}
