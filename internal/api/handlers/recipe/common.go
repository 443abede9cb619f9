package recipe

import (
	"errors"
	"io"
	"strconv"
	"strings"

	recipeService "recipe-viewer/internal/core/recipe"
	"recipe-viewer/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 食譜文件、連結與縮放的 HTTP 處理器
type Handler struct {
	service *recipeService.DocumentService
	debug   bool
}

// NewHandler 創建處理器
func NewHandler(service *recipeService.DocumentService, debug bool) *Handler {
	return &Handler{service: service, debug: debug}
}

// respondError 依錯誤類型寫出 ErrorResponse
func (h *Handler) respondError(c *gin.Context, err error) {
	status, resp := common.ToErrorResponse(err, h.debug)
	fields := []zap.Field{
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", requestid.Get(c)),
		zap.String("code", resp.Code),
		zap.Error(err),
	}
	if status >= 500 {
		common.LogError("請求處理失敗", fields...)
	} else {
		common.LogDebug("請求被拒絕", fields...)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

// bindJSON 解析請求體，錯誤統一轉為驗證錯誤
func bindJSON(c *gin.Context, v interface{}) error {
	if c.Request.Body == nil {
		return common.NewValidationError("request body is required")
	}
	if err := common.DecodeJSON(c.Request.Body, v); err != nil {
		if errors.Is(err, io.EOF) {
			return common.NewValidationError("request body is required")
		}
		return common.ErrInvalidPayload.Wrap(err)
	}
	return nil
}

// intParam 解析路徑上的整數參數
func intParam(c *gin.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, common.ErrInvalidIndex.Wrap(err)
	}
	return v, nil
}

// intQueryArray 解析可重複的整數查詢參數，支援 "1,2" 與 "a=1&a=2"
func intQueryArray(c *gin.Context, name string) ([]int, error) {
	var values []int
	for _, raw := range c.QueryArray(name) {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			v, err := strconv.Atoi(part)
			if err != nil {
				return nil, common.ErrInvalidIndex.Wrap(err)
			}
			values = append(values, v)
		}
	}
	return values, nil
}

// parseFactor 解析縮放倍率，無法解析時視為無效倍率
func parseFactor(raw string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, common.ErrInvalidScale.Wrap(err)
	}
	return f, nil
}
