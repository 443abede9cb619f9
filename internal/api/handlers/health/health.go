package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	recipeService "recipe-viewer/internal/core/recipe"
	"recipe-viewer/internal/infrastructure/config"
	"recipe-viewer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const readinessTimeout = 2 * time.Second

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Service   *recipeService.Stats   `json:"service,omitempty"`
}

// Checker 服務健康狀態來源
type Checker interface {
	Ping(ctx context.Context) error
	Stats() recipeService.Stats
}

// Handler 健康檢查處理器
type Handler struct {
	config  *config.Config
	checker Checker
}

// NewHandler 創建健康檢查處理器
func NewHandler(cfg *config.Config, checker Checker) *Handler {
	return &Handler{config: cfg, checker: checker}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}
	if h.config != nil {
		response.Version = h.config.App.Version
	}
	if h.checker != nil {
		stats := h.checker.Stats()
		response.Service = &stats
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查：文件儲存必須可用
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.checker != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		if err := h.checker.Ping(ctx); err != nil {
			common.LogWarn("Readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
