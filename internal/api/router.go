package api

import (
	"fmt"
	"net/http"
	"time"

	"recipe-viewer/internal/api/handlers/health"
	recipeHandler "recipe-viewer/internal/api/handlers/recipe"
	"recipe-viewer/internal/api/middleware"
	recipeService "recipe-viewer/internal/core/recipe"
	"recipe-viewer/internal/infrastructure/config"
	"recipe-viewer/internal/infrastructure/metrics"
	"recipe-viewer/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 請求超時
const timeoutDuration = 30 * time.Second

// SetupRouter 設置路由；m 為 nil 時不註冊 /metrics
func SetupRouter(cfg *config.Config, svc *recipeService.DocumentService, m *metrics.Metrics) (*gin.Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if svc == nil {
		return nil, fmt.Errorf("document service is required")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())
	if m != nil {
		router.Use(middleware.Metrics(m))
	}

	origins := cfg.Server.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "Location"},
		AllowCredentials: !containsWildcard(origins),
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.Timeout(timeoutDuration))

	healthHandler := health.NewHandler(cfg, svc)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	if m != nil && cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}

	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.RateLimit.Burst))
	}
	api.Use(middleware.Deduplication(cfg.DedupWindow))

	h := recipeHandler.NewHandler(svc, cfg.App.Debug)
	recipeGroup := api.Group("/recipe")
	{
		// 一次性運算
		recipeGroup.POST("/link", h.HandleLink)
		recipeGroup.POST("/scale", h.HandleScale)
		recipeGroup.GET("/scale/presets", h.HandlePresets)

		documents := recipeGroup.Group("/documents")
		{
			documents.POST("", h.HandleCreateDocument)
			documents.GET("/:id", h.HandleGetDocument)
			documents.PUT("/:id", h.HandleReplaceDocument)
			documents.DELETE("/:id", h.HandleDeleteDocument)

			documents.PUT("/:id/linking", h.HandleSetLinking)
			documents.GET("/:id/links", h.HandleGetLinks)
			documents.GET("/:id/steps/:step/highlights", h.HandleStepHighlight)
			documents.GET("/:id/ingredients/:ingredient/highlights", h.HandleIngredientHighlights)
			documents.GET("/:id/scale", h.HandleScaleDocument)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		status, resp := common.ToErrorResponse(common.ErrNotFound, false)
		c.JSON(status, resp)
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, common.ErrorResponse{
			Code:    common.ErrCodeMethodNotAllowed,
			Message: common.ErrMethodNotAllowed.Message,
		})
	})

	common.LogInfo("Router setup completed successfully",
		zap.Bool("metrics_enabled", m != nil && cfg.Metrics.Enabled),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
