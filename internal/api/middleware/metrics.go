package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"recipe-viewer/internal/infrastructure/metrics"
)

// Metrics 以路由樣板記錄請求次數與延遲
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
