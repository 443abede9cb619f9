package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-viewer/internal/pkg/common"
)

// Deduplicator 在時間窗內拒絕完全相同的寫入請求
type Deduplicator struct {
	mu       sync.Mutex
	window   time.Duration
	requests map[string]time.Time
	lastScan time.Time
}

// NewDeduplicator 創建去重器；window 預設 1 秒
func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = time.Second
	}
	return &Deduplicator{
		window:   window,
		requests: make(map[string]time.Time),
		lastScan: time.Now(),
	}
}

// Seen 記錄指紋並回傳是否在時間窗內已出現過
func (d *Deduplicator) Seen(fingerprint string, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if now.Sub(d.lastScan) > 10*d.window {
		for k, t := range d.requests {
			if now.Sub(t) > d.window {
				delete(d.requests, k)
			}
		}
		d.lastScan = now
	}

	if last, ok := d.requests[fingerprint]; ok && now.Sub(last) <= d.window {
		return true
	}
	d.requests[fingerprint] = now
	return false
}

// Deduplication 請求去重中間件，只處理 POST
func Deduplication(window time.Duration) gin.HandlerFunc {
	dedup := NewDeduplicator(window)

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		fingerprint := c.Request.Method + ":" + c.Request.URL.Path + ":" + c.ClientIP()
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, common.ErrorResponse{
						Code:    common.ErrCodeInvalidRequest,
						Message: "請求體過大",
					})
					return
				}
				common.LogError("Failed to read request body", zap.Error(err))
				c.Next()
				return
			}
			fingerprint += ":" + common.HashString(string(body))
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		if dedup.Seen(fingerprint, time.Now()) {
			status, resp := common.ToErrorResponse(common.ErrTooManyRequests, false)
			c.AbortWithStatusJSON(status, resp)
			return
		}

		c.Next()
	}
}
