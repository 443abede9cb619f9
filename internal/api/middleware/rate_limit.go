package middleware

import (
	"fmt"
	"math"
	"sync"
	"time"

	"recipe-viewer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter 以客戶端 IP 分組的令牌桶限流器
type RateLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	burst    int
	limiters map[string]*clientLimiter
	idle     time.Duration
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter 創建新的限流器；window 內最多 requests 次，burst 為瞬間上限
func NewRateLimiter(requests int, window time.Duration, burst int) *RateLimiter {
	if requests <= 0 {
		requests = 1
	}
	if window <= 0 {
		window = time.Second
	}
	if burst <= 0 {
		burst = requests
	}

	return &RateLimiter{
		interval: window / time.Duration(requests),
		burst:    burst,
		limiters: make(map[string]*clientLimiter),
		idle:     10 * window,
	}
}

// Allow 檢查是否允許請求
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cl, ok := rl.limiters[key]
	if !ok {
		rl.sweepLocked(now)
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Every(rl.interval), rl.burst)}
		rl.limiters[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// retryAfter 下一個令牌可用前的等待秒數
func (rl *RateLimiter) retryAfter() int {
	if seconds := int(math.Ceil(rl.interval.Seconds())); seconds > 0 {
		return seconds
	}
	return 1
}

// sweepLocked 清除閒置過久的客戶端
func (rl *RateLimiter) sweepLocked(now time.Time) {
	for key, cl := range rl.limiters {
		if now.Sub(cl.lastSeen) > rl.idle {
			delete(rl.limiters, key)
		}
	}
}

// RateLimit 限流中間件
func RateLimit(requests int, window time.Duration, burst int) gin.HandlerFunc {
	limiter := NewRateLimiter(requests, window, burst)

	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", limiter.retryAfter()))
			status, resp := common.ToErrorResponse(common.ErrTooManyRequests, false)
			c.AbortWithStatusJSON(status, resp)
			return
		}

		c.Next()
	}
}
