package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/trilytx/trilytx-backend/dto"
	"github.com/trilytx/trilytx-backend/utils"
)

const (
	rateLimiterCacheSize = 10000
	rateLimiterIdleTtl   = time.Hour
)

// RateLimiter hands out one token bucket per caller. Callers are identified by user id, or by ip
// for anonymous requests.
type RateLimiter struct {
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

func NewRateLimiter(perMinute int, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](rateLimiterCacheSize, nil, rateLimiterIdleTtl),
		limit:    rate.Every(time.Minute / time.Duration(max(perMinute, 1))),
		burst:    burst,
	}
}

func (r *RateLimiter) allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	limiter, ok := r.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(r.limit, r.burst)
	}
	// re-adding refreshes the idle expiration
	r.limiters.Add(key, limiter)
	return limiter.Allow()
}

func (r *RateLimiter) Middleware(c *gin.Context) {
	key := utils.UserIdFromCtx(c.Request.Context())
	if key == "" {
		key = "ip:" + c.ClientIP()
	}

	if !r.allow(key) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.APIErrorResponse{
			Message:   "too many questions, please wait a moment",
			ErrorCode: dto.RateLimited,
		})
		return
	}
	c.Next()
}
