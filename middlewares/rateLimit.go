package middlewares

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit applies a token bucket per client as back-pressure against
// rapid double-submits. Buckets are keyed by the authenticated user when
// present, otherwise by client IP, so one client's bursts do not starve
// everyone else.
func RateLimit(r rate.Limit, burst int) gin.HandlerFunc {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	limiterFor := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		limiter, ok := limiters[key]
		if !ok {
			limiter = rate.NewLimiter(r, burst)
			limiters[key] = limiter
		}
		return limiter
	}

	return func(ctx *gin.Context) {
		key := ctx.GetString(ContextUserID)
		if key == "" {
			key = ctx.ClientIP()
		}
		if !limiterFor(key).Allow() {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Too many requests. Please try again later.",
			})
			return
		}
		ctx.Next()
	}
}
