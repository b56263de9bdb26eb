package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit allows each client IP rps requests per second with bursts of up to burst.
// Requests over the limit are rejected with 429.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	var limiters sync.Map // client IP -> *rate.Limiter

	return func(c *gin.Context) {
		l, _ := limiters.LoadOrStore(c.ClientIP(), rate.NewLimiter(rate.Limit(rps), burst))
		if !l.(*rate.Limiter).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
			})
			return
		}
		c.Next()
	}
}
