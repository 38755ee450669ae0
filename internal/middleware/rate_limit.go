package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// Limiter counts hits per key. cache.RateLimiter implements it over Redis.
type Limiter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

type RateRule struct {
	Prefix string
	Max    int64
	Window time.Duration
	// Key picks what is counted. An empty key lets the request through uncounted.
	Key func(c *gin.Context) string
}

var (
	// LoginRule allows 5 login attempts per email every 15 minutes.
	LoginRule = RateRule{
		Prefix: "login_attempts:",
		Max:    5,
		Window: 15 * time.Minute,
		Key: func(c *gin.Context) string {
			return strings.ToLower(strings.TrimSpace(c.PostForm("email")))
		},
	}
	// CartRule allows 20 cart additions per user per minute.
	CartRule = RateRule{
		Prefix: "cart_add:",
		Max:    20,
		Window: time.Minute,
		Key: func(c *gin.Context) string {
			if id := State(c).UserID(); id != (gocql.UUID{}) {
				return id.String()
			}
			return ""
		},
	}
)

// RateLimit rejects requests beyond rule.Max per rule.Window with 429. A nil limiter disables it.
func RateLimit(l Limiter, rule RateRule) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}
		key := rule.Key(c)
		if key == "" {
			c.Next()
			return
		}

		n, err := l.Hit(c.Request.Context(), rule.Prefix+key, rule.Window)
		if err != nil {
			log.Printf("⚠️ rate limiter unavailable: %v", err)
			c.Next()
			return
		}

		remaining := rule.Max - n
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rule.Max))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if n > rule.Max {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests, please try again later.",
				"retry_after": int(rule.Window.Seconds()),
			})
			return
		}
		c.Next()
	}
}
