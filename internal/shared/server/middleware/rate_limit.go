package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"exitlayer/internal/shared/metrics"
	"exitlayer/internal/shared/ratelimit"
	"exitlayer/internal/shared/telemetry"
)

const defaultRateLimitGroup = "default"

type RateLimitConfig struct {
	Rules        map[string]ratelimit.Rule
	DefaultGroup string
	GroupFor     func(*gin.Context) string
	Store        ratelimit.Store
	Now          func() time.Time
}

// RateLimit applies a per client IP fixed-window quota per route group.
// Store errors fail open.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Store == nil {
		cfg.Store = ratelimit.NewMemoryStore(cfg.Now)
	}
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = defaultRateLimitGroup
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		group := cfg.DefaultGroup
		if cfg.GroupFor != nil {
			if g := strings.TrimSpace(cfg.GroupFor(c)); g != "" {
				group = g
			}
		}
		rule, ok := cfg.Rules[group]
		if !ok || !rule.Enabled() {
			c.Next()
			return
		}
		key := strings.TrimSpace(c.ClientIP()) + "|" + group
		res, err := cfg.Store.Hit(c.Request.Context(), key, rule)
		if err != nil {
			telemetry.Error("ratelimit.store_failed", map[string]any{
				"group":      group,
				"request_id": RequestIDFromContext(c),
				"err":        err,
			})
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
		if res.Allowed {
			c.Next()
			return
		}

		retryAfter := res.RetryAfter(cfg.Now())
		seconds := int((retryAfter + time.Second - 1) / time.Second)
		h.Set("Retry-After", strconv.Itoa(seconds))
		metrics.IncRateLimited(group)
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"success":      false,
			"error":        "Too many requests. Please try again later.",
			"retryAfterMs": retryAfter.Milliseconds(),
		})
	}
}
