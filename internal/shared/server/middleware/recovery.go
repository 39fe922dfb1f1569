package middleware

import (
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"exitlayer/internal/shared/server/respond"
	"exitlayer/internal/shared/telemetry"
)

const adminPathPrefix = "/api/v1/admin"

// Recovery turns a panic into a 500 in the envelope of the route that failed:
// admin routes get the coded error object, intake routes get success=false.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			telemetry.Error("http.panic", map[string]any{
				"request_id":    RequestIDFromContext(c),
				"session_token": SessionTokenFromContext(c),
				"route":         c.FullPath(),
				"method":        c.Request.Method,
				"panic":         rec,
				"stack":         string(debug.Stack()),
			})
			if strings.HasPrefix(c.Request.URL.Path, adminPathPrefix) {
				respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil)
				return
			}
			respond.Fail(c, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		}()
		c.Next()
	}
}
