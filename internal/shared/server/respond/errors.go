package respond

import (
	"github.com/gin-gonic/gin"

	"exitlayer/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// FailResponse is the envelope used by the public intake endpoints.
type FailResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	logError(c, status, code, message)
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// Fail sends {success:false, error} for the intake endpoints.
func Fail(c *gin.Context, status int, message string, details interface{}) {
	logError(c, status, "", message)
	c.AbortWithStatusJSON(status, FailResponse{Success: false, Error: message, Details: details})
}

func logError(c *gin.Context, status int, code, message string) {
	fields := map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if code != "" {
		fields["code"] = code
	}
	if token := c.GetString("sessionToken"); token != "" {
		fields["session_token"] = token
	}
	if sub := c.GetString("adminSubject"); sub != "" {
		fields["admin"] = sub
	}
	if status >= 500 {
		telemetry.Error("http.error", fields)
		return
	}
	telemetry.Warn("http.error", fields)
}
