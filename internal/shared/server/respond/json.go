package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK writes a plain 200 JSON payload, used by the admin API.
func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// Success writes the intake envelope: fields merged with success=true.
func Success(c *gin.Context, status int, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		if k == "success" {
			continue
		}
		body[k] = v
	}
	c.JSON(status, body)
}
