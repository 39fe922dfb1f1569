package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"exitlayer/internal/shared/auth"
	"exitlayer/internal/shared/server/respond"
)

const (
	adminSubjectKey = "adminSubject"
	adminEmailKey   = "adminEmail"
	sessionTokenKey = "sessionToken"
)

// AdminAuth requires a bearer JWT carrying the admin role.
func AdminAuth(signer *auth.Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		claims, err := signer.VerifyRole(token, auth.RoleAdmin)
		switch {
		case errors.Is(err, auth.ErrForbidden):
			respond.Error(c, http.StatusForbidden, "forbidden", "admin role required", nil)
			return
		case err != nil:
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		c.Set(adminSubjectKey, claims.Subject)
		if claims.Email != "" {
			c.Set(adminEmailKey, claims.Email)
		}
		c.Next()
	}
}

// AdminSubjectFromContext fetches the admin subject set by AdminAuth.
func AdminSubjectFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(adminSubjectKey)
}

// SetSessionToken records the audit session a request is about, for logs.
func SetSessionToken(c *gin.Context, token string) {
	if token != "" {
		c.Set(sessionTokenKey, token)
	}
}

// SessionTokenFromContext fetches the token recorded by SetSessionToken.
func SessionTokenFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(sessionTokenKey)
}
