package submissions

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"exitlayer/internal/audit"
	"exitlayer/internal/sessions"
	"exitlayer/internal/shared/server/middleware"
	"exitlayer/internal/shared/server/respond"
	"exitlayer/internal/shared/telemetry"
)

const maxSubmissionBytes = 2 << 20

// Handler serves POST /submit.
type Handler struct {
	Svc *Service
	// Autosaver, when set, has its pending draft for the token dropped before scoring.
	Autosaver *sessions.Autosaver
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, autosaver *sessions.Autosaver) *Handler {
	return &Handler{Svc: svc, Autosaver: autosaver}
}

// RegisterRoutes attaches the submit route to the group.
func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.POST("/submit", h.Submit)
}

// Submit scores a questionnaire and returns the headline result.
func (h *Handler) Submit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSubmissionBytes)

	var payload audit.Response
	if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil || payload == nil {
		respond.Fail(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if token, ok := payload[audit.KeySessionToken].(string); ok && token != "" {
		middleware.SetSessionToken(c, token)
		if h.Autosaver != nil {
			h.Autosaver.Cancel(token)
		}
	}

	res, err := h.Svc.Submit(c.Request.Context(), payload)
	if err != nil {
		h.fail(c, err)
		return
	}
	middleware.SetSessionToken(c, res.SessionToken)
	respond.Success(c, http.StatusOK, gin.H{
		"score":         res.Score,
		"clientFolder":  res.ClientFolder,
		"session_token": res.SessionToken,
	})
}

func (h *Handler) fail(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Fail(c, http.StatusBadRequest, verr.Error(), verr.Fields)
	case errors.Is(err, ErrPersist):
		respond.Fail(c, http.StatusInternalServerError, "Failed to save submission", nil)
	default:
		status, msg := sessions.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			telemetry.Error("submission.request_failed", map[string]any{
				"request_id":    middleware.RequestIDFromContext(c),
				"session_token": middleware.SessionTokenFromContext(c),
				"err":           err,
			})
		}
		respond.Fail(c, status, msg, nil)
	}
}
