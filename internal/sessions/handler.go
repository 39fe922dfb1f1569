package sessions

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"exitlayer/internal/audit"
	"exitlayer/internal/questionnaire"
	"exitlayer/internal/shared/server/middleware"
	"exitlayer/internal/shared/server/respond"
	"exitlayer/internal/shared/telemetry"
)

const maxDraftBytes = 1 << 20

// Handler serves the draft session API.
type Handler struct {
	Svc       *Service
	Autosaver *Autosaver
}

// NewHandler constructs a Handler. autosaver may be nil, in which case answer
// patches are written synchronously.
func NewHandler(svc *Service, autosaver *Autosaver) *Handler {
	return &Handler{Svc: svc, Autosaver: autosaver}
}

// RegisterRoutes attaches draft routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/questionnaire", h.questionnaire)
	rg.POST("/sessions", h.create)
	rg.GET("/sessions/:token", h.resume)
	rg.PUT("/sessions/:token", h.save)
	rg.PATCH("/sessions/:token/answers", h.answer)
}

func (h *Handler) questionnaire(c *gin.Context) {
	respond.OK(c, gin.H{"sections": questionnaire.Sections()})
}

type createRequest struct {
	Email string `json:"email"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Fail(c, http.StatusBadRequest, "Invalid request body", nil)
			return
		}
	}
	sess, err := h.Svc.Create(c.Request.Context(), req.Email)
	if err != nil {
		h.fail(c, err)
		return
	}
	middleware.SetSessionToken(c, sess.SessionToken)
	respond.Success(c, http.StatusCreated, gin.H{
		"session_token": sess.SessionToken,
		"status":        sess.Status,
	})
}

func (h *Handler) resume(c *gin.Context) {
	token := c.Param("token")
	middleware.SetSessionToken(c, token)
	sess, err := h.Svc.Resume(c.Request.Context(), token, c.Query("email"))
	if err != nil {
		h.fail(c, err)
		return
	}
	answers := sess.FormData
	if h.Autosaver != nil {
		if pending, ok := h.Autosaver.Pending(sess.SessionToken); ok {
			answers = pending
		}
	}
	respond.Success(c, http.StatusOK, gin.H{
		"session_token": sess.SessionToken,
		"status":        sess.Status,
		"clientStage":   DeriveStage(sess),
		"formData":      answers,
		"progress":      questionnaire.ProgressOf(answers),
	})
}

func (h *Handler) save(c *gin.Context) {
	token := c.Param("token")
	middleware.SetSessionToken(c, token)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxDraftBytes)

	var answers audit.Response
	if err := json.NewDecoder(c.Request.Body).Decode(&answers); err != nil {
		respond.Fail(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if h.Autosaver != nil {
		h.Autosaver.Cancel(token)
	}
	sess, progress, err := h.Svc.Autosave(c.Request.Context(), token, answers)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.Success(c, http.StatusOK, gin.H{
		"status":    sess.Status,
		"progress":  progress,
		"updatedAt": sess.UpdatedAt,
	})
}

type answerRequest struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// answer records a single answer. Writes are debounced through the Autosaver.
func (h *Handler) answer(c *gin.Context) {
	token := c.Param("token")
	middleware.SetSessionToken(c, token)

	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	req.Key = strings.TrimSpace(req.Key)
	if _, ok := questionnaire.Lookup(req.Key); !ok {
		respond.Fail(c, http.StatusBadRequest, "Unknown question", gin.H{"key": req.Key})
		return
	}

	sess, err := h.Svc.Get(c.Request.Context(), token)
	if err != nil {
		h.fail(c, err)
		return
	}
	if sess.Status != StatusInProgress {
		h.fail(c, ErrNotEditable)
		return
	}

	current := sess.FormData
	if h.Autosaver != nil {
		if pending, ok := h.Autosaver.Pending(token); ok {
			current = pending
		}
	}

	draft := questionnaire.NewDraft(current, nil)
	draft.Set(req.Key, req.Value)
	answers := draft.Answers()

	if h.Autosaver == nil {
		if _, _, err := h.Svc.Autosave(c.Request.Context(), token, answers); err != nil {
			h.fail(c, err)
			return
		}
		respond.Success(c, http.StatusOK, gin.H{"progress": draft.Progress()})
		return
	}
	h.Autosaver.Schedule(token, answers)
	respond.Success(c, http.StatusAccepted, gin.H{"progress": draft.Progress()})
}

func (h *Handler) fail(c *gin.Context, err error) {
	status, msg := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		telemetry.Error("session.request_failed", map[string]any{
			"request_id":    middleware.RequestIDFromContext(c),
			"session_token": middleware.SessionTokenFromContext(c),
			"err":           err,
		})
	}
	respond.Fail(c, status, msg, nil)
}
