package admin

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"exitlayer/internal/sessions"
	"exitlayer/internal/shared/server/middleware"
	"exitlayer/internal/shared/server/respond"
	"exitlayer/internal/shared/telemetry"
	"exitlayer/internal/submissions"
)

const (
	defaultLimit   = 50
	maxLimit       = 200
	maxSprintBytes = 1 << 20
)

// Handler serves the operator API. Routes must be mounted behind middleware.AdminAuth.
type Handler struct {
	Svc *sessions.Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *sessions.Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches admin routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/sessions", h.list)
	rg.GET("/sessions/:token", h.get)
	rg.POST("/sessions/:token/status", h.setStatus)
	rg.PUT("/sessions/:token/stage", h.setStage)
	rg.PUT("/sessions/:token/sprint", h.setSprint)
	rg.GET("/sessions/:token/documents/:kind", h.document)
}

type sessionSummary struct {
	SessionToken   string               `json:"sessionToken"`
	Status         sessions.Status      `json:"status"`
	ClientStage    sessions.ClientStage `json:"clientStage"`
	Email          string               `json:"email,omitempty"`
	CompanyName    string               `json:"companyName,omitempty"`
	OverallScore   *int                 `json:"overallScore,omitempty"`
	ClientFolder   string               `json:"clientFolder,omitempty"`
	DocumentsCount int                  `json:"documentsCount"`
	SubmittedAt    *time.Time           `json:"submittedAt,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

func summarize(s sessions.Session) sessionSummary {
	return sessionSummary{
		SessionToken:   s.SessionToken,
		Status:         s.Status,
		ClientStage:    sessions.DeriveStage(s),
		Email:          s.Email,
		CompanyName:    s.CompanyName,
		OverallScore:   s.OverallScore,
		ClientFolder:   s.ClientFolder,
		DocumentsCount: len(s.DocumentsUploaded),
		SubmittedAt:    s.SubmittedAt,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func (h *Handler) list(c *gin.Context) {
	limit := defaultLimit
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	filter := sessions.ListFilter{
		Status: sessions.Status(strings.TrimSpace(c.Query("status"))),
		Limit:  limit,
		Offset: offset,
	}
	list, err := h.Svc.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]sessionSummary, 0, len(list))
	for _, s := range list {
		out = append(out, summarize(s))
	}
	respond.OK(c, gin.H{"sessions": out, "limit": limit, "offset": offset})
}

func (h *Handler) get(c *gin.Context) {
	sess, ok := h.load(c)
	if !ok {
		return
	}
	respond.OK(c, gin.H{"session": sess, "derivedStage": sessions.DeriveStage(sess)})
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) setStatus(c *gin.Context) {
	token := c.Param("token")
	middleware.SetSessionToken(c, token)
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "status is required", nil)
		return
	}
	to := sessions.Status(strings.TrimSpace(req.Status))
	if !to.Valid() {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown status", gin.H{"status": req.Status})
		return
	}
	current, ok := h.load(c)
	if !ok {
		return
	}
	sess, err := h.Svc.AdvanceStatus(c.Request.Context(), token, to)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Set("statusTransition", string(current.Status)+"->"+string(to))
	h.audit(c, "admin.status_changed", token, gin.H{"status": string(to)})
	respond.OK(c, summarize(sess))
}

type stageRequest struct {
	Stage string `json:"stage"`
}

func (h *Handler) setStage(c *gin.Context) {
	token := c.Param("token")
	middleware.SetSessionToken(c, token)
	var req stageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	sess, err := h.Svc.SetStage(c.Request.Context(), token, req.Stage)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.audit(c, "admin.stage_changed", token, gin.H{"stage": req.Stage})
	respond.OK(c, summarize(sess))
}

func (h *Handler) setSprint(c *gin.Context) {
	token := c.Param("token")
	middleware.SetSessionToken(c, token)
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxSprintBytes))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	sess, err := h.Svc.SetSprint(c.Request.Context(), token, json.RawMessage(raw))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.audit(c, "admin.sprint_updated", token, gin.H{"bytes": len(raw)})
	respond.OK(c, gin.H{"sessionToken": sess.SessionToken, "sprintData": sess.SprintData, "clientStage": sessions.DeriveStage(sess)})
}

func (h *Handler) document(c *gin.Context) {
	kind := c.Param("kind")
	if !submissions.ValidKind(kind) {
		respond.Error(c, http.StatusNotFound, "not_found", "unknown document kind", gin.H{"kinds": submissions.Kinds()})
		return
	}
	sess, ok := h.load(c)
	if !ok {
		return
	}
	md, found := submissions.MarkdownFor(sess.GeneratedContent, kind)
	if !found {
		respond.Error(c, http.StatusNotFound, "not_found", "document has not been generated", nil)
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
}

func (h *Handler) load(c *gin.Context) (sessions.Session, bool) {
	token := c.Param("token")
	middleware.SetSessionToken(c, token)
	sess, err := h.Svc.Get(c.Request.Context(), token)
	if err != nil {
		h.fail(c, err)
		return sessions.Session{}, false
	}
	return sess, true
}

func (h *Handler) audit(c *gin.Context, event, token string, fields gin.H) {
	out := map[string]any{
		"admin":         middleware.AdminSubjectFromContext(c),
		"session_token": token,
		"request_id":    middleware.RequestIDFromContext(c),
	}
	for k, v := range fields {
		out[k] = v
	}
	telemetry.Info(event, out)
}

func (h *Handler) fail(c *gin.Context, err error) {
	status, msg := sessions.HTTPStatus(err)
	respond.Error(c, status, errorCode(status), msg, nil)
}

func errorCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusConflict:
		return "conflict"
	case http.StatusBadRequest:
		return "validation_error"
	default:
		return "internal_error"
	}
}
