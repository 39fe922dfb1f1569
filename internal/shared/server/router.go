package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"exitlayer/internal/admin"
	"exitlayer/internal/services/health"
	"exitlayer/internal/sessions"
	"exitlayer/internal/shared/auth"
	"exitlayer/internal/shared/config"
	"exitlayer/internal/shared/metrics"
	"exitlayer/internal/shared/ratelimit"
	"exitlayer/internal/shared/server/middleware"
	"exitlayer/internal/shared/server/respond"
	"exitlayer/internal/submissions"
	"exitlayer/internal/uploads"
)

// Rate limit groups.
const (
	GroupSubmit   = "submit"
	GroupSessions = "sessions"
)

// RouterDeps carries the handlers mounted by NewRouter. Nil handlers are skipped.
type RouterDeps struct {
	Config         config.Config
	Health         *health.Service
	Sessions       *sessions.Handler
	Submissions    *submissions.Handler
	Uploads        *uploads.Handler
	Admin          *admin.Handler
	Signer         *auth.Signer
	RateLimitStore ratelimit.Store
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	store := deps.RateLimitStore
	if store == nil {
		store = ratelimit.NewMemoryStore(nil)
	}
	rules := map[string]ratelimit.Rule{
		GroupSubmit:   {Limit: deps.Config.RateLimitSubmit, Window: deps.Config.RateLimitSubmitWindow},
		GroupSessions: {Limit: deps.Config.RateLimitSessions, Window: deps.Config.RateLimitSessionsWindow},
	}
	limit := func(group string) gin.HandlerFunc {
		return middleware.RateLimit(middleware.RateLimitConfig{Rules: rules, DefaultGroup: group, Store: store})
	}

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService(nil)
	}
	healthHandler := func(c *gin.Context) {
		rep := healthSvc.Status(c.Request.Context())
		status := http.StatusOK
		if !rep.OK {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, rep)
	}
	r.GET("/health", healthHandler)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", healthHandler)

	if deps.Submissions != nil {
		deps.Submissions.RegisterRoutes(r.Group("", limit(GroupSubmit)))
		deps.Submissions.RegisterRoutes(api.Group("", limit(GroupSubmit)))
	}

	intake := api.Group("", limit(GroupSessions))
	if deps.Sessions != nil {
		deps.Sessions.RegisterRoutes(intake)
	}
	if deps.Uploads != nil {
		deps.Uploads.RegisterRoutes(intake)
	}

	if deps.Admin != nil && deps.Signer != nil {
		deps.Admin.RegisterRoutes(api.Group("/admin", middleware.AdminAuth(deps.Signer)))
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
