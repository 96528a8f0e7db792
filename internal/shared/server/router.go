package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/history"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/suggestions"
	"resume-builder/internal/transform"
	"resume-builder/internal/users"
)

// RouterDeps carries the handlers and auth collaborators the router mounts.
type RouterDeps struct {
	Config             config.Config
	Verifier           middleware.TokenVerifier
	UserChecker        middleware.UserChecker
	RateLimiter        *middleware.RateLimiter
	UsersHandler       *users.Handler
	HistoryHandler     *history.Handler
	SuggestionsHandler *suggestions.Handler
	TransformHandler   *transform.Handler
}

var llmRoutes = map[string]bool{
	http.MethodPost + " /api/ai-suggestions":        true,
	http.MethodPost + " /api/transform-pdf-string": true,
	http.MethodPost + " /api/transform-pdf":        true,
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/api/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	public := r.Group("/api")
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterPublicRoutes(public)
	}

	api := r.Group("/api",
		middleware.Auth(deps.Verifier),
		middleware.RequireUser(deps.UserChecker),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				middleware.LLMRateLimitGroup: middleware.PerMinute(
					deps.Config.LLMRateLimitPerMinute,
					deps.Config.LLMRateLimitBurst,
				),
			},
			GroupFor: llmGroup,
			Limiter:  deps.RateLimiter,
		}),
	)
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(api)
	}
	if deps.HistoryHandler != nil {
		deps.HistoryHandler.RegisterRoutes(api)
	}
	if deps.SuggestionsHandler != nil {
		deps.SuggestionsHandler.RegisterRoutes(api)
	}
	if deps.TransformHandler != nil {
		deps.TransformHandler.RegisterRoutes(api)
	}

	return r
}

func llmGroup(c *gin.Context) string {
	if llmRoutes[c.Request.Method+" "+c.FullPath()] {
		return middleware.LLMRateLimitGroup
	}
	return ""
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
