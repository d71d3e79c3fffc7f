package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "truthcheck-backend/internal/auth"
	"truthcheck-backend/internal/quota"
	"truthcheck-backend/internal/reports"
	"truthcheck-backend/internal/shared/config"
	"truthcheck-backend/internal/shared/metrics"
	"truthcheck-backend/internal/shared/server/middleware"
	"truthcheck-backend/internal/shared/server/respond"
	"truthcheck-backend/internal/submissions"
	"truthcheck-backend/internal/users"
)

// RouterDeps carries the handlers the router mounts. Bootstrap constructs
// them; the router only wires middleware and routes.
type RouterDeps struct {
	Config            config.Config
	SubmissionHandler *submissions.Handler
	ReportHandler     *reports.Handler
	QuotaHandler      *quota.Handler
	UserHandler       *users.Handler
	GoogleAuth        *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			submitRateGroup: {Rate: 1, Burst: 10},
		},
		GroupFor: submitRateGroupFor,
	}))
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.RegisterRoutes(api)
	}
	if deps.ReportHandler != nil {
		deps.ReportHandler.RegisterRoutes(api)
	}
	if deps.QuotaHandler != nil {
		deps.QuotaHandler.RegisterRoutes(api)
	}
	if config.IsDevLike(deps.Config.Env) && deps.QuotaHandler != nil {
		dev := api.Group("/dev")
		deps.QuotaHandler.RegisterDevRoutes(dev)
	}

	return r
}

const submitRateGroup = "SUBMIT"

// submitRateGroupFor throttles the endpoints that start an analysis; reads
// and everything else pass through unlimited.
func submitRateGroupFor(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return ""
	}
	switch c.FullPath() {
	case "/api/v1/submissions", "/api/v1/submissions/:id/submit":
		return submitRateGroup
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
