package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Yuzhifur/KnowledgeBaseQA/internal/chat"
	"github.com/Yuzhifur/KnowledgeBaseQA/internal/documents"
	"github.com/Yuzhifur/KnowledgeBaseQA/internal/services/health"
	"github.com/Yuzhifur/KnowledgeBaseQA/internal/shared/config"
	"github.com/Yuzhifur/KnowledgeBaseQA/internal/shared/metrics"
	"github.com/Yuzhifur/KnowledgeBaseQA/internal/shared/server/middleware"
	"github.com/Yuzhifur/KnowledgeBaseQA/internal/shared/server/respond"
)

// RouterDeps carries the constructed handlers; bootstrap fills it in.
type RouterDeps struct {
	Config           config.Config
	Health           *health.Service
	DocumentsHandler *documents.Handler
	ChatHandler      *chat.Handler
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
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				// Answer generation hits the LLM provider; keep it tight.
				"CHAT": {Rate: 1, Burst: 5},
			},
			GroupFor: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost && c.FullPath() == "/api/chat" {
					return "CHAT"
				}
				return "DEFAULT"
			},
		}),
	)

	r.GET("/", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{
			"message": "Knowledge Base QA API",
			"status":  "running",
		})
	})
	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, deps.Health.Status(c.Request.Context()))
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	deps.DocumentsHandler.RegisterRoutes(api.Group("/documents"))
	deps.ChatHandler.RegisterRoutes(api.Group("/chat"))

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
