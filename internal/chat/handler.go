package chat

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Yuzhifur/KnowledgeBaseQA/internal/shared/metrics"
	"github.com/Yuzhifur/KnowledgeBaseQA/internal/shared/server/respond"
)

// Handler exposes the question-answering pipeline over HTTP.
type Handler struct {
	Agent *Agent
}

func NewHandler(agent *Agent) *Handler {
	return &Handler{Agent: agent}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.ask)
	rg.GET("/health", h.health)
}

func (h *Handler) ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Request body must be valid JSON", nil)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Question cannot be empty", nil)
		return
	}

	start := time.Now()
	result, err := h.Agent.Answer(c.Request.Context(), req.Question)
	if err != nil {
		metrics.IncChatFailure()
		respond.Error(c, http.StatusInternalServerError, "chat_error", "Failed to answer question", map[string]any{"error": err.Error()})
		return
	}
	metrics.IncChatAnswer()
	metrics.ObserveAnswerDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)

	respond.OK(c, toResponse(result))
}

func (h *Handler) health(c *gin.Context) {
	respond.OK(c, gin.H{"status": "healthy", "service": "chat"})
}
