package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quantdesk/tradechat-go/internal/models"
)

// ChatAsker is the pipeline entry point. An interface so handler tests can
// stub the whole pipeline.
type ChatAsker interface {
	Ask(ctx context.Context, message string) models.ChatResponse
}

type ChatHandler struct {
	svc ChatAsker
}

func NewChatHandler(svc ChatAsker) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// Chat answers one question. Non-200 is reserved for transport-level
// failures (malformed body, missing message); every handled pipeline
// outcome, including user-facing errors, is 200 with error-as-data.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	resp := h.svc.Ask(c.Request.Context(), req.Message)
	c.JSON(http.StatusOK, resp)
}
