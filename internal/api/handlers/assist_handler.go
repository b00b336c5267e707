package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/nominate-go/internal/ai"
)

type AssistHandler struct {
	assistant *ai.TextAssistant
}

func NewAssistHandler(assistant *ai.TextAssistant) *AssistHandler {
	return &AssistHandler{assistant: assistant}
}

// Assist godoc
// @Summary Rewrite nomination text with AI
// @Tags ai
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body ai.AssistRequest true "Text and action"
// @Success 200 {object} ai.AssistResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse "Generation failed"
// @Router /ai/assist [post]
func (h *AssistHandler) Assist(c *gin.Context) {
	var req ai.AssistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	resp, err := h.assistant.Assist(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
