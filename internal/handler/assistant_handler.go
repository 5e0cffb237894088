package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/target-saas/study-tracker-api/internal/models"
	"github.com/target-saas/study-tracker-api/internal/service"
	appErrors "github.com/target-saas/study-tracker-api/pkg/errors"
	"github.com/target-saas/study-tracker-api/pkg/response"
)

// AssistantHandler wires the study assistant endpoint.
type AssistantHandler struct {
	assistant *service.AssistantService
}

// NewAssistantHandler constructs an AssistantHandler.
func NewAssistantHandler(assistant *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

// Chat handles POST /assistant/chat.
func (h *AssistantHandler) Chat(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.AssistantChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	reply, err := h.assistant.Chat(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reply, nil)
}
