package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/target-saas/study-tracker-api/internal/models"
	"github.com/target-saas/study-tracker-api/internal/service"
	appErrors "github.com/target-saas/study-tracker-api/pkg/errors"
	"github.com/target-saas/study-tracker-api/pkg/response"
)

// SupportHandler wires the user-facing support endpoint. The admin inbox
// lives on AdminHandler.
type SupportHandler struct {
	support *service.SupportService
}

// NewSupportHandler constructs a SupportHandler.
func NewSupportHandler(support *service.SupportService) *SupportHandler {
	return &SupportHandler{support: support}
}

// Send handles POST /support.
func (h *SupportHandler) Send(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.SupportMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	msg, err := h.support.Send(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, msg)
}
