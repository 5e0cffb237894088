package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/target-saas/study-tracker-api/internal/middleware"
	"github.com/target-saas/study-tracker-api/internal/models"
	appErrors "github.com/target-saas/study-tracker-api/pkg/errors"
	"github.com/target-saas/study-tracker-api/pkg/response"
)

// currentUser pulls the authenticated claims from the request context and
// writes the 401 itself when they are missing.
func currentUser(c *gin.Context) (*models.JWTClaims, bool) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	return claims, true
}
