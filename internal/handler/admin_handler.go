package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/target-saas/study-tracker-api/internal/models"
	"github.com/target-saas/study-tracker-api/internal/service"
	appErrors "github.com/target-saas/study-tracker-api/pkg/errors"
	"github.com/target-saas/study-tracker-api/pkg/response"
)

// AdminHandler wires the admin-only endpoints: account management, licenses,
// the support inbox and live monitoring.
type AdminHandler struct {
	users    *service.UserService
	licenses *service.LicenseService
	support  *service.SupportService
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(users *service.UserService, licenses *service.LicenseService, support *service.SupportService) *AdminHandler {
	return &AdminHandler{users: users, licenses: licenses, support: support}
}

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	filter := models.UserFilter{
		Search:    c.Query("search"),
		SortOrder: c.Query("sort_order"),
	}
	if role := c.Query("role"); role != "" {
		r := models.UserRole(role)
		if !r.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown role"))
			return
		}
		filter.Role = &r
	}
	if approved := c.Query("approved"); approved != "" {
		v, err := strconv.ParseBool(approved)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "approved must be a boolean"))
			return
		}
		filter.Approved = &v
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	users, pagination, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, pagination)
}

// ApproveUser handles POST /admin/users/:id/approve.
func (h *AdminHandler) ApproveUser(c *gin.Context) {
	user, err := h.users.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// ResetPassword handles POST /admin/users/:id/reset-password.
func (h *AdminHandler) ResetPassword(c *gin.Context) {
	if err := h.users.ResetPassword(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Overview handles GET /admin/overview.
func (h *AdminHandler) Overview(c *gin.Context) {
	overview, err := h.users.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil)
}

// MonitorSessions handles GET /admin/sessions/active.
func (h *AdminHandler) MonitorSessions(c *gin.Context) {
	sessions, err := h.users.MonitorActiveSessions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}

// IssueLicense handles POST /admin/licenses.
func (h *AdminHandler) IssueLicense(c *gin.Context) {
	var req models.IssueLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	license, err := h.licenses.Issue(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, license)
}

// ListLicenses handles GET /admin/licenses.
func (h *AdminHandler) ListLicenses(c *gin.Context) {
	licenses, err := h.licenses.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, licenses, nil)
}

// ListSupportMessages handles GET /admin/support.
func (h *AdminHandler) ListSupportMessages(c *gin.Context) {
	messages, err := h.support.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, messages, nil)
}

// MarkSupportMessageRead handles POST /admin/support/:id/read.
func (h *AdminHandler) MarkSupportMessageRead(c *gin.Context) {
	if err := h.support.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
