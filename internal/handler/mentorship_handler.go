package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/target-saas/study-tracker-api/internal/models"
	"github.com/target-saas/study-tracker-api/internal/service"
	appErrors "github.com/target-saas/study-tracker-api/pkg/errors"
	"github.com/target-saas/study-tracker-api/pkg/response"
)

// MentorshipHandler wires the mentorship endpoints.
type MentorshipHandler struct {
	mentorships *service.MentorshipService
	users       *service.UserService
}

// NewMentorshipHandler constructs a MentorshipHandler.
func NewMentorshipHandler(mentorships *service.MentorshipService, users *service.UserService) *MentorshipHandler {
	return &MentorshipHandler{mentorships: mentorships, users: users}
}

// Request handles POST /mentorships (student only). A repeated request for
// the same teacher answers 200 with the existing record instead of 409.
func (h *MentorshipHandler) Request(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.MentorshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	mentorship, created, err := h.mentorships.Request(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if created {
		response.Created(c, mentorship)
		return
	}
	response.JSON(c, http.StatusOK, mentorship, nil, map[string]interface{}{
		"message": "mentorship request already exists",
	})
}

// Respond handles POST /mentorships/:id/respond (teacher only).
func (h *MentorshipHandler) Respond(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.MentorshipDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	mentorship, err := h.mentorships.Respond(c.Request.Context(), claims.UserID, c.Param("id"), req.Approve)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentorship, nil)
}

// ListForTeacher handles GET /mentorships/requests (teacher only).
func (h *MentorshipHandler) ListForTeacher(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	details, err := h.mentorships.ListForTeacher(c.Request.Context(), claims.UserID, models.MentorshipStatus(c.Query("status")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}

// ListMine handles GET /mentorships (student only).
func (h *MentorshipHandler) ListMine(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	details, err := h.mentorships.ListForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}

// ListTeachers handles GET /mentorships/teachers (student only), the
// directory of approved teachers a student can ask for mentorship.
func (h *MentorshipHandler) ListTeachers(c *gin.Context) {
	teachers, err := h.users.ListTeachers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, nil)
}
