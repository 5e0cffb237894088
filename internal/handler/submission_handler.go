package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/target-saas/study-tracker-api/internal/models"
	"github.com/target-saas/study-tracker-api/internal/service"
	appErrors "github.com/target-saas/study-tracker-api/pkg/errors"
	"github.com/target-saas/study-tracker-api/pkg/response"
)

// SubmissionHandler wires the study-evidence submission endpoints.
type SubmissionHandler struct {
	submissions *service.SubmissionService
}

// NewSubmissionHandler constructs a SubmissionHandler.
func NewSubmissionHandler(submissions *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// SubmitFile handles POST /submissions/file (multipart).
func (h *SubmissionHandler) SubmitFile(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "missing file"))
		return
	}

	var description *string
	if d := c.PostForm("description"); d != "" {
		description = &d
	}

	src, err := file.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer src.Close() //nolint:errcheck

	sub, err := h.submissions.SubmitFile(c.Request.Context(), claims.UserID, file.Filename, file.Size, src, description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sub)
}

// SubmitLink handles POST /submissions/link.
func (h *SubmissionHandler) SubmitLink(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.LinkSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	sub, err := h.submissions.SubmitLink(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sub)
}

// List handles GET /submissions.
func (h *SubmissionHandler) List(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	subs, err := h.submissions.ListForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subs, nil)
}
