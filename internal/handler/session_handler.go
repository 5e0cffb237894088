package handler

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/target-saas/study-tracker-api/internal/models"
	"github.com/target-saas/study-tracker-api/internal/service"
	appErrors "github.com/target-saas/study-tracker-api/pkg/errors"
	"github.com/target-saas/study-tracker-api/pkg/response"
	"github.com/target-saas/study-tracker-api/pkg/storage"
)

// SessionHandler wires the study session endpoints.
type SessionHandler struct {
	sessions   *service.SessionService
	storage    *storage.LocalStorage
	uploadsMax int64
	allowedExt []string
}

// NewSessionHandler constructs a SessionHandler.
func NewSessionHandler(sessions *service.SessionService, store *storage.LocalStorage, uploadsMax int64, allowedExt []string) *SessionHandler {
	return &SessionHandler{sessions: sessions, storage: store, uploadsMax: uploadsMax, allowedExt: allowedExt}
}

// Start handles POST /sessions/start.
func (h *SessionHandler) Start(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	session, err := h.sessions.Start(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// Stop handles POST /sessions/stop. The body may be JSON or multipart; the
// multipart form optionally carries a completion file.
func (h *SessionHandler) Stop(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.StopSessionRequest
	var completionFile *string

	if c.ContentType() == "multipart/form-data" {
		if raw := c.PostForm("payload"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req); err != nil {
				response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload field"))
				return
			}
		}
		file, err := c.FormFile("file")
		if err == nil {
			stored, storeErr := h.storeCompletionFile(claims.UserID, file)
			if storeErr != nil {
				response.Error(c, storeErr)
				return
			}
			completionFile = &stored
		}
	} else if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
			return
		}
	}

	session, err := h.sessions.Stop(c.Request.Context(), claims.UserID, req, completionFile)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// LogManual handles POST /sessions/log.
func (h *SessionHandler) LogManual(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.ManualSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	session, err := h.sessions.LogManual(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// Active handles GET /sessions/active.
func (h *SessionHandler) Active(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	session, err := h.sessions.Active(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// List handles GET /sessions.
func (h *SessionHandler) List(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	filter := models.SessionFilter{
		StudentID: claims.UserID,
		Subject:   c.Query("subject"),
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	sessions, pagination, err := h.sessions.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, pagination)
}

// Validate handles POST /sessions/:id/validate. Students validate their own
// completed sessions.
func (h *SessionHandler) Validate(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	session, err := h.sessions.Validate(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// ValidateAsMentor handles POST /mentees/sessions/:id/validate (teacher only).
func (h *SessionHandler) ValidateAsMentor(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	session, err := h.sessions.ValidateAsMentor(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

func (h *SessionHandler) storeCompletionFile(ownerID string, file *multipart.FileHeader) (string, error) {
	if !storage.ExtensionAllowed(file.Filename, h.allowedExt) {
		return "", appErrors.ErrFileType
	}
	if file.Size > h.uploadsMax {
		return "", appErrors.ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close() //nolint:errcheck

	return h.storage.SaveStream(storage.UploadName(ownerID, file.Filename), src)
}
