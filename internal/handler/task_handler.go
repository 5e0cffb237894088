package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/target-saas/study-tracker-api/internal/models"
	"github.com/target-saas/study-tracker-api/internal/service"
	appErrors "github.com/target-saas/study-tracker-api/pkg/errors"
	"github.com/target-saas/study-tracker-api/pkg/response"
	"github.com/target-saas/study-tracker-api/pkg/storage"
)

// TaskHandler wires the assigned task endpoints.
type TaskHandler struct {
	tasks      *service.TaskService
	storage    *storage.LocalStorage
	uploadsMax int64
	allowedExt []string
}

// NewTaskHandler constructs a TaskHandler.
func NewTaskHandler(tasks *service.TaskService, store *storage.LocalStorage, uploadsMax int64, allowedExt []string) *TaskHandler {
	return &TaskHandler{tasks: tasks, storage: store, uploadsMax: uploadsMax, allowedExt: allowedExt}
}

// Assign handles POST /tasks (teacher only). JSON bodies create plain tasks;
// multipart bodies may attach a file under "file" with the JSON fields in a
// "payload" form field.
func (h *TaskHandler) Assign(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.AssignTaskRequest
	var attachment *string

	if c.ContentType() == "multipart/form-data" {
		if err := json.Unmarshal([]byte(c.PostForm("payload")), &req); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload field"))
			return
		}
		if file, err := c.FormFile("file"); err == nil {
			if !storage.ExtensionAllowed(file.Filename, h.allowedExt) {
				response.Error(c, appErrors.ErrFileType)
				return
			}
			if file.Size > h.uploadsMax {
				response.Error(c, appErrors.ErrFileTooLarge)
				return
			}
			src, err := file.Open()
			if err != nil {
				response.Error(c, err)
				return
			}
			defer src.Close() //nolint:errcheck
			stored, err := h.storage.SaveStream(storage.UploadName(claims.UserID, file.Filename), src)
			if err != nil {
				response.Error(c, err)
				return
			}
			attachment = &stored
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
			return
		}
	}

	task, err := h.tasks.Assign(c.Request.Context(), claims.UserID, req, attachment)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, task)
}

// ListAssigned handles GET /tasks/assigned (teacher only).
func (h *TaskHandler) ListAssigned(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListForTeacher(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tasks, nil)
}

// ListMine handles GET /tasks (student only).
func (h *TaskHandler) ListMine(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tasks, nil)
}

// Complete handles POST /tasks/:id/complete (student only).
func (h *TaskHandler) Complete(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	task, err := h.tasks.Complete(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, task, nil)
}
