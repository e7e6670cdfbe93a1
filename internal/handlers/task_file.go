package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/services"
)

// TaskFileHandler coordinates attachment metadata HTTP handlers.
type TaskFileHandler struct {
	fileService *services.TaskFileService
}

// NewTaskFileHandler creates a new TaskFileHandler.
func NewTaskFileHandler(fileService *services.TaskFileService) *TaskFileHandler {
	return &TaskFileHandler{
		fileService: fileService,
	}
}

// AttachFile records attachment metadata on a task.
func (h *TaskFileHandler) AttachFile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type AttachFileRequest struct {
		FileName string `json:"file_name" binding:"required,max=255"`
		Size     int64  `json:"size" binding:"required,min=1"`
	}

	var req AttachFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	file, err := h.fileService.AttachFile(userID, taskID, req.FileName, req.Size)
	if err != nil {
		respondFileError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskFileDTO(*file))
}

// ListFiles returns a task's attachments, newest first.
func (h *TaskFileHandler) ListFiles(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	files, err := h.fileService.ListFiles(userID, taskID)
	if err != nil {
		respondFileError(c, err)
		return
	}

	fileDTOs := make([]dto.TaskFileDTO, len(files))
	for i, file := range files {
		fileDTOs[i] = dto.ToTaskFileDTO(file)
	}

	c.JSON(http.StatusOK, gin.H{"files": fileDTOs})
}

// DeleteFile removes attachment metadata. Uploader only.
func (h *TaskFileHandler) DeleteFile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	fileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.fileService.DeleteFile(userID, fileID); err != nil {
		respondFileError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File deleted successfully",
	})
}

func respondFileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskFileNotFound),
		errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotFileUploader):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrFileTooLarge):
		apierrors.BadRequest(c, fmt.Sprintf("File exceeds the maximum size of %d bytes", models.MaxTaskFileSize))
	case errors.Is(err, services.ErrEmptyFileName):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
