package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/services"
	"github.com/yukikurage/project-management-api/internal/utils"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a task under a project.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title       string              `json:"title" binding:"required,max=255"`
		Description string              `json:"description"`
		AssigneeID  *uint64             `json:"assignee_id"`
		Status      models.TaskStatus   `json:"status"`
		Priority    models.TaskPriority `json:"priority"`
		DueDate     time.Time           `json:"due_date" binding:"required"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(userID, projectID, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// ListTasks returns a project's tasks with filtering and pagination.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	pagination := utils.GetPaginationParams(c)
	filter := repository.TaskFilter{
		Page:          pagination.Page,
		PageSize:      pagination.Limit,
		SortByDueDate: c.Query("sort") == "due_date",
	}

	if status := c.Query("status"); status != "" {
		s := models.TaskStatus(status)
		if !models.ValidTaskStatus(s) {
			apierrors.BadRequest(c, "Invalid status filter")
			return
		}
		filter.Status = &s
	}
	if priority := c.Query("priority"); priority != "" {
		p := models.TaskPriority(priority)
		if !models.ValidTaskPriority(p) {
			apierrors.BadRequest(c, "Invalid priority filter")
			return
		}
		filter.Priority = &p
	}
	if assignee := c.Query("assignee_id"); assignee != "" {
		id, err := strconv.ParseUint(assignee, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assignee_id filter")
			return
		}
		filter.AssigneeID = &id
	}
	if from := c.Query("due_date_from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			apierrors.BadRequest(c, "Invalid due_date_from filter")
			return
		}
		filter.DueDateFrom = &t
	}
	if to := c.Query("due_date_to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			apierrors.BadRequest(c, "Invalid due_date_to filter")
			return
		}
		filter.DueDateTo = &t
	}

	tasks, total, err := h.taskService.ListTasks(userID, projectID, filter)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, pagination.Page, pagination.Limit, total))
}

// GetTask returns a single task with assignee and creator.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(userID, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask mutates a task.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title         *string              `json:"title"`
		Description   *string              `json:"description"`
		AssigneeID    *uint64              `json:"assignee_id"`
		ClearAssignee bool                 `json:"clear_assignee"`
		Status        *models.TaskStatus   `json:"status"`
		Priority      *models.TaskPriority `json:"priority"`
		DueDate       *time.Time           `json:"due_date"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(userID, taskID, services.UpdateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		AssigneeID:    req.AssigneeID,
		ClearAssignee: req.ClearAssignee,
		Status:        req.Status,
		Priority:      req.Priority,
		DueDate:       req.DueDate,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task with its comments, files and time entries.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(userID, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCannotModifyTask):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrDueDateInPast):
		apierrors.BadRequestWithDetails(c, "Validation failed", gin.H{
			"due_date": err.Error(),
		})
	case errors.Is(err, services.ErrInvalidTaskTitle),
		errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrInvalidTaskPriority),
		errors.Is(err, services.ErrAssigneeNotMember):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
