package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/services"
)

// TimeEntryHandler coordinates time tracking HTTP handlers.
type TimeEntryHandler struct {
	timeEntryService *services.TimeEntryService
}

// NewTimeEntryHandler creates a new TimeEntryHandler.
func NewTimeEntryHandler(timeEntryService *services.TimeEntryService) *TimeEntryHandler {
	return &TimeEntryHandler{
		timeEntryService: timeEntryService,
	}
}

// LogTime records minutes spent on a task for a given date.
func (h *TimeEntryHandler) LogTime(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type LogTimeRequest struct {
		Date    string `json:"date" binding:"required"`
		Minutes uint   `json:"minutes" binding:"required"`
		Note    string `json:"note"`
	}

	var req LogTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		apierrors.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	entry, err := h.timeEntryService.LogTime(userID, taskID, date, req.Minutes, req.Note)
	if err != nil {
		respondTimeEntryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTimeEntryDTO(*entry))
}

// ListTimeEntries returns a task's time entries, newest date first.
func (h *TimeEntryHandler) ListTimeEntries(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entries, err := h.timeEntryService.ListTimeEntries(userID, taskID)
	if err != nil {
		respondTimeEntryError(c, err)
		return
	}

	entryDTOs := make([]dto.TimeEntryDTO, len(entries))
	for i, entry := range entries {
		entryDTOs[i] = dto.ToTimeEntryDTO(entry)
	}

	c.JSON(http.StatusOK, gin.H{"time_entries": entryDTOs})
}

func respondTimeEntryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrDuplicateTimeEntry):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidMinutes):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
