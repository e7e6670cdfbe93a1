package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/services"
	"github.com/yukikurage/project-management-api/internal/utils"
)

// ActivityHandler serves the read-only activity feed.
type ActivityHandler struct {
	activityService *services.ActivityService
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// ListActivity returns activity entries, most recent first. Without a
// project_id query the feed shows the user's own activity.
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	pagination := utils.GetPaginationParams(c)
	input := services.ActivityFeedInput{
		Page:     pagination.Page,
		PageSize: pagination.Limit,
	}

	if project := c.Query("project_id"); project != "" {
		id, err := strconv.ParseUint(project, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project_id filter")
			return
		}
		input.ProjectID = &id
	}
	if target := c.Query("target_type"); target != "" {
		t := models.ActivityTarget(target)
		switch t {
		case models.TargetTask, models.TargetComment, models.TargetProject:
			input.TargetType = &t
		default:
			apierrors.BadRequest(c, "Invalid target_type filter")
			return
		}
	}

	entries, err := h.activityService.ListActivity(userID, input)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Internal server error")
		return
	}

	activityDTOs := make([]dto.ActivityDTO, len(entries))
	for i, entry := range entries {
		activityDTOs[i] = dto.ToActivityDTO(entry)
	}

	c.JSON(http.StatusOK, gin.H{"activity": activityDTOs})
}
