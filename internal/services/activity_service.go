package services

import (
	"github.com/yukikurage/project-management-api/internal/activity"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
)

// ActivityService exposes the activity feed. Entries are written by the
// mutating services through the recorder; this service only reads.
type ActivityService struct {
	scope    scopeResolver
	recorder *activity.Recorder
}

// NewActivityService creates a new ActivityService.
func NewActivityService(recorder *activity.Recorder, projectRepo repository.ProjectRepository, teamRepo repository.TeamRepository, taskRepo repository.TaskRepository) *ActivityService {
	return &ActivityService{
		scope:    scopeResolver{taskRepo: taskRepo, projectRepo: projectRepo, teamRepo: teamRepo},
		recorder: recorder,
	}
}

// ActivityFeedInput narrows the feed. Without a project the feed shows
// the actor's own activity; with one it shows the whole project's
// activity, provided the actor can see the project.
type ActivityFeedInput struct {
	ProjectID  *uint64
	TargetType *models.ActivityTarget
	Page       int
	PageSize   int
}

// ListActivity returns activity entries, most recent first.
func (s *ActivityService) ListActivity(actorID uint64, input ActivityFeedInput) ([]models.ActivityLog, error) {
	filter := repository.ActivityFilter{
		TargetType: input.TargetType,
		Page:       input.Page,
		PageSize:   input.PageSize,
	}

	if input.ProjectID != nil {
		if _, _, _, err := s.scope.resolveProject(*input.ProjectID, actorID); err != nil {
			return nil, err
		}
		filter.ProjectID = input.ProjectID
	} else {
		filter.UserID = &actorID
	}

	return s.recorder.List(filter)
}
