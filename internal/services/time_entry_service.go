package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
)

var (
	ErrInvalidMinutes     = errors.New("minutes must be greater than zero")
	ErrDuplicateTimeEntry = errors.New("time already logged for this task and date")
)

// TimeEntryService provides business logic for per-task time tracking.
type TimeEntryService struct {
	scope scopeResolver
	repo  repository.TimeEntryRepository
}

// NewTimeEntryService creates a new TimeEntryService.
func NewTimeEntryService(repo repository.TimeEntryRepository, taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, teamRepo repository.TeamRepository) *TimeEntryService {
	return &TimeEntryService{
		scope: scopeResolver{taskRepo: taskRepo, projectRepo: projectRepo, teamRepo: teamRepo},
		repo:  repo,
	}
}

// LogTime records minutes the actor spent on a task on a given date.
// One entry per (user, task, date); a second attempt conflicts.
func (s *TimeEntryService) LogTime(actorID, taskID uint64, date time.Time, minutes uint, note string) (*models.TimeEntry, error) {
	if minutes == 0 {
		return nil, ErrInvalidMinutes
	}

	scope, err := s.scope.resolveTask(taskID, actorID)
	if err != nil {
		return nil, err
	}

	entry := &models.TimeEntry{
		UserID:  actorID,
		TaskID:  scope.Task.ID,
		Date:    date.Truncate(24 * time.Hour),
		Minutes: minutes,
		Note:    note,
	}

	if err := s.repo.Create(entry); err != nil {
		if errors.Is(err, repository.ErrDuplicateTimeEntry) {
			return nil, ErrDuplicateTimeEntry
		}
		return nil, fmt.Errorf("failed to log time: %w", err)
	}

	return entry, nil
}

// ListTimeEntries returns a task's time entries, newest date first.
func (s *TimeEntryService) ListTimeEntries(actorID, taskID uint64) ([]models.TimeEntry, error) {
	scope, err := s.scope.resolveTask(taskID, actorID)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListByTask(scope.Task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	return entries, nil
}
