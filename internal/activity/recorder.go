// Package activity implements the append-only activity log. Recording
// is a side effect of mutations and must never fail the request that
// triggered it.
package activity

import (
	"log"

	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
)

// Recorder writes and reads activity log entries.
type Recorder struct {
	repo repository.ActivityRepository
}

// NewRecorder creates a new Recorder.
func NewRecorder(repo repository.ActivityRepository) *Recorder {
	return &Recorder{repo: repo}
}

// Record appends one activity entry. A storage failure is logged and
// swallowed: the mutation the entry describes has already committed and
// must not be unwound by its audit trail.
func (r *Recorder) Record(userID uint64, action models.ActivityAction, targetType models.ActivityTarget, targetID uint64, targetRepr string, projectID *uint64) {
	entry := &models.ActivityLog{
		UserID:     userID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		TargetRepr: targetRepr,
		ProjectID:  projectID,
	}

	if err := r.repo.Create(entry); err != nil {
		log.Printf("activity: failed to record %s %s #%d: %v", action, targetType, targetID, err)
	}
}

// List returns activity entries matching the filter, most recent first.
func (r *Recorder) List(filter repository.ActivityFilter) ([]models.ActivityLog, error) {
	return r.repo.List(filter)
}
