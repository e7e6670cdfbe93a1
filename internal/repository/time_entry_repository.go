package repository

import (
	"errors"
	"fmt"

	"github.com/yukikurage/project-management-api/internal/models"
	"gorm.io/gorm"
)

// ErrDuplicateTimeEntry is returned when a (user, task, date) triple
// already has a time entry.
var ErrDuplicateTimeEntry = errors.New("time entry repository: entry already exists for this date")

// GormTimeEntryRepository is a GORM implementation of TimeEntryRepository
type GormTimeEntryRepository struct {
	db *gorm.DB
}

// NewTimeEntryRepository creates a new TimeEntryRepository
func NewTimeEntryRepository(db *gorm.DB) TimeEntryRepository {
	return &GormTimeEntryRepository{db: db}
}

// Create inserts a time entry, enforcing (user, task, date) uniqueness at write time
func (r *GormTimeEntryRepository) Create(entry *models.TimeEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.TimeEntry
		err := tx.Where("user_id = ? AND task_id = ? AND date = ?",
			entry.UserID, entry.TaskID, entry.Date).
			First(&existing).Error
		if err == nil {
			return ErrDuplicateTimeEntry
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check existing time entry: %w", err)
		}

		return tx.Create(entry).Error
	})
}

// ListByTask lists a task's time entries, newest date first
func (r *GormTimeEntryRepository) ListByTask(taskID uint64) ([]models.TimeEntry, error) {
	var entries []models.TimeEntry
	if err := r.db.Preload("User").
		Where("task_id = ?", taskID).
		Order("date DESC").Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
