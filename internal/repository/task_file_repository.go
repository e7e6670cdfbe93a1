package repository

import (
	"github.com/yukikurage/project-management-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskFileRepository is a GORM implementation of TaskFileRepository
type GormTaskFileRepository struct {
	db *gorm.DB
}

// NewTaskFileRepository creates a new TaskFileRepository
func NewTaskFileRepository(db *gorm.DB) TaskFileRepository {
	return &GormTaskFileRepository{db: db}
}

// Create stores attachment metadata
func (r *GormTaskFileRepository) Create(file *models.TaskFile) error {
	return r.db.Create(file).Error
}

// FindByID finds attachment metadata by ID
func (r *GormTaskFileRepository) FindByID(id uint64) (*models.TaskFile, error) {
	var file models.TaskFile
	if err := r.db.First(&file, id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

// ListByTask lists a task's attachments, newest first
func (r *GormTaskFileRepository) ListByTask(taskID uint64) ([]models.TaskFile, error) {
	var files []models.TaskFile
	if err := r.db.Preload("Uploader").
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

// Delete removes attachment metadata
func (r *GormTaskFileRepository) Delete(id uint64) error {
	return r.db.Delete(&models.TaskFile{}, id).Error
}
