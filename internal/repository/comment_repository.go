package repository

import (
	"github.com/yukikurage/project-management-api/internal/models"
	"gorm.io/gorm"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment
func (r *GormCommentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// FindByID finds a comment by ID
func (r *GormCommentRepository) FindByID(id uint64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByTask lists all comments of a task, newest first, with authors preloaded
func (r *GormCommentRepository) ListByTask(taskID uint64) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Preload("Author").
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Update updates a comment
func (r *GormCommentRepository) Update(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

// DeleteWithReplies deletes a comment and its whole reply subtree.
// The subtree is resolved level by level from the task's comments, so
// nesting depth never recurses on the Go stack.
func (r *GormCommentRepository) DeleteWithReplies(comment *models.Comment) error {
	var all []models.Comment
	if err := r.db.Select("id", "parent_id").
		Where("task_id = ?", comment.TaskID).
		Find(&all).Error; err != nil {
		return err
	}

	children := make(map[uint64][]uint64, len(all))
	for _, c := range all {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}

	toDelete := []uint64{comment.ID}
	for i := 0; i < len(toDelete); i++ {
		toDelete = append(toDelete, children[toDelete[i]]...)
	}

	return r.db.Where("id IN ?", toDelete).Delete(&models.Comment{}).Error
}
