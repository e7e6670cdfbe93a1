package repository

import (
	"github.com/yukikurage/project-management-api/internal/models"
	"gorm.io/gorm"
)

// GormNotificationRepository is a GORM implementation of NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create persists a notification
func (r *GormNotificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// ListByUser lists the user's latest notifications, newest first
func (r *GormNotificationRepository) ListByUser(userID uint64, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// FindByIDForUser finds a notification owned by the given user
func (r *GormNotificationRepository) FindByIDForUser(id, userID uint64) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).
		First(&notification).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// MarkRead flags a notification as read
func (r *GormNotificationRepository) MarkRead(notification *models.Notification) error {
	notification.IsRead = true
	return r.db.Model(notification).Update("is_read", true).Error
}
