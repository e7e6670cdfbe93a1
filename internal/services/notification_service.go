package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"gorm.io/gorm"
)

// ErrNotificationNotFound covers both a missing notification and one
// owned by someone else.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService reads and flags persisted notifications. Writing
// them is the dispatcher's job.
type NotificationService struct {
	repo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// ListNotifications returns the user's latest notifications, newest first.
func (s *NotificationService) ListNotifications(userID uint64) ([]models.Notification, error) {
	notifications, err := s.repo.ListByUser(userID, constants.NotificationListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead flags one of the user's own notifications as read. Marking
// an already-read notification is a no-op, not an error.
func (s *NotificationService) MarkRead(userID, notificationID uint64) (*models.Notification, error) {
	notification, err := s.repo.FindByIDForUser(notificationID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to find notification: %w", err)
	}

	if notification.IsRead {
		return notification, nil
	}

	notification.IsRead = true
	if err := s.repo.MarkRead(notification); err != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}

	return notification, nil
}
