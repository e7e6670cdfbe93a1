package models

import "time"

type NotificationType string

const (
	NotificationGeneral NotificationType = "general"
	NotificationTask    NotificationType = "task"
	NotificationComment NotificationType = "comment"
	NotificationInvite  NotificationType = "invite"
)

type Notification struct {
	ID        uint64           `gorm:"primarykey" json:"id"`
	UserID    uint64           `gorm:"not null;index" json:"user_id"`
	Message   string           `gorm:"type:varchar(255);not null" json:"message"`
	Type      NotificationType `gorm:"type:varchar(50);not null;default:'general'" json:"type"`
	IsRead    bool             `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
