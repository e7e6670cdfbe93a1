package models

import "time"

type ActivityAction string

const (
	ActionCreated   ActivityAction = "created"
	ActionUpdated   ActivityAction = "updated"
	ActionDeleted   ActivityAction = "deleted"
	ActionCommented ActivityAction = "commented"
)

type ActivityTarget string

const (
	TargetTask    ActivityTarget = "task"
	TargetComment ActivityTarget = "comment"
	TargetProject ActivityTarget = "project"
)

// ActivityLog is an append-only audit record. Rows are never updated or
// deleted once written.
type ActivityLog struct {
	ID         uint64         `gorm:"primarykey" json:"id"`
	UserID     uint64         `gorm:"not null;index" json:"user_id"`
	Action     ActivityAction `gorm:"type:varchar(20);not null" json:"action"`
	TargetType ActivityTarget `gorm:"type:varchar(20);not null" json:"target_type"`
	TargetID   uint64         `gorm:"not null" json:"target_id"`
	TargetRepr string         `gorm:"type:varchar(255);not null" json:"target_repr"`
	ProjectID  *uint64        `gorm:"index" json:"project_id"`
	CreatedAt  time.Time      `json:"timestamp"`

	// Relations
	User    User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Project *Project `gorm:"foreignKey:ProjectID" json:"-"`
}
