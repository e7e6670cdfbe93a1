package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a threaded comment on a task. ParentID, when set, must
// reference a comment on the same task.
type Comment struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Text      string         `gorm:"type:text;not null" json:"text"`
	TaskID    uint64         `gorm:"not null;index" json:"task_id"`
	AuthorID  uint64         `gorm:"not null" json:"author_id"`
	ParentID  *uint64        `gorm:"index" json:"parent_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Task    Task     `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Author  User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Replies []Comment `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
}
