package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	TeamID      uint64         `gorm:"not null" json:"team_id"`
	CreatorID   uint64         `gorm:"not null" json:"creator_id"`
	Budget      *float64       `json:"budget"`
	DueDate     *time.Time     `json:"due_date"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Team    Team   `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Creator User   `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Tasks   []Task `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}
