package models

import (
	"time"

	"gorm.io/gorm"
)

type Team struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	CreatorID uint64         `gorm:"not null" json:"creator_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Creator     User             `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Memberships []TeamMembership `gorm:"foreignKey:TeamID" json:"memberships,omitempty"`
	Projects    []Project        `gorm:"foreignKey:TeamID" json:"projects,omitempty"`
}
