package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FirstName    string         `gorm:"type:varchar(100)" json:"first_name"`
	LastName     string         `gorm:"type:varchar(100)" json:"last_name"`
	PasswordHash string         `gorm:"type:varchar(255)" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Memberships  []TeamMembership `gorm:"foreignKey:UserID" json:"-"`
	CreatedTasks []Task           `gorm:"foreignKey:CreatorID" json:"-"`
}

// HasUsablePassword reports whether the user has completed registration.
// Users created as invite placeholders have no credential until they
// register through the accept-invite flow.
func (u *User) HasUsablePassword() bool {
	return u.PasswordHash != ""
}

// DisplayName returns the human-readable name used in notifications.
func (u *User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	return u.FirstName + " " + u.LastName
}
