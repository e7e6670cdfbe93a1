package models

import "time"

// PasswordResetTokenTTL is how long a reset token stays valid.
const PasswordResetTokenTTL = time.Hour

// PasswordResetToken is a single-use token mailed to a user. It is
// deleted on use or once expired.
type PasswordResetToken struct {
	ID        uint64    `gorm:"primarykey" json:"-"`
	Token     string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"token"`
	UserID    uint64    `gorm:"not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// IsExpired reports whether the token is past its TTL.
func (t *PasswordResetToken) IsExpired() bool {
	return time.Since(t.CreatedAt) > PasswordResetTokenTTL
}
