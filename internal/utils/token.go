package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateResetToken generates a single-use password reset token.
func GenerateResetToken() string {
	return uuid.NewString()
}

// NormalizeEmail lowercases and trims an email address. Emails are
// compared case-insensitively everywhere.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
