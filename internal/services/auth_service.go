package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/notify"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrWrongOldPassword     = errors.New("wrong password")
	ErrInvalidResetToken    = errors.New("invalid reset token")
	ErrExpiredResetToken    = errors.New("reset token expired")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration, login and credential management.
type AuthService struct {
	userRepo repository.UserRepository
	mailer   notify.Mailer
	from     string
	frontend string
}

// NewAuthService creates a new AuthService. mailer may be nil; reset
// tokens are then issued without an outbound email.
func NewAuthService(userRepo repository.UserRepository, mailer notify.Mailer, from, frontendURL string) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		mailer:   mailer,
		from:     from,
		frontend: frontendURL,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// Register creates a new user with a usable credential.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	email := utils.NormalizeEmail(input.Email)
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user. A
// placeholder user created by an invitation cannot log in until it
// registers through the accept-invite flow.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(utils.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.HasUsablePassword() {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// UpdateProfileInput holds profile fields a user may change. Email is
// immutable after creation.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
}

// UpdateProfile updates the user's display name.
func (s *AuthService) UpdateProfile(userID uint64, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

// ChangePassword replaces the user's credential after verifying the old one.
func (s *AuthService) ChangePassword(userID uint64, oldPassword, newPassword string) error {
	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrWrongOldPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	user.PasswordHash = string(hashedPassword)
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// RequestPasswordReset issues a reset token and mails the reset link.
// It succeeds whether or not the email exists, so account existence is
// never leaked.
func (s *AuthService) RequestPasswordReset(email string) error {
	user, err := s.userRepo.FindByEmail(utils.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	token := &models.PasswordResetToken{
		Token:  utils.GenerateResetToken(),
		UserID: user.ID,
	}
	if err := s.userRepo.CreateResetToken(token); err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}

	if s.mailer != nil {
		resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.frontend, token.Token)
		body := fmt.Sprintf("Click the link to reset your password: %s", resetLink)
		if err := s.mailer.Send("Password Reset Request", body, s.from, []string{user.Email}); err != nil {
			return fmt.Errorf("failed to send reset email: %w", err)
		}
	}

	return nil
}

// ConfirmPasswordReset consumes a reset token and sets the new password.
func (s *AuthService) ConfirmPasswordReset(token, newPassword string) error {
	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	t, err := s.userRepo.FindResetToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to find reset token: %w", err)
	}

	if t.IsExpired() {
		// Expired tokens are removed on sight.
		if err := s.userRepo.DeleteResetToken(t.ID); err != nil {
			return fmt.Errorf("failed to delete expired token: %w", err)
		}
		return ErrExpiredResetToken
	}

	user, err := s.userRepo.FindByID(t.UserID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	user.PasswordHash = string(hashedPassword)
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return s.userRepo.DeleteResetToken(t.ID)
}
