package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/models"
)

func (e *serviceTestEnv) authService() *AuthService {
	return NewAuthService(e.userRepo, nil, "no-reply@test.local", "http://localhost:3000")
}

func TestAuthService_RegisterNormalizesEmail(t *testing.T) {
	env := setupServiceTestEnv(t)
	svc := env.authService()

	user, err := svc.Register(RegisterInput{
		Email:    "  Mixed.Case@Example.COM ",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.Equal(t, "mixed.case@example.com", user.Email)

	_, err = svc.Register(RegisterInput{
		Email:    "mixed.case@example.com",
		Password: "supersecret",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_RegisterRejectsShortPassword(t *testing.T) {
	env := setupServiceTestEnv(t)
	svc := env.authService()

	_, err := svc.Register(RegisterInput{
		Email:    "user@example.com",
		Password: "short",
	})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestAuthService_PlaceholderUserCannotLogin(t *testing.T) {
	env := setupServiceTestEnv(t)
	svc := env.authService()

	placeholder := &models.User{Email: "invited@example.com"}
	require.NoError(t, env.db.Create(placeholder).Error)

	_, err := svc.Login(LoginInput{Email: "invited@example.com", Password: "anything"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_ChangePassword(t *testing.T) {
	env := setupServiceTestEnv(t)
	svc := env.authService()

	user, err := svc.Register(RegisterInput{
		Email:    "user@example.com",
		Password: "original-pass",
	})
	require.NoError(t, err)

	require.ErrorIs(t, svc.ChangePassword(user.ID, "wrong-pass", "replacement"), ErrWrongOldPassword)
	require.NoError(t, svc.ChangePassword(user.ID, "original-pass", "replacement"))

	_, err = svc.Login(LoginInput{Email: "user@example.com", Password: "replacement"})
	require.NoError(t, err)
}

func TestAuthService_PasswordResetTokenIsSingleUse(t *testing.T) {
	env := setupServiceTestEnv(t)
	svc := env.authService()

	_, err := svc.Register(RegisterInput{
		Email:    "user@example.com",
		Password: "original-pass",
	})
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset("user@example.com"))

	var token models.PasswordResetToken
	require.NoError(t, env.db.First(&token).Error)

	require.NoError(t, svc.ConfirmPasswordReset(token.Token, "reset-pass-1"))
	require.ErrorIs(t, svc.ConfirmPasswordReset(token.Token, "reset-pass-2"), ErrInvalidResetToken)

	_, err = svc.Login(LoginInput{Email: "user@example.com", Password: "reset-pass-1"})
	require.NoError(t, err)
}

func TestAuthService_ResetRequestNeverLeaksExistence(t *testing.T) {
	env := setupServiceTestEnv(t)
	svc := env.authService()

	require.NoError(t, svc.RequestPasswordReset("ghost@example.com"))

	var count int64
	require.NoError(t, env.db.Model(&models.PasswordResetToken{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestAuthService_EmailIsImmutable(t *testing.T) {
	env := setupServiceTestEnv(t)
	svc := env.authService()

	user, err := svc.Register(RegisterInput{
		Email:     "user@example.com",
		FirstName: "Before",
		Password:  "supersecret",
	})
	require.NoError(t, err)

	first := "After"
	updated, err := svc.UpdateProfile(user.ID, UpdateProfileInput{FirstName: &first})
	require.NoError(t, err)
	require.Equal(t, "After", updated.FirstName)
	require.Equal(t, "user@example.com", updated.Email)
}
