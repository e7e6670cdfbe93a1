package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/dto"
)

func TestAuthHandler_Register(t *testing.T) {
	env := setupHandlerTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", map[string]interface{}{
		"email":      "new@example.com",
		"first_name": "New",
		"last_name":  "User",
		"password":   "supersecret",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	decodeJSON(t, w, &response)
	require.Equal(t, "new@example.com", response.Email)
	require.Equal(t, "New", response.FirstName)
}

func TestAuthHandler_RegisterDuplicateEmailConflicts(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.registerAndLogin(t, "taken@example.com")

	w := env.do(t, http.MethodPost, "/api/auth/register", map[string]interface{}{
		"email":    "taken@example.com",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_LoginSetsSession(t *testing.T) {
	env := setupHandlerTestEnv(t)
	cookies := env.registerAndLogin(t, "user@example.com")

	w := env.do(t, http.MethodGet, "/api/auth/me", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	decodeJSON(t, w, &response)
	require.Equal(t, "user@example.com", response.Email)
}

func TestAuthHandler_LoginWrongPassword(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.registerAndLogin(t, "user@example.com")

	w := env.do(t, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"email":    "user@example.com",
		"password": "not-the-password",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_MeRequiresSession(t *testing.T) {
	env := setupHandlerTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/auth/me", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_LogoutClearsSession(t *testing.T) {
	env := setupHandlerTestEnv(t)
	cookies := env.registerAndLogin(t, "user@example.com")

	w := env.do(t, http.MethodPost, "/api/auth/logout", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	// The cleared cookie replaces the old one.
	cleared := w.Result().Cookies()
	w = env.do(t, http.MethodGet, "/api/auth/me", nil, cleared)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	env := setupHandlerTestEnv(t)
	cookies := env.registerAndLogin(t, "user@example.com")

	w := env.do(t, http.MethodPost, "/api/auth/change-password", map[string]interface{}{
		"old_password": "supersecret",
		"new_password": "evenmoresecret",
	}, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"email":    "user@example.com",
		"password": "evenmoresecret",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_UpdateProfileKeepsEmail(t *testing.T) {
	env := setupHandlerTestEnv(t)
	cookies := env.registerAndLogin(t, "user@example.com")

	w := env.do(t, http.MethodPatch, "/api/auth/me", map[string]interface{}{
		"first_name": "Renamed",
		"email":      "other@example.com",
	}, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	decodeJSON(t, w, &response)
	require.Equal(t, "Renamed", response.FirstName)
	require.Equal(t, "user@example.com", response.Email)
}
