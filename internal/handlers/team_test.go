package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/dto"
	"github.com/yukikurage/project-management-api/internal/models"
)

func (e *handlerTestEnv) createTeam(t *testing.T, cookies []*http.Cookie, name string) dto.TeamDTO {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/teams", map[string]interface{}{"name": name}, cookies)
	require.Equal(t, http.StatusCreated, w.Code)

	var team dto.TeamDTO
	decodeJSON(t, w, &team)
	return team
}

func TestTeamHandler_CreateAndList(t *testing.T) {
	env := setupHandlerTestEnv(t)
	cookies := env.registerAndLogin(t, "admin@example.com")

	team := env.createTeam(t, cookies, "Platform")
	require.Equal(t, "Platform", team.Name)

	w := env.do(t, http.MethodPost, "/api/teams", map[string]interface{}{"name": "Platform"}, cookies)
	require.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodGet, "/api/teams", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Teams []dto.TeamWithRoleDTO `json:"teams"`
	}
	decodeJSON(t, w, &response)
	require.Len(t, response.Teams, 1)
	require.Equal(t, models.RoleAdmin, response.Teams[0].Role)
}

func TestTeamHandler_NonMemberGets404NotForbidden(t *testing.T) {
	env := setupHandlerTestEnv(t)
	adminCookies := env.registerAndLogin(t, "admin@example.com")
	team := env.createTeam(t, adminCookies, "Platform")

	outsiderCookies := env.registerAndLogin(t, "outsider@example.com")

	// Team existence is never revealed to outsiders.
	for _, probe := range []struct {
		method string
		url    string
		body   map[string]interface{}
	}{
		{http.MethodGet, teamURL(team.ID, ""), nil},
		{http.MethodPatch, teamURL(team.ID, ""), map[string]interface{}{"name": "Stolen"}},
		{http.MethodDelete, teamURL(team.ID, ""), nil},
		{http.MethodPost, teamURL(team.ID, "/invite"), map[string]interface{}{"email": "x@example.com"}},
	} {
		w := env.do(t, probe.method, probe.url, probe.body, outsiderCookies)
		require.Equal(t, http.StatusNotFound, w.Code, "%s %s", probe.method, probe.url)
	}
}

func TestTeamHandler_InviteAcceptFlow(t *testing.T) {
	env := setupHandlerTestEnv(t)
	adminCookies := env.registerAndLogin(t, "admin@example.com")
	team := env.createTeam(t, adminCookies, "Platform")

	inviteeCookies := env.registerAndLogin(t, "dev@example.com")

	// Invite an existing account.
	w := env.do(t, http.MethodPost, teamURL(team.ID, "/invite"), map[string]interface{}{
		"email": "dev@example.com",
		"role":  "developer",
	}, adminCookies)
	require.Equal(t, http.StatusCreated, w.Code)

	var invite dto.TeamMemberDTO
	decodeJSON(t, w, &invite)
	require.Equal(t, models.StatusPending, invite.Status)

	// Pending membership grants no visibility.
	w = env.do(t, http.MethodGet, teamURL(team.ID, ""), nil, inviteeCookies)
	require.Equal(t, http.StatusNotFound, w.Code)

	// The invitation shows up on the invitee's list and persists a
	// notification.
	w = env.do(t, http.MethodGet, "/api/invites", nil, inviteeCookies)
	require.Equal(t, http.StatusOK, w.Code)
	var invitesResponse struct {
		Invites []dto.InviteDTO `json:"invites"`
	}
	decodeJSON(t, w, &invitesResponse)
	require.Len(t, invitesResponse.Invites, 1)
	require.Equal(t, team.ID, invitesResponse.Invites[0].Team.ID)

	w = env.do(t, http.MethodGet, "/api/notifications", nil, inviteeCookies)
	require.Equal(t, http.StatusOK, w.Code)
	var notificationsResponse struct {
		Notifications []dto.NotificationDTO `json:"notifications"`
	}
	decodeJSON(t, w, &notificationsResponse)
	require.Len(t, notificationsResponse.Notifications, 1)
	require.Equal(t, models.NotificationInvite, notificationsResponse.Notifications[0].Type)

	// Accept, then the team becomes visible.
	w = env.do(t, http.MethodPost, teamURL(team.ID, "/accept"), nil, inviteeCookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, teamURL(team.ID, ""), nil, inviteeCookies)
	require.Equal(t, http.StatusOK, w.Code)

	var detail dto.TeamDetailDTO
	decodeJSON(t, w, &detail)
	require.Len(t, detail.Members, 2)

	// Accepting twice conflicts.
	w = env.do(t, http.MethodPost, teamURL(team.ID, "/accept"), nil, inviteeCookies)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestTeamHandler_InviteUnknownEmailCreatesPlaceholder(t *testing.T) {
	env := setupHandlerTestEnv(t)
	adminCookies := env.registerAndLogin(t, "admin@example.com")
	team := env.createTeam(t, adminCookies, "Platform")

	w := env.do(t, http.MethodPost, teamURL(team.ID, "/invite"), map[string]interface{}{
		"email": "fresh@example.com",
	}, adminCookies)
	require.Equal(t, http.StatusCreated, w.Code)

	// The placeholder cannot log in yet.
	w = env.do(t, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"email":    "fresh@example.com",
		"password": "anything-at-all",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Registering through the invite completes the account and accepts.
	w = env.do(t, http.MethodPost, "/api/auth/register-invite", map[string]interface{}{
		"email":      "fresh@example.com",
		"password":   "supersecret",
		"first_name": "Fresh",
		"team_id":    team.ID,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	cookies := env.login(t, "fresh@example.com")
	w = env.do(t, http.MethodGet, teamURL(team.ID, ""), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestTeamHandler_MemberManagement(t *testing.T) {
	env := setupHandlerTestEnv(t)
	adminCookies := env.registerAndLogin(t, "admin@example.com")
	team := env.createTeam(t, adminCookies, "Platform")

	devCookies := env.registerAndLogin(t, "dev@example.com")
	w := env.do(t, http.MethodPost, teamURL(team.ID, "/invite"), map[string]interface{}{
		"email": "dev@example.com",
	}, adminCookies)
	require.Equal(t, http.StatusCreated, w.Code)
	w = env.do(t, http.MethodPost, teamURL(team.ID, "/accept"), nil, devCookies)
	require.Equal(t, http.StatusOK, w.Code)

	var dev struct {
		ID uint64 `json:"id"`
	}
	w = env.do(t, http.MethodGet, "/api/auth/me", nil, devCookies)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &dev)

	// Non-admins cannot manage members.
	w = env.do(t, http.MethodPost, teamURL(team.ID, "/invite"), map[string]interface{}{
		"email": "another@example.com",
	}, devCookies)
	require.Equal(t, http.StatusForbidden, w.Code)

	// Role change and removal by the admin.
	w = env.do(t, http.MethodPatch, teamURL(team.ID, "/members/")+itoa(dev.ID)+"/role", map[string]interface{}{
		"role": "manager",
	}, adminCookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodDelete, teamURL(team.ID, "/members/")+itoa(dev.ID), nil, adminCookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, teamURL(team.ID, ""), nil, devCookies)
	require.Equal(t, http.StatusNotFound, w.Code)
}
