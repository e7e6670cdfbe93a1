package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/services"
)

// TeamHandler coordinates team and membership HTTP handlers.
type TeamHandler struct {
	teamService *services.TeamService
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// CreateTeam creates a team owned by the authenticated user.
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTeamRequest struct {
		Name string `json:"name" binding:"required,max=100"`
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.CreateTeam(req.Name, userID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamDTO(*team))
}

// ListTeams returns the teams the user is an accepted member of.
func (h *TeamHandler) ListTeams(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	memberships, err := h.teamService.ListTeamsForUser(userID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	teams := make([]dto.TeamWithRoleDTO, len(memberships))
	for i, membership := range memberships {
		teams[i] = dto.ToTeamWithRoleDTO(membership)
	}

	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

// ListInvites returns the user's pending invitations.
func (h *TeamHandler) ListInvites(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	memberships, err := h.teamService.ListInvitesForUser(userID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	invites := make([]dto.InviteDTO, len(memberships))
	for i, membership := range memberships {
		invites[i] = dto.ToInviteDTO(membership)
	}

	c.JSON(http.StatusOK, gin.H{"invites": invites})
}

// GetTeam returns a team with its accepted members.
func (h *TeamHandler) GetTeam(c *gin.Context) {
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	team, members, err := h.teamService.GetTeamWithMembers(teamID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDetailDTO(*team, members))
}

// UpdateTeam renames a team. Admin only.
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateTeamRequest struct {
		Name string `json:"name" binding:"required,max=100"`
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.UpdateTeamName(teamID, userID, req.Name)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*team))
}

// DeleteTeam deletes a team and everything it owns. Admin only.
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.teamService.DeleteTeam(teamID, userID); err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Team deleted successfully",
	})
}

// InviteMember invites an email address into the team. Admin only.
func (h *TeamHandler) InviteMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type InviteRequest struct {
		Email string                `json:"email" binding:"required,email"`
		Role  models.MembershipRole `json:"role"`
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	invite, err := h.teamService.InviteMember(teamID, userID, req.Email, req.Role)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamMemberDTO(*invite))
}

// AcceptInvite accepts the user's pending invitation to the team.
func (h *TeamHandler) AcceptInvite(c *gin.Context) {
	h.resolveInvite(c, true)
}

// DeclineInvite declines the user's pending invitation to the team.
func (h *TeamHandler) DeclineInvite(c *gin.Context) {
	h.resolveInvite(c, false)
}

func (h *TeamHandler) resolveInvite(c *gin.Context, accept bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var (
		membership *models.TeamMembership
		err        error
	)
	if accept {
		membership, err = h.teamService.AcceptInvite(teamID, userID)
	} else {
		membership, err = h.teamService.DeclineInvite(teamID, userID)
	}
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": membership.Status,
	})
}

// ChangeMemberRole sets a member's role. Admin only.
func (h *TeamHandler) ChangeMemberRole(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	type ChangeRoleRequest struct {
		Role models.MembershipRole `json:"role" binding:"required"`
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	membership, err := h.teamService.ChangeRole(teamID, userID, targetID, req.Role)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"role": membership.Role,
	})
}

// RemoveMember removes a member from the team. Admin only; self-removal
// is rejected.
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.teamService.RemoveMember(teamID, userID, targetID); err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed successfully",
	})
}

func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

func respondTeamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrMembershipNotFound),
		errors.Is(err, services.ErrNoInvitation),
		errors.Is(err, services.ErrInvalidInvitation):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTeamNameTaken),
		errors.Is(err, services.ErrAlreadyInvited),
		errors.Is(err, services.ErrInviteAlreadyHandled),
		errors.Is(err, services.ErrAlreadyRegistered):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNotTeamAdmin),
		errors.Is(err, services.ErrCannotRemoveSelf):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrInvalidTeamName),
		errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrFailedToHashPassword):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
