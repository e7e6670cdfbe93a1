package dto

import (
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64 `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	CreatorID uint64    `json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TeamWithRoleDTO represents a team with the user's role in it
type TeamWithRoleDTO struct {
	TeamDTO
	Role models.MembershipRole `json:"role"`
}

// TeamMemberDTO represents a member in a team
type TeamMemberDTO struct {
	User   UserDTO                 `json:"user"`
	Role   models.MembershipRole   `json:"role"`
	Status models.MembershipStatus `json:"status"`
}

// TeamDetailDTO represents a team with its accepted members
type TeamDetailDTO struct {
	TeamDTO
	Members []TeamMemberDTO `json:"members"`
}

// InviteDTO represents a pending invitation in API responses
type InviteDTO struct {
	Team TeamDTO               `json:"team"`
	Role models.MembershipRole `json:"role"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// ToTeamDTO converts a Team model to TeamDTO
func ToTeamDTO(team models.Team) TeamDTO {
	return TeamDTO{
		ID:        team.ID,
		Name:      team.Name,
		CreatorID: team.CreatorID,
		CreatedAt: team.CreatedAt,
	}
}

// ToTeamWithRoleDTO converts a membership to a team-with-role DTO
func ToTeamWithRoleDTO(membership models.TeamMembership) TeamWithRoleDTO {
	return TeamWithRoleDTO{
		TeamDTO: ToTeamDTO(membership.Team),
		Role:    membership.Role,
	}
}

// ToTeamMemberDTO converts a membership to TeamMemberDTO
func ToTeamMemberDTO(membership models.TeamMembership) TeamMemberDTO {
	return TeamMemberDTO{
		User:   ToUserDTO(membership.User),
		Role:   membership.Role,
		Status: membership.Status,
	}
}

// ToTeamDetailDTO converts a team with members to TeamDetailDTO
func ToTeamDetailDTO(team models.Team, members []models.TeamMembership) TeamDetailDTO {
	memberDTOs := make([]TeamMemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = ToTeamMemberDTO(member)
	}

	return TeamDetailDTO{
		TeamDTO: ToTeamDTO(team),
		Members: memberDTOs,
	}
}

// ToInviteDTO converts a pending membership to InviteDTO
func ToInviteDTO(membership models.TeamMembership) InviteDTO {
	return InviteDTO{
		Team: ToTeamDTO(membership.Team),
		Role: membership.Role,
	}
}
