package models

import "time"

type MembershipRole string

const (
	RoleAdmin     MembershipRole = "admin"
	RoleManager   MembershipRole = "manager"
	RoleDeveloper MembershipRole = "developer"
)

// ValidRole reports whether the given role is one of the known roles.
func ValidRole(role MembershipRole) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleDeveloper:
		return true
	}
	return false
}

type MembershipStatus string

const (
	StatusPending  MembershipStatus = "pending"
	StatusAccepted MembershipStatus = "accepted"
	StatusDeclined MembershipStatus = "declined"
)

// TeamMembership ties a user to a team with a role and an invitation
// status. At most one membership exists per (team, user) pair; only an
// accepted membership grants any standing within the team.
type TeamMembership struct {
	TeamID   uint64           `gorm:"primarykey" json:"team_id"`
	UserID   uint64           `gorm:"primarykey" json:"user_id"`
	Role     MembershipRole   `gorm:"type:varchar(20);not null" json:"role"`
	Status   MembershipStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	JoinedAt time.Time        `json:"joined_at"`

	// Relations
	Team Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// IsPending reports whether the invitation has not been answered yet.
func (m *TeamMembership) IsPending() bool {
	return m.Status == StatusPending
}

// IsAccepted reports whether the membership grants team standing.
func (m *TeamMembership) IsAccepted() bool {
	return m.Status == StatusAccepted
}
