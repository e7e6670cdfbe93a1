package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/project-management-api/internal/authz"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/notify"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrTeamNotFound         = errors.New("team not found")
	ErrTeamNameTaken        = errors.New("a team with this name already exists")
	ErrInvalidTeamName      = errors.New("team name cannot be empty")
	ErrNotTeamAdmin         = errors.New("only team admins can perform this action")
	ErrInvalidRole          = errors.New("invalid role")
	ErrAlreadyInvited       = errors.New("user already invited or added")
	ErrNoInvitation         = errors.New("no invitation found")
	ErrInviteAlreadyHandled = errors.New("invitation already processed")
	ErrCannotRemoveSelf     = errors.New("admin cannot remove themselves")
	ErrMembershipNotFound   = errors.New("membership not found")
	ErrInvalidInvitation    = errors.New("invalid invitation")
	ErrAlreadyRegistered    = errors.New("user already registered")
)

// TeamService provides business logic for teams and memberships.
type TeamService struct {
	teamRepo   repository.TeamRepository
	userRepo   repository.UserRepository
	dispatcher *notify.Dispatcher
	frontend   string
}

// NewTeamService creates a new TeamService.
func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository, dispatcher *notify.Dispatcher, frontendURL string) *TeamService {
	return &TeamService{
		teamRepo:   teamRepo,
		userRepo:   userRepo,
		dispatcher: dispatcher,
		frontend:   frontendURL,
	}
}

// CreateTeam creates a team; the creator becomes an accepted admin member.
func (s *TeamService) CreateTeam(name string, creatorID uint64) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidTeamName
	}

	if _, err := s.teamRepo.FindByName(name); err == nil {
		return nil, ErrTeamNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check team name: %w", err)
	}

	team := &models.Team{
		Name:      name,
		CreatorID: creatorID,
	}

	if err := s.teamRepo.CreateWithAdmin(team, creatorID); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return team, nil
}

// ListTeamsForUser returns the user's accepted memberships with teams preloaded.
func (s *TeamService) ListTeamsForUser(userID uint64) ([]models.TeamMembership, error) {
	memberships, err := s.teamRepo.ListMembershipsByUser(userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return memberships, nil
}

// ListInvitesForUser returns the user's pending invitations.
func (s *TeamService) ListInvitesForUser(userID uint64) ([]models.TeamMembership, error) {
	memberships, err := s.teamRepo.ListMembershipsByUser(userID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}

	pending := make([]models.TeamMembership, 0, len(memberships))
	for _, m := range memberships {
		if m.IsPending() {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// GetTeamWithMembers returns a team and its accepted members.
func (s *TeamService) GetTeamWithMembers(teamID uint64) (*models.Team, []models.TeamMembership, error) {
	team, err := s.teamRepo.FindByID(teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTeamNotFound
		}
		return nil, nil, fmt.Errorf("failed to find team: %w", err)
	}

	members, err := s.teamRepo.ListMembers(teamID, true)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list team members: %w", err)
	}

	return team, members, nil
}

// UpdateTeamName renames a team. Admin only.
func (s *TeamService) UpdateTeamName(teamID, actorID uint64, name string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidTeamName
	}

	team, membership, err := s.teamResource(teamID, actorID)
	if err != nil {
		return nil, err
	}

	if !authz.CanUpdateTeam(membership, authz.Team(team)) {
		return nil, ErrNotTeamAdmin
	}

	if team.Name != name {
		if _, err := s.teamRepo.FindByName(name); err == nil {
			return nil, ErrTeamNameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check team name: %w", err)
		}
	}

	team.Name = name
	if err := s.teamRepo.Update(team); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}

	return team, nil
}

// DeleteTeam removes a team and everything it owns. Admin only.
func (s *TeamService) DeleteTeam(teamID, actorID uint64) error {
	team, membership, err := s.teamResource(teamID, actorID)
	if err != nil {
		return err
	}

	if !authz.CanDeleteTeam(membership, authz.Team(team)) {
		return ErrNotTeamAdmin
	}

	if err := s.teamRepo.Delete(teamID); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}

	return nil
}

// InviteMember invites an email address into the team. When no account
// exists for the email, a placeholder user with an unusable credential
// is created; it becomes a real account through the register-and-accept
// flow. Admin only.
func (s *TeamService) InviteMember(teamID, actorID uint64, email string, role models.MembershipRole) (*models.TeamMembership, error) {
	if role == "" {
		role = models.RoleDeveloper
	}
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	email = utils.NormalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	team, membership, err := s.teamResource(teamID, actorID)
	if err != nil {
		return nil, err
	}

	if !authz.CanManageMembers(membership, authz.Team(team)) {
		return nil, ErrNotTeamAdmin
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
		user = &models.User{Email: email}
		if err := s.userRepo.Create(user); err != nil {
			return nil, fmt.Errorf("failed to create placeholder user: %w", err)
		}
	}

	invite := &models.TeamMembership{
		TeamID: teamID,
		UserID: user.ID,
		Role:   role,
		Status: models.StatusPending,
	}

	if err := s.teamRepo.AddMember(invite); err != nil {
		if errors.Is(err, repository.ErrDuplicateMembership) {
			return nil, ErrAlreadyInvited
		}
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	inviteLink := fmt.Sprintf("%s/register?email=%s&team_id=%d", s.frontend, user.Email, team.ID)
	if err := s.dispatcher.Dispatch(user, notify.Input{
		Message:      fmt.Sprintf("You've been invited to join the team: %s", team.Name),
		Type:         models.NotificationInvite,
		EmailSubject: fmt.Sprintf("You've been invited to join the team: %s", team.Name),
		EmailBody:    fmt.Sprintf("Hi,\n\nYou've been invited to join '%s' on Project Manager.\nAccept your invitation: %s", team.Name, inviteLink),
		Persist:      true,
	}); err != nil {
		// The invitation itself stands; only the notification row was lost.
		fmt.Printf("failed to dispatch invite notification: %v\n", err)
	}

	invite.User = *user
	return invite, nil
}

// AcceptInvite transitions a pending membership to accepted. The
// transition is one-directional and happens exactly once.
func (s *TeamService) AcceptInvite(teamID, userID uint64) (*models.TeamMembership, error) {
	return s.resolveInvite(teamID, userID, models.StatusAccepted)
}

// DeclineInvite transitions a pending membership to declined.
func (s *TeamService) DeclineInvite(teamID, userID uint64) (*models.TeamMembership, error) {
	return s.resolveInvite(teamID, userID, models.StatusDeclined)
}

func (s *TeamService) resolveInvite(teamID, userID uint64, status models.MembershipStatus) (*models.TeamMembership, error) {
	membership, err := s.teamRepo.FindMembership(teamID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoInvitation
		}
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}

	if !membership.IsPending() {
		return nil, ErrInviteAlreadyHandled
	}

	membership.Status = status
	if err := s.teamRepo.UpdateMembership(membership); err != nil {
		return nil, fmt.Errorf("failed to update invitation: %w", err)
	}

	return membership, nil
}

// ChangeRole sets a member's role. Admin only.
func (s *TeamService) ChangeRole(teamID, actorID, targetID uint64, role models.MembershipRole) (*models.TeamMembership, error) {
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	team, membership, err := s.teamResource(teamID, actorID)
	if err != nil {
		return nil, err
	}

	if !authz.CanManageMembers(membership, authz.Team(team)) {
		return nil, ErrNotTeamAdmin
	}

	target, err := s.teamRepo.FindMembership(teamID, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}

	target.Role = role
	if err := s.teamRepo.UpdateMembership(target); err != nil {
		return nil, fmt.Errorf("failed to change role: %w", err)
	}

	return target, nil
}

// RemoveMember deletes a member's standing in the team. Admin only; an
// admin cannot remove themselves. Nothing prevents removing the last
// remaining admin through another admin, mirroring the upstream
// behavior.
func (s *TeamService) RemoveMember(teamID, actorID, targetID uint64) error {
	if actorID == targetID {
		return ErrCannotRemoveSelf
	}

	team, membership, err := s.teamResource(teamID, actorID)
	if err != nil {
		return err
	}

	if !authz.CanManageMembers(membership, authz.Team(team)) {
		return ErrNotTeamAdmin
	}

	if _, err := s.teamRepo.FindMembership(teamID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMembershipNotFound
		}
		return fmt.Errorf("failed to find membership: %w", err)
	}

	if err := s.teamRepo.RemoveMember(teamID, targetID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

// RegisterAndAcceptInviteInput holds the payload of the combined
// register-and-accept-invite flow used by placeholder users.
type RegisterAndAcceptInviteInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	TeamID    uint64
}

// RegisterAndAcceptInvite turns a placeholder user into a registered
// one and accepts its pending invitation in the same step.
func (s *TeamService) RegisterAndAcceptInvite(input RegisterAndAcceptInviteInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(utils.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInvitation
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.HasUsablePassword() {
		return nil, ErrAlreadyRegistered
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	if _, err := s.resolveInvite(input.TeamID, user.ID, models.StatusAccepted); err != nil {
		return nil, err
	}

	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.PasswordHash = string(hashedPassword)
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// teamResource loads a team and the actor's membership in it. A missing
// team maps to ErrTeamNotFound; a missing membership stays nil and lets
// the authorization predicates deny.
func (s *TeamService) teamResource(teamID, actorID uint64) (*models.Team, *models.TeamMembership, error) {
	team, err := s.teamRepo.FindByID(teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTeamNotFound
		}
		return nil, nil, fmt.Errorf("failed to find team: %w", err)
	}

	membership, err := s.teamRepo.FindMembership(teamID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return team, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to find membership: %w", err)
	}

	return team, membership, nil
}
