package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateMembership is returned when a (team, user) pair
	// already has a membership, whatever its status.
	ErrDuplicateMembership = errors.New("team repository: membership already exists")
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// CreateWithAdmin creates a team and the creator's accepted admin membership atomically.
func (r *GormTeamRepository) CreateWithAdmin(team *models.Team, creatorID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}

		member := &models.TeamMembership{
			TeamID:   team.ID,
			UserID:   creatorID,
			Role:     models.RoleAdmin,
			Status:   models.StatusAccepted,
			JoinedAt: time.Now(),
		}

		return tx.Create(member).Error
	})
}

// FindByID finds a team by ID
func (r *GormTeamRepository) FindByID(id uint64) (*models.Team, error) {
	var team models.Team
	if err := r.db.First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// FindByName finds a team by its unique name
func (r *GormTeamRepository) FindByName(name string) (*models.Team, error) {
	var team models.Team
	if err := r.db.Where("name = ?", name).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// Update updates a team
func (r *GormTeamRepository) Update(team *models.Team) error {
	return r.db.Save(team).Error
}

// Delete deletes a team and all dependent data in a transaction
func (r *GormTeamRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var projectIDs []uint64
		if err := tx.Model(&models.Project{}).
			Where("team_id = ?", id).
			Pluck("id", &projectIDs).Error; err != nil {
			return err
		}

		if len(projectIDs) > 0 {
			var taskIDs []uint64
			if err := tx.Model(&models.Task{}).
				Where("project_id IN ?", projectIDs).
				Pluck("id", &taskIDs).Error; err != nil {
				return err
			}

			if len(taskIDs) > 0 {
				if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.Comment{}).Error; err != nil {
					return err
				}
				if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskFile{}).Error; err != nil {
					return err
				}
				if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TimeEntry{}).Error; err != nil {
					return err
				}
				if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.Task{}).Error; err != nil {
					return err
				}
			}

			if err := tx.Where("team_id = ?", id).Delete(&models.Project{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("team_id = ?", id).Delete(&models.TeamMembership{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Team{}, id).Error
	})
}

// AddMember inserts a membership, enforcing (team, user) uniqueness at write time.
func (r *GormTeamRepository) AddMember(member *models.TeamMembership) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.TeamMembership
		err := tx.Where("team_id = ? AND user_id = ?", member.TeamID, member.UserID).
			First(&existing).Error
		if err == nil {
			return ErrDuplicateMembership
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check existing membership: %w", err)
		}

		if member.JoinedAt.IsZero() {
			member.JoinedAt = time.Now()
		}

		return tx.Create(member).Error
	})
}

// FindMembership finds the membership for a (team, user) pair regardless of status
func (r *GormTeamRepository) FindMembership(teamID, userID uint64) (*models.TeamMembership, error) {
	var member models.TeamMembership
	if err := r.db.Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// UpdateMembership persists a role or status change
func (r *GormTeamRepository) UpdateMembership(member *models.TeamMembership) error {
	return r.db.Model(&models.TeamMembership{}).
		Where("team_id = ? AND user_id = ?", member.TeamID, member.UserID).
		Updates(map[string]interface{}{
			"role":   member.Role,
			"status": member.Status,
		}).Error
}

// RemoveMember deletes the membership for a (team, user) pair
func (r *GormTeamRepository) RemoveMember(teamID, userID uint64) error {
	return r.db.Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&models.TeamMembership{}).Error
}

// ListMembers lists memberships of a team
func (r *GormTeamRepository) ListMembers(teamID uint64, acceptedOnly bool) ([]models.TeamMembership, error) {
	var members []models.TeamMembership
	query := r.db.Preload("User").Where("team_id = ?", teamID)
	if acceptedOnly {
		query = query.Where("status = ?", models.StatusAccepted)
	}
	if err := query.Order("joined_at DESC").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListMembershipsByUser lists a user's memberships
func (r *GormTeamRepository) ListMembershipsByUser(userID uint64, acceptedOnly bool) ([]models.TeamMembership, error) {
	var memberships []models.TeamMembership
	query := r.db.Preload("Team").Where("user_id = ?", userID)
	if acceptedOnly {
		query = query.Where("status = ?", models.StatusAccepted)
	}
	if err := query.Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// IsAdmin reports whether the user holds an accepted admin membership in the team
func (r *GormTeamRepository) IsAdmin(teamID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.TeamMembership{}).
		Where("team_id = ? AND user_id = ? AND role = ? AND status = ?",
			teamID, userID, models.RoleAdmin, models.StatusAccepted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AcceptedTeamIDs returns the IDs of teams the user is an accepted member of
func (r *GormTeamRepository) AcceptedTeamIDs(userID uint64) ([]uint64, error) {
	var teamIDs []uint64
	err := r.db.Model(&models.TeamMembership{}).
		Where("user_id = ? AND status = ?", userID, models.StatusAccepted).
		Pluck("team_id", &teamIDs).Error
	if err != nil {
		return nil, err
	}
	return teamIDs, nil
}
