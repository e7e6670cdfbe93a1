package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/project-management-api/internal/activity"
	"github.com/yukikurage/project-management-api/internal/authz"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNameTaken  = errors.New("a project with this name already exists")
	ErrNotProjectAdmin   = errors.New("only team admins can modify projects")
	ErrInvalidProjectName = errors.New("project name cannot be empty")
)

// ProjectService provides business logic for projects.
type ProjectService struct {
	scope       scopeResolver
	projectRepo repository.ProjectRepository
	teamRepo    repository.TeamRepository
	recorder    *activity.Recorder
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, teamRepo repository.TeamRepository, taskRepo repository.TaskRepository, recorder *activity.Recorder) *ProjectService {
	return &ProjectService{
		scope:       scopeResolver{taskRepo: taskRepo, projectRepo: projectRepo, teamRepo: teamRepo},
		projectRepo: projectRepo,
		teamRepo:    teamRepo,
		recorder:    recorder,
	}
}

// CreateProjectInput holds the payload for creating a project.
type CreateProjectInput struct {
	Name        string
	Description string
	TeamID      uint64
	Budget      *float64
	DueDate     *time.Time
}

// CreateProject creates a project inside one of the actor's teams. Any
// accepted member may create; a team the actor has no accepted standing
// in behaves as if it did not exist.
func (s *ProjectService) CreateProject(actorID uint64, input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidProjectName
	}

	team, err := s.teamRepo.FindByID(input.TeamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}

	membership, err := s.teamRepo.FindMembership(team.ID, actorID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}
	if !authz.CanCreateInTeam(membership) {
		return nil, ErrTeamNotFound
	}

	if _, err := s.projectRepo.FindByName(name); err == nil {
		return nil, ErrProjectNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check project name: %w", err)
	}

	project := &models.Project{
		Name:        name,
		Description: input.Description,
		TeamID:      team.ID,
		CreatorID:   actorID,
		Budget:      input.Budget,
		DueDate:     input.DueDate,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.recorder.Record(actorID, models.ActionCreated, models.TargetProject, project.ID, project.Name, &project.ID)

	return project, nil
}

// ListProjects returns projects across all teams the actor is an
// accepted member of.
func (s *ProjectService) ListProjects(actorID uint64, page, pageSize int) ([]models.Project, int64, error) {
	teamIDs, err := s.teamRepo.AcceptedTeamIDs(actorID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to resolve teams: %w", err)
	}
	if len(teamIDs) == 0 {
		return []models.Project{}, 0, nil
	}

	return s.projectRepo.List(repository.ProjectFilter{
		TeamIDs:  teamIDs,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetProject returns a project the actor can see.
func (s *ProjectService) GetProject(actorID, projectID uint64) (*models.Project, error) {
	project, _, _, err := s.scope.resolveProject(projectID, actorID)
	if err != nil {
		return nil, err
	}
	return project, nil
}

// UpdateProjectInput holds the mutable project fields. Nil fields are
// left unchanged.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Budget      *float64
	DueDate     *time.Time
}

// UpdateProject mutates a project. Team admins only.
func (s *ProjectService) UpdateProject(actorID, projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, team, membership, err := s.scope.resolveProject(projectID, actorID)
	if err != nil {
		return nil, err
	}

	if !authz.CanUpdateProject(membership, authz.Project(project, team)) {
		return nil, ErrNotProjectAdmin
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidProjectName
		}
		if name != project.Name {
			if _, err := s.projectRepo.FindByName(name); err == nil {
				return nil, ErrProjectNameTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check project name: %w", err)
			}
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Budget != nil {
		project.Budget = input.Budget
	}
	if input.DueDate != nil {
		project.DueDate = input.DueDate
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	s.recorder.Record(actorID, models.ActionUpdated, models.TargetProject, project.ID, project.Name, &project.ID)

	return project, nil
}

// DeleteProject deletes a project and its tasks. Team admins only.
func (s *ProjectService) DeleteProject(actorID, projectID uint64) error {
	project, team, membership, err := s.scope.resolveProject(projectID, actorID)
	if err != nil {
		return err
	}

	if !authz.CanDeleteProject(membership, authz.Project(project, team)) {
		return ErrNotProjectAdmin
	}

	if err := s.projectRepo.Delete(project.ID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.recorder.Record(actorID, models.ActionDeleted, models.TargetProject, project.ID, project.Name, &project.ID)

	return nil
}
