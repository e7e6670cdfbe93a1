package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrTaskNotFound    = errors.New("task not found")
)

// taskScope is a task together with its resolved parent chain and the
// acting user's membership in the owning team.
type taskScope struct {
	Task       *models.Task
	Project    *models.Project
	Team       *models.Team
	Membership *models.TeamMembership
}

// scopeResolver loads team-scoped resources along their parent chain.
// A broken chain or a principal without accepted standing resolves to
// a not-found error, so non-members cannot distinguish "exists" from
// "hidden".
type scopeResolver struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	teamRepo    repository.TeamRepository
}

// resolveProject loads a project, its team and the actor's accepted
// membership. Missing pieces and non-membership all map to
// ErrProjectNotFound.
func (r scopeResolver) resolveProject(projectID, actorID uint64) (*models.Project, *models.Team, *models.TeamMembership, error) {
	project, err := r.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrProjectNotFound
		}
		return nil, nil, nil, fmt.Errorf("failed to find project: %w", err)
	}

	team, err := r.teamRepo.FindByID(project.TeamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrProjectNotFound
		}
		return nil, nil, nil, fmt.Errorf("failed to find team: %w", err)
	}

	membership, err := r.teamRepo.FindMembership(team.ID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrProjectNotFound
		}
		return nil, nil, nil, fmt.Errorf("failed to find membership: %w", err)
	}
	if !membership.IsAccepted() {
		return nil, nil, nil, ErrProjectNotFound
	}

	return project, team, membership, nil
}

// resolveTask loads a task with its full parent chain and the actor's
// accepted membership. Any missing link maps to ErrTaskNotFound.
func (r scopeResolver) resolveTask(taskID, actorID uint64) (*taskScope, error) {
	task, err := r.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	project, team, membership, err := r.resolveProject(task.ProjectID, actorID)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	return &taskScope{
		Task:       task,
		Project:    project,
		Team:       team,
		Membership: membership,
	}, nil
}
