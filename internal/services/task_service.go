package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yukikurage/project-management-api/internal/activity"
	"github.com/yukikurage/project-management-api/internal/authz"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/notify"
	"github.com/yukikurage/project-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInvalidTaskTitle    = errors.New("task title cannot be empty")
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrInvalidTaskPriority = errors.New("invalid task priority")
	ErrDueDateInPast       = errors.New("due date cannot be in the past")
	ErrAssigneeNotMember   = errors.New("assignee must be an accepted team member")
	ErrCannotModifyTask    = errors.New("only the creator, assignee or a team admin can modify this task")
)

// TaskService provides business logic for tasks.
type TaskService struct {
	scope      scopeResolver
	taskRepo   repository.TaskRepository
	teamRepo   repository.TeamRepository
	userRepo   repository.UserRepository
	dispatcher *notify.Dispatcher
	recorder   *activity.Recorder
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, teamRepo repository.TeamRepository, userRepo repository.UserRepository, dispatcher *notify.Dispatcher, recorder *activity.Recorder) *TaskService {
	return &TaskService{
		scope:      scopeResolver{taskRepo: taskRepo, projectRepo: projectRepo, teamRepo: teamRepo},
		taskRepo:   taskRepo,
		teamRepo:   teamRepo,
		userRepo:   userRepo,
		dispatcher: dispatcher,
		recorder:   recorder,
	}
}

// CreateTaskInput holds the payload for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	AssigneeID  *uint64
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     time.Time
}

// CreateTask creates a task under a project the actor can see. The due
// date must not lie in the past, and the assignee, if given, must hold
// an accepted membership in the project's team.
func (s *TaskService) CreateTask(actorID, projectID uint64, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrInvalidTaskTitle
	}

	project, team, _, err := s.scope.resolveProject(projectID, actorID)
	if err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if !models.ValidTaskStatus(input.Status) {
		return nil, ErrInvalidTaskStatus
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !models.ValidTaskPriority(input.Priority) {
		return nil, ErrInvalidTaskPriority
	}
	if input.DueDate.Before(time.Now()) {
		return nil, ErrDueDateInPast
	}
	if err := s.checkAssignee(team.ID, input.AssigneeID); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		ProjectID:   project.ID,
		AssigneeID:  input.AssigneeID,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		CreatorID:   actorID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.recorder.Record(actorID, models.ActionCreated, models.TargetTask, task.ID, task.Title, &project.ID)

	if task.AssigneeID != nil && *task.AssigneeID != actorID {
		s.notifyAssignment(task, *task.AssigneeID)
	}

	return task, nil
}

// ListTasks returns a project's tasks matching the filter. The caller's
// visibility of the project has already been established here.
func (s *TaskService) ListTasks(actorID, projectID uint64, filter repository.TaskFilter) ([]models.Task, int64, error) {
	if _, _, _, err := s.scope.resolveProject(projectID, actorID); err != nil {
		return nil, 0, err
	}

	filter.ProjectID = projectID
	return s.taskRepo.List(filter)
}

// GetTask returns a task the actor can see, with relations preloaded.
func (s *TaskService) GetTask(actorID, taskID uint64) (*models.Task, error) {
	scope, err := s.scope.resolveTask(taskID, actorID)
	if err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindByID(scope.Task.ID, "Assignee", "Creator")
	if err != nil {
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	return task, nil
}

// UpdateTaskInput holds the mutable task fields. Nil fields are left
// unchanged; ClearAssignee removes the current assignee.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	AssigneeID    *uint64
	ClearAssignee bool
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	DueDate       *time.Time
}

// UpdateTask mutates a task. Allowed for the creator, the current
// assignee and team admins. Assigning the task to a new user sends
// that user an assignment notification.
func (s *TaskService) UpdateTask(actorID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	scope, err := s.scope.resolveTask(taskID, actorID)
	if err != nil {
		return nil, err
	}
	task := scope.Task

	if !authz.CanUpdateTask(actorID, scope.Membership, authz.Task(task, scope.Project, scope.Team)) {
		return nil, ErrCannotModifyTask
	}

	previousAssignee := task.AssigneeID

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrInvalidTaskTitle
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !models.ValidTaskStatus(*input.Status) {
			return nil, ErrInvalidTaskStatus
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !models.ValidTaskPriority(*input.Priority) {
			return nil, ErrInvalidTaskPriority
		}
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		if input.DueDate.Before(time.Now()) {
			return nil, ErrDueDateInPast
		}
		task.DueDate = *input.DueDate
	}
	if input.ClearAssignee {
		task.AssigneeID = nil
	} else if input.AssigneeID != nil {
		if err := s.checkAssignee(scope.Team.ID, input.AssigneeID); err != nil {
			return nil, err
		}
		task.AssigneeID = input.AssigneeID
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.recorder.Record(actorID, models.ActionUpdated, models.TargetTask, task.ID, task.Title, &task.ProjectID)

	if task.AssigneeID != nil && *task.AssigneeID != actorID &&
		(previousAssignee == nil || *previousAssignee != *task.AssigneeID) {
		s.notifyAssignment(task, *task.AssigneeID)
	}

	return task, nil
}

// DeleteTask removes a task together with its comments, files and time
// entries. Same rule as UpdateTask.
func (s *TaskService) DeleteTask(actorID, taskID uint64) error {
	scope, err := s.scope.resolveTask(taskID, actorID)
	if err != nil {
		return err
	}
	task := scope.Task

	if !authz.CanDeleteTask(actorID, scope.Membership, authz.Task(task, scope.Project, scope.Team)) {
		return ErrCannotModifyTask
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.recorder.Record(actorID, models.ActionDeleted, models.TargetTask, task.ID, task.Title, &task.ProjectID)

	return nil
}

// checkAssignee verifies that the candidate assignee is an accepted
// member of the team. A nil candidate always passes.
func (s *TaskService) checkAssignee(teamID uint64, assigneeID *uint64) error {
	if assigneeID == nil {
		return nil
	}

	membership, err := s.teamRepo.FindMembership(teamID, *assigneeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssigneeNotMember
		}
		return fmt.Errorf("failed to check assignee: %w", err)
	}
	if !membership.IsAccepted() {
		return ErrAssigneeNotMember
	}
	return nil
}

// notifyAssignment fans the assignment event out to the new assignee.
// The task mutation has already committed; a lost notification is
// logged, not surfaced.
func (s *TaskService) notifyAssignment(task *models.Task, assigneeID uint64) {
	assignee, err := s.userRepo.FindByID(assigneeID)
	if err != nil {
		log.Printf("task: failed to load assignee %d for notification: %v", assigneeID, err)
		return
	}

	message := fmt.Sprintf("New task assigned: %s", task.Title)
	if err := s.dispatcher.Dispatch(assignee, notify.Input{
		Message:      message,
		Type:         models.NotificationTask,
		EmailSubject: message,
		EmailBody:    fmt.Sprintf("You have been assigned the task '%s', due %s.", task.Title, task.DueDate.Format("2006-01-02")),
		Persist:      true,
	}); err != nil {
		log.Printf("task: failed to dispatch assignment notification: %v", err)
	}
}
