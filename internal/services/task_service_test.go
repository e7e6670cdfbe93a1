package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/activity"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
)

type taskFixture struct {
	env     *serviceTestEnv
	svc     *TaskService
	admin   *models.User
	dev     *models.User
	team    *models.Team
	project *models.Project
}

func setupTaskFixture(t *testing.T) *taskFixture {
	t.Helper()

	env := setupServiceTestEnv(t)
	recorder := activity.NewRecorder(env.activityRepo)
	teamSvc := NewTeamService(env.teamRepo, env.userRepo, env.dispatcher, "http://localhost:3000")
	svc := NewTaskService(env.taskRepo, env.projectRepo, env.teamRepo, env.userRepo, env.dispatcher, recorder)

	admin := env.createUser(t, "admin@example.com")
	dev := env.createUser(t, "dev@example.com")

	team, err := teamSvc.CreateTeam("Platform", admin.ID)
	require.NoError(t, err)
	_, err = teamSvc.InviteMember(team.ID, admin.ID, dev.Email, models.RoleDeveloper)
	require.NoError(t, err)
	_, err = teamSvc.AcceptInvite(team.ID, dev.ID)
	require.NoError(t, err)

	project := &models.Project{Name: "Migration", TeamID: team.ID, CreatorID: admin.ID}
	require.NoError(t, env.db.Create(project).Error)

	return &taskFixture{
		env:     env,
		svc:     svc,
		admin:   admin,
		dev:     dev,
		team:    team,
		project: project,
	}
}

func TestTaskService_CreateTask(t *testing.T) {
	f := setupTaskFixture(t)

	task, err := f.svc.CreateTask(f.admin.ID, f.project.ID, CreateTaskInput{
		Title:   "Cutover",
		DueDate: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusTodo, task.Status)
	require.Equal(t, models.TaskPriorityMedium, task.Priority)

	// The mutation left an audit trail.
	entries, err := f.env.activityRepo.List(repository.ActivityFilter{ProjectID: &f.project.ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, models.ActionCreated, entries[0].Action)
	require.Equal(t, models.TargetTask, entries[0].TargetType)
	require.Equal(t, task.Title, entries[0].TargetRepr)
}

func listAll() repository.TaskFilter {
	return repository.TaskFilter{Page: 1, PageSize: 20}
}

func TestTaskService_DueDateCannotBeInPast(t *testing.T) {
	f := setupTaskFixture(t)

	_, err := f.svc.CreateTask(f.admin.ID, f.project.ID, CreateTaskInput{
		Title:   "Cutover",
		DueDate: time.Now().Add(-time.Hour),
	})
	require.ErrorIs(t, err, ErrDueDateInPast)
}

func TestTaskService_AssigneeMustBeAcceptedMember(t *testing.T) {
	f := setupTaskFixture(t)
	outsider := f.env.createUser(t, "outsider@example.com")

	_, err := f.svc.CreateTask(f.admin.ID, f.project.ID, CreateTaskInput{
		Title:      "Cutover",
		AssigneeID: &outsider.ID,
		DueDate:    time.Now().Add(48 * time.Hour),
	})
	require.ErrorIs(t, err, ErrAssigneeNotMember)
}

func TestTaskService_AssignmentNotifiesExactlyOnce(t *testing.T) {
	f := setupTaskFixture(t)

	_, err := f.svc.CreateTask(f.admin.ID, f.project.ID, CreateTaskInput{
		Title:      "Cutover",
		AssigneeID: &f.dev.ID,
		DueDate:    time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	require.EqualValues(t, 1, f.env.notificationCount(t, f.dev.ID))

	notifications, err := f.env.notificationRepo.ListByUser(f.dev.ID, 20)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, "New task assigned: Cutover", notifications[0].Message)
	require.Equal(t, models.NotificationTask, notifications[0].Type)
}

func TestTaskService_SelfAssignmentDoesNotNotify(t *testing.T) {
	f := setupTaskFixture(t)

	_, err := f.svc.CreateTask(f.dev.ID, f.project.ID, CreateTaskInput{
		Title:      "Cutover",
		AssigneeID: &f.dev.ID,
		DueDate:    time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	require.EqualValues(t, 0, f.env.notificationCount(t, f.dev.ID))
}

func TestTaskService_ReassignmentNotifiesNewAssigneeOnly(t *testing.T) {
	f := setupTaskFixture(t)

	task, err := f.svc.CreateTask(f.admin.ID, f.project.ID, CreateTaskInput{
		Title:   "Cutover",
		DueDate: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateTask(f.admin.ID, task.ID, UpdateTaskInput{AssigneeID: &f.dev.ID})
	require.NoError(t, err)
	require.EqualValues(t, 1, f.env.notificationCount(t, f.dev.ID))

	// Updating without changing the assignee stays quiet.
	title := "Cutover v2"
	_, err = f.svc.UpdateTask(f.admin.ID, task.ID, UpdateTaskInput{Title: &title})
	require.NoError(t, err)
	require.EqualValues(t, 1, f.env.notificationCount(t, f.dev.ID))
}

func TestTaskService_UpdateRequiresStanding(t *testing.T) {
	f := setupTaskFixture(t)
	bystander := f.env.createUser(t, "bystander@example.com")
	teamSvc := NewTeamService(f.env.teamRepo, f.env.userRepo, f.env.dispatcher, "http://localhost:3000")
	_, err := teamSvc.InviteMember(f.team.ID, f.admin.ID, bystander.Email, models.RoleDeveloper)
	require.NoError(t, err)
	_, err = teamSvc.AcceptInvite(f.team.ID, bystander.ID)
	require.NoError(t, err)

	task, err := f.svc.CreateTask(f.admin.ID, f.project.ID, CreateTaskInput{
		Title:      "Cutover",
		AssigneeID: &f.dev.ID,
		DueDate:    time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	// A plain member who is neither creator nor assignee cannot touch it.
	status := models.TaskStatusDone
	_, err = f.svc.UpdateTask(bystander.ID, task.ID, UpdateTaskInput{Status: &status})
	require.ErrorIs(t, err, ErrCannotModifyTask)

	// The assignee can.
	_, err = f.svc.UpdateTask(f.dev.ID, task.ID, UpdateTaskInput{Status: &status})
	require.NoError(t, err)
}

func TestTaskService_NonMemberSeesNothing(t *testing.T) {
	f := setupTaskFixture(t)
	outsider := f.env.createUser(t, "outsider@example.com")

	task, err := f.svc.CreateTask(f.admin.ID, f.project.ID, CreateTaskInput{
		Title:   "Cutover",
		DueDate: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	_, err = f.svc.GetTask(outsider.ID, task.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)

	_, _, err = f.svc.ListTasks(outsider.ID, f.project.ID, listAll())
	require.ErrorIs(t, err, ErrProjectNotFound)
}
