package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/models"
)

func setupTimeFixture(t *testing.T) (*taskFixture, *TimeEntryService, *models.Task) {
	t.Helper()

	f := setupTaskFixture(t)
	svc := NewTimeEntryService(f.env.timeEntryRepo, f.env.taskRepo, f.env.projectRepo, f.env.teamRepo)

	task, err := f.svc.CreateTask(f.admin.ID, f.project.ID, CreateTaskInput{
		Title:   "Cutover",
		DueDate: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	return f, svc, task
}

func TestTimeEntryService_LogTime(t *testing.T) {
	f, svc, task := setupTimeFixture(t)
	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	entry, err := svc.LogTime(f.dev.ID, task.ID, day, 90, "pairing")
	require.NoError(t, err)
	require.EqualValues(t, 90, entry.Minutes)

	// One entry per user, task and date.
	_, err = svc.LogTime(f.dev.ID, task.ID, day, 30, "")
	require.ErrorIs(t, err, ErrDuplicateTimeEntry)

	// Another user on the same day is fine, as is the same user on
	// another day.
	_, err = svc.LogTime(f.admin.ID, task.ID, day, 30, "")
	require.NoError(t, err)
	_, err = svc.LogTime(f.dev.ID, task.ID, day.Add(24*time.Hour), 30, "")
	require.NoError(t, err)

	entries, err := svc.ListTimeEntries(f.admin.ID, task.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
}

func TestTimeEntryService_RejectsZeroMinutes(t *testing.T) {
	f, svc, task := setupTimeFixture(t)

	_, err := svc.LogTime(f.dev.ID, task.ID, time.Now(), 0, "")
	require.ErrorIs(t, err, ErrInvalidMinutes)
}

func TestTimeEntryService_NonMemberSeesNothing(t *testing.T) {
	f, svc, task := setupTimeFixture(t)
	outsider := f.env.createUser(t, "outsider@example.com")

	_, err := svc.LogTime(outsider.ID, task.ID, time.Now(), 30, "")
	require.ErrorIs(t, err, ErrTaskNotFound)
}
