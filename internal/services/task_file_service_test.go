package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/models"
)

func setupFileFixture(t *testing.T) (*taskFixture, *TaskFileService, *models.Task) {
	t.Helper()

	f := setupTaskFixture(t)
	svc := NewTaskFileService(f.env.fileRepo, f.env.taskRepo, f.env.projectRepo, f.env.teamRepo)

	task, err := f.svc.CreateTask(f.admin.ID, f.project.ID, CreateTaskInput{
		Title:   "Cutover",
		DueDate: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	return f, svc, task
}

func TestTaskFileService_AttachFile(t *testing.T) {
	f, svc, task := setupFileFixture(t)

	file, err := svc.AttachFile(f.dev.ID, task.ID, "runbook.pdf", 1024)
	require.NoError(t, err)
	require.Equal(t, f.dev.ID, file.UploaderID)

	// Same name on the same task is a second, independent record.
	_, err = svc.AttachFile(f.admin.ID, task.ID, "runbook.pdf", 2048)
	require.NoError(t, err)

	files, err := svc.ListFiles(f.admin.ID, task.ID)
	require.NoError(t, err)
	require.Len(t, files, 2)
}

func TestTaskFileService_SizeCap(t *testing.T) {
	f, svc, task := setupFileFixture(t)

	_, err := svc.AttachFile(f.dev.ID, task.ID, "dump.bin", models.MaxTaskFileSize+1)
	require.ErrorIs(t, err, ErrFileTooLarge)

	// Exactly at the cap is allowed.
	_, err = svc.AttachFile(f.dev.ID, task.ID, "dump.bin", models.MaxTaskFileSize)
	require.NoError(t, err)
}

func TestTaskFileService_OnlyUploaderDeletes(t *testing.T) {
	f, svc, task := setupFileFixture(t)

	file, err := svc.AttachFile(f.dev.ID, task.ID, "runbook.pdf", 1024)
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeleteFile(f.admin.ID, file.ID), ErrNotFileUploader)
	require.NoError(t, svc.DeleteFile(f.dev.ID, file.ID))

	files, err := svc.ListFiles(f.dev.ID, task.ID)
	require.NoError(t, err)
	require.Empty(t, files)
}
