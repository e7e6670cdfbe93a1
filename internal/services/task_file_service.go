package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/project-management-api/internal/authz"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskFileNotFound = errors.New("file not found")
	ErrEmptyFileName    = errors.New("file name cannot be empty")
	ErrFileTooLarge     = errors.New("file exceeds the maximum allowed size")
	ErrNotFileUploader  = errors.New("only the uploader can delete this file")
)

// TaskFileService provides business logic for attachment metadata.
// Only metadata is managed here; blob storage lives elsewhere.
type TaskFileService struct {
	scope    scopeResolver
	fileRepo repository.TaskFileRepository
}

// NewTaskFileService creates a new TaskFileService.
func NewTaskFileService(fileRepo repository.TaskFileRepository, taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, teamRepo repository.TeamRepository) *TaskFileService {
	return &TaskFileService{
		scope:    scopeResolver{taskRepo: taskRepo, projectRepo: projectRepo, teamRepo: teamRepo},
		fileRepo: fileRepo,
	}
}

// AttachFile records attachment metadata on a task. Files above
// models.MaxTaskFileSize are rejected; equal names on the same task
// coexist.
func (s *TaskFileService) AttachFile(actorID, taskID uint64, fileName string, size int64) (*models.TaskFile, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, ErrEmptyFileName
	}
	if size > models.MaxTaskFileSize {
		return nil, ErrFileTooLarge
	}

	scope, err := s.scope.resolveTask(taskID, actorID)
	if err != nil {
		return nil, err
	}

	file := &models.TaskFile{
		TaskID:     scope.Task.ID,
		UploaderID: actorID,
		FileName:   fileName,
		Size:       size,
	}

	if err := s.fileRepo.Create(file); err != nil {
		return nil, fmt.Errorf("failed to store file metadata: %w", err)
	}

	return file, nil
}

// ListFiles returns a task's attachments, newest first.
func (s *TaskFileService) ListFiles(actorID, taskID uint64) ([]models.TaskFile, error) {
	scope, err := s.scope.resolveTask(taskID, actorID)
	if err != nil {
		return nil, err
	}

	files, err := s.fileRepo.ListByTask(scope.Task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}

// DeleteFile removes attachment metadata. Uploader only.
func (s *TaskFileService) DeleteFile(actorID, fileID uint64) error {
	file, err := s.fileRepo.FindByID(fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskFileNotFound
		}
		return fmt.Errorf("failed to find file: %w", err)
	}

	scope, err := s.scope.resolveTask(file.TaskID, actorID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return ErrTaskFileNotFound
		}
		return err
	}

	if !authz.CanDeleteTaskFile(actorID, scope.Membership, authz.TaskFile(file, scope.Task, scope.Project, scope.Team)) {
		return ErrNotFileUploader
	}

	if err := s.fileRepo.Delete(file.ID); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}
