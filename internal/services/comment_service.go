package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/yukikurage/project-management-api/internal/activity"
	"github.com/yukikurage/project-management-api/internal/authz"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/notify"
	"github.com/yukikurage/project-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound   = errors.New("comment not found")
	ErrEmptyCommentText  = errors.New("comment text cannot be empty")
	ErrParentTaskMismatch = errors.New("parent comment belongs to a different task")
	ErrNotCommentAuthor  = errors.New("only the author can modify this comment")
)

// CommentService provides business logic for threaded task comments.
type CommentService struct {
	scope       scopeResolver
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	dispatcher  *notify.Dispatcher
	recorder    *activity.Recorder
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, teamRepo repository.TeamRepository, userRepo repository.UserRepository, dispatcher *notify.Dispatcher, recorder *activity.Recorder) *CommentService {
	return &CommentService{
		scope:       scopeResolver{taskRepo: taskRepo, projectRepo: projectRepo, teamRepo: teamRepo},
		commentRepo: commentRepo,
		userRepo:    userRepo,
		dispatcher:  dispatcher,
		recorder:    recorder,
	}
}

// CreateComment posts a comment on a task, optionally as a reply. A
// reply's parent must be a comment on the very same task. The task's
// assignee, when distinct from the author, is notified.
func (s *CommentService) CreateComment(actorID, taskID uint64, text string, parentID *uint64) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyCommentText
	}

	scope, err := s.scope.resolveTask(taskID, actorID)
	if err != nil {
		return nil, err
	}
	task := scope.Task

	if parentID != nil {
		parent, err := s.commentRepo.FindByID(*parentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentTaskMismatch
			}
			return nil, fmt.Errorf("failed to find parent comment: %w", err)
		}
		if parent.TaskID != task.ID {
			return nil, ErrParentTaskMismatch
		}
	}

	comment := &models.Comment{
		Text:     text,
		TaskID:   task.ID,
		AuthorID: actorID,
		ParentID: parentID,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.recorder.Record(actorID, models.ActionCommented, models.TargetComment, comment.ID, task.Title, &task.ProjectID)

	if task.AssigneeID != nil && *task.AssigneeID != actorID {
		s.notifyAssignee(task, *task.AssigneeID)
	}

	return comment, nil
}

// ListComments returns the task's comments as a tree: top-level
// comments with replies nested under their parents, newest first on
// each level.
func (s *CommentService) ListComments(actorID, taskID uint64) ([]models.Comment, error) {
	scope, err := s.scope.resolveTask(taskID, actorID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByTask(scope.Task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return buildCommentTree(comments), nil
}

// UpdateComment edits a comment's text. Author only.
func (s *CommentService) UpdateComment(actorID, commentID uint64, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyCommentText
	}

	comment, scope, err := s.resolveComment(commentID, actorID)
	if err != nil {
		return nil, err
	}

	if !authz.CanUpdateComment(actorID, scope.Membership, authz.Comment(comment, scope.Task, scope.Project, scope.Team)) {
		return nil, ErrNotCommentAuthor
	}

	comment.Text = text
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return comment, nil
}

// DeleteComment removes a comment and its whole reply subtree. Author only.
func (s *CommentService) DeleteComment(actorID, commentID uint64) error {
	comment, scope, err := s.resolveComment(commentID, actorID)
	if err != nil {
		return err
	}

	if !authz.CanDeleteComment(actorID, scope.Membership, authz.Comment(comment, scope.Task, scope.Project, scope.Team)) {
		return ErrNotCommentAuthor
	}

	if err := s.commentRepo.DeleteWithReplies(comment); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}

func (s *CommentService) resolveComment(commentID, actorID uint64) (*models.Comment, *taskScope, error) {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCommentNotFound
		}
		return nil, nil, fmt.Errorf("failed to find comment: %w", err)
	}

	scope, err := s.scope.resolveTask(comment.TaskID, actorID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil, nil, ErrCommentNotFound
		}
		return nil, nil, err
	}

	return comment, scope, nil
}

func (s *CommentService) notifyAssignee(task *models.Task, assigneeID uint64) {
	assignee, err := s.userRepo.FindByID(assigneeID)
	if err != nil {
		log.Printf("comment: failed to load assignee %d for notification: %v", assigneeID, err)
		return
	}

	message := fmt.Sprintf("New comment on task: %s", task.Title)
	if err := s.dispatcher.Dispatch(assignee, notify.Input{
		Message: message,
		Type:    models.NotificationComment,
		Persist: true,
	}); err != nil {
		log.Printf("comment: failed to dispatch notification: %v", err)
	}
}

// buildCommentTree nests replies under their parents without recursing.
// Attaching in descending ID order completes every subtree before its
// root is copied upward, since a reply's ID is always greater than its
// parent's. Replies whose parent is gone are dropped.
func buildCommentTree(comments []models.Comment) []models.Comment {
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID > comments[j].ID })

	byID := make(map[uint64]*models.Comment, len(comments))
	for i := range comments {
		comments[i].Replies = nil
		byID[comments[i].ID] = &comments[i]
	}

	for i := range comments {
		c := &comments[i]
		if c.ParentID == nil {
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, *c)
		}
	}

	roots := []models.Comment{}
	for i := range comments {
		if comments[i].ParentID == nil {
			roots = append(roots, comments[i])
		}
	}
	return roots
}
