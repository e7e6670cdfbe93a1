package dto

import (
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
)

// CommentDTO represents a comment with its nested replies
type CommentDTO struct {
	ID        uint64       `json:"id"`
	Text      string       `json:"text"`
	TaskID    uint64       `json:"task_id"`
	AuthorID  uint64       `json:"author_id"`
	ParentID  *uint64      `json:"parent_id"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Author    *UserDTO     `json:"author,omitempty"`
	Replies   []CommentDTO `json:"replies"`
}

// TaskFileDTO represents attachment metadata in API responses
type TaskFileDTO struct {
	ID         uint64    `json:"id"`
	TaskID     uint64    `json:"task_id"`
	UploaderID uint64    `json:"uploader_id"`
	FileName   string    `json:"file_name"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// NotificationDTO represents a notification in API responses
type NotificationDTO struct {
	ID        uint64                  `json:"id"`
	Message   string                  `json:"message"`
	Type      models.NotificationType `json:"type"`
	IsRead    bool                    `json:"is_read"`
	CreatedAt time.Time               `json:"created_at"`
}

// ActivityDTO represents an activity log entry in API responses
type ActivityDTO struct {
	ID         uint64                `json:"id"`
	UserID     uint64                `json:"user_id"`
	Action     models.ActivityAction `json:"action"`
	TargetType models.ActivityTarget `json:"target_type"`
	TargetID   uint64                `json:"target_id"`
	TargetRepr string                `json:"target_repr"`
	ProjectID  *uint64               `json:"project_id"`
	Timestamp  time.Time             `json:"timestamp"`
}

// TimeEntryDTO represents a time entry in API responses
type TimeEntryDTO struct {
	ID      uint64 `json:"id"`
	UserID  uint64 `json:"user_id"`
	TaskID  uint64 `json:"task_id"`
	Date    string `json:"date"`
	Minutes uint   `json:"minutes"`
	Note    string `json:"note"`
}

// Conversion functions

// ToCommentDTO converts a comment and its reply subtree
func ToCommentDTO(comment models.Comment) CommentDTO {
	dto := CommentDTO{
		ID:        comment.ID,
		Text:      comment.Text,
		TaskID:    comment.TaskID,
		AuthorID:  comment.AuthorID,
		ParentID:  comment.ParentID,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
		Replies:   make([]CommentDTO, 0, len(comment.Replies)),
	}

	if comment.Author.ID != 0 {
		author := ToUserDTO(comment.Author)
		dto.Author = &author
	}

	for _, reply := range comment.Replies {
		dto.Replies = append(dto.Replies, ToCommentDTO(reply))
	}

	return dto
}

// ToCommentTreeDTO converts a slice of top-level comments
func ToCommentTreeDTO(comments []models.Comment) []CommentDTO {
	tree := make([]CommentDTO, len(comments))
	for i, comment := range comments {
		tree[i] = ToCommentDTO(comment)
	}
	return tree
}

// ToTaskFileDTO converts a TaskFile model to TaskFileDTO
func ToTaskFileDTO(file models.TaskFile) TaskFileDTO {
	return TaskFileDTO{
		ID:         file.ID,
		TaskID:     file.TaskID,
		UploaderID: file.UploaderID,
		FileName:   file.FileName,
		Size:       file.Size,
		UploadedAt: file.CreatedAt,
	}
}

// ToNotificationDTO converts a Notification model to NotificationDTO
func ToNotificationDTO(notification models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        notification.ID,
		Message:   notification.Message,
		Type:      notification.Type,
		IsRead:    notification.IsRead,
		CreatedAt: notification.CreatedAt,
	}
}

// ToActivityDTO converts an ActivityLog model to ActivityDTO
func ToActivityDTO(entry models.ActivityLog) ActivityDTO {
	return ActivityDTO{
		ID:         entry.ID,
		UserID:     entry.UserID,
		Action:     entry.Action,
		TargetType: entry.TargetType,
		TargetID:   entry.TargetID,
		TargetRepr: entry.TargetRepr,
		ProjectID:  entry.ProjectID,
		Timestamp:  entry.CreatedAt,
	}
}

// ToTimeEntryDTO converts a TimeEntry model to TimeEntryDTO
func ToTimeEntryDTO(entry models.TimeEntry) TimeEntryDTO {
	return TimeEntryDTO{
		ID:      entry.ID,
		UserID:  entry.UserID,
		TaskID:  entry.TaskID,
		Date:    entry.Date.Format("2006-01-02"),
		Minutes: entry.Minutes,
		Note:    entry.Note,
	}
}
