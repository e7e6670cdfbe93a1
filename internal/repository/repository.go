package repository

import (
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(email string) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// CreateResetToken stores a password reset token
	CreateResetToken(token *models.PasswordResetToken) error

	// FindResetToken finds a reset token by its value
	FindResetToken(token string) (*models.PasswordResetToken, error)

	// DeleteResetToken removes a reset token after use or expiry
	DeleteResetToken(id uint64) error
}

// TeamRepository defines the interface for team and membership data
// access. It is the single source of truth for membership state.
type TeamRepository interface {
	// CreateWithAdmin creates a team and its creator's accepted admin
	// membership within a single transaction.
	CreateWithAdmin(team *models.Team, creatorID uint64) error

	// FindByID finds a team by ID
	FindByID(id uint64) (*models.Team, error)

	// FindByName finds a team by its unique name
	FindByName(name string) (*models.Team, error)

	// Update updates a team
	Update(team *models.Team) error

	// Delete deletes a team and cascades to memberships, projects,
	// tasks, comments, files and time entries.
	Delete(id uint64) error

	// AddMember inserts a membership. A second insert for the same
	// (team, user) pair fails with ErrDuplicateMembership.
	AddMember(member *models.TeamMembership) error

	// FindMembership finds the membership for a (team, user) pair
	// regardless of status.
	FindMembership(teamID, userID uint64) (*models.TeamMembership, error)

	// UpdateMembership persists a role or status change
	UpdateMembership(member *models.TeamMembership) error

	// RemoveMember deletes the membership for a (team, user) pair
	RemoveMember(teamID, userID uint64) error

	// ListMembers lists memberships of a team, optionally restricted
	// to accepted ones.
	ListMembers(teamID uint64, acceptedOnly bool) ([]models.TeamMembership, error)

	// ListMembershipsByUser lists a user's memberships, optionally
	// restricted to accepted ones.
	ListMembershipsByUser(userID uint64, acceptedOnly bool) ([]models.TeamMembership, error)

	// IsAdmin reports whether the user holds an accepted admin
	// membership in the team.
	IsAdmin(teamID, userID uint64) (bool, error)

	// AcceptedTeamIDs returns the IDs of teams the user is an accepted
	// member of.
	AcceptedTeamIDs(userID uint64) ([]uint64, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// FindByName finds a project by its unique name
	FindByName(name string) (*models.Project, error)

	// List retrieves projects within the given teams
	List(filter ProjectFilter) ([]models.Project, int64, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete deletes a project and cascades to its tasks
	Delete(id uint64) error
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	TeamIDs   []uint64
	CreatorID *uint64
	Page      int
	PageSize  int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task and its comments, files and time entries
	Delete(id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID     uint64
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	AssigneeID    *uint64
	DueDateFrom   *time.Time
	DueDateTo     *time.Time
	SortByDueDate bool
	Page          int
	PageSize      int
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// FindByID finds a comment by ID
	FindByID(id uint64) (*models.Comment, error)

	// ListByTask lists all comments of a task, newest first, with
	// authors preloaded.
	ListByTask(taskID uint64) ([]models.Comment, error)

	// Update updates a comment
	Update(comment *models.Comment) error

	// DeleteWithReplies deletes a comment and its whole reply subtree
	DeleteWithReplies(comment *models.Comment) error
}

// TaskFileRepository defines the interface for attachment metadata access
type TaskFileRepository interface {
	// Create stores attachment metadata
	Create(file *models.TaskFile) error

	// FindByID finds attachment metadata by ID
	FindByID(id uint64) (*models.TaskFile, error)

	// ListByTask lists a task's attachments, newest first
	ListByTask(taskID uint64) ([]models.TaskFile, error)

	// Delete removes attachment metadata
	Delete(id uint64) error
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// Create persists a notification
	Create(notification *models.Notification) error

	// ListByUser lists the user's latest notifications, newest first
	ListByUser(userID uint64, limit int) ([]models.Notification, error)

	// FindByIDForUser finds a notification owned by the given user
	FindByIDForUser(id, userID uint64) (*models.Notification, error)

	// MarkRead flags a notification as read
	MarkRead(notification *models.Notification) error
}

// ActivityRepository defines the interface for the append-only activity log
type ActivityRepository interface {
	// Create appends an activity record
	Create(entry *models.ActivityLog) error

	// List retrieves activity records, most recent first
	List(filter ActivityFilter) ([]models.ActivityLog, error)
}

// ActivityFilter holds filtering options for listing activity records
type ActivityFilter struct {
	UserID     *uint64
	ProjectID  *uint64
	TargetType *models.ActivityTarget
	Page       int
	PageSize   int
}

// TimeEntryRepository defines the interface for time tracking data access
type TimeEntryRepository interface {
	// Create inserts a time entry. A second entry for the same
	// (user, task, date) fails with ErrDuplicateTimeEntry.
	Create(entry *models.TimeEntry) error

	// ListByTask lists a task's time entries, newest date first
	ListByTask(taskID uint64) ([]models.TimeEntry, error)
}
