// Package authz holds the authorization decisions for team-scoped
// resources. Every function is a pure predicate over the principal's
// membership snapshot and a resource snapshot; callers fetch both and
// never re-derive rules elsewhere.
package authz

import "github.com/yukikurage/project-management-api/internal/models"

// ResourceKind identifies which kind of resource a snapshot describes.
type ResourceKind string

const (
	KindTeam     ResourceKind = "team"
	KindProject  ResourceKind = "project"
	KindTask     ResourceKind = "task"
	KindComment  ResourceKind = "comment"
	KindTaskFile ResourceKind = "task_file"
)

// Resource is a snapshot of a resource and its resolved parent chain.
// If any parent up to the owning team was missing when the snapshot was
// built, the resource is unresolved and every decision denies.
type Resource struct {
	Kind       ResourceKind
	teamID     uint64
	resolved   bool
	creatorID  uint64
	assigneeID *uint64
	ownerID    uint64 // comment author / file uploader
}

// TeamID returns the owning team of the resource. Only meaningful when
// the parent chain resolved.
func (r Resource) TeamID() uint64 {
	return r.teamID
}

// Resolved reports whether the full parent chain existed.
func (r Resource) Resolved() bool {
	return r.resolved
}

// Team builds a snapshot for a team itself.
func Team(team *models.Team) Resource {
	if team == nil {
		return Resource{Kind: KindTeam}
	}
	return Resource{Kind: KindTeam, teamID: team.ID, resolved: true, creatorID: team.CreatorID}
}

// Project builds a snapshot for a project. A nil team marks the chain broken.
func Project(project *models.Project, team *models.Team) Resource {
	if project == nil || team == nil {
		return Resource{Kind: KindProject}
	}
	return Resource{Kind: KindProject, teamID: team.ID, resolved: true, creatorID: project.CreatorID}
}

// Task builds a snapshot for a task under its project and team.
func Task(task *models.Task, project *models.Project, team *models.Team) Resource {
	if task == nil || project == nil || team == nil {
		return Resource{Kind: KindTask}
	}
	return Resource{
		Kind:       KindTask,
		teamID:     team.ID,
		resolved:   true,
		creatorID:  task.CreatorID,
		assigneeID: task.AssigneeID,
	}
}

// Comment builds a snapshot for a comment under its task, project and team.
func Comment(comment *models.Comment, task *models.Task, project *models.Project, team *models.Team) Resource {
	if comment == nil || task == nil || project == nil || team == nil {
		return Resource{Kind: KindComment}
	}
	return Resource{Kind: KindComment, teamID: team.ID, resolved: true, ownerID: comment.AuthorID}
}

// TaskFile builds a snapshot for an attachment under its task, project and team.
func TaskFile(file *models.TaskFile, task *models.Task, project *models.Project, team *models.Team) Resource {
	if file == nil || task == nil || project == nil || team == nil {
		return Resource{Kind: KindTaskFile}
	}
	return Resource{Kind: KindTaskFile, teamID: team.ID, resolved: true, ownerID: file.UploaderID}
}

// accepted reports whether the membership grants any team standing.
// Pending and declined memberships grant nothing.
func accepted(m *models.TeamMembership) bool {
	return m != nil && m.Status == models.StatusAccepted
}

func isAdmin(m *models.TeamMembership) bool {
	return accepted(m) && m.Role == models.RoleAdmin
}

// CanView decides visibility for any team-scoped resource: the
// principal needs an accepted membership in the resource's team, and
// the parent chain must have resolved.
func CanView(m *models.TeamMembership, r Resource) bool {
	return r.resolved && accepted(m)
}

// CanCreateInTeam decides whether the principal may create projects,
// tasks, comments or files inside the team: any accepted member may.
func CanCreateInTeam(m *models.TeamMembership) bool {
	return accepted(m)
}

// CanUpdateTeam decides team mutation (rename): accepted admins only.
func CanUpdateTeam(m *models.TeamMembership, r Resource) bool {
	return r.resolved && r.Kind == KindTeam && isAdmin(m)
}

// CanDeleteTeam decides team deletion: accepted admins only.
func CanDeleteTeam(m *models.TeamMembership, r Resource) bool {
	return r.resolved && r.Kind == KindTeam && isAdmin(m)
}

// CanManageMembers decides invite, role change and removal: accepted
// admins only.
func CanManageMembers(m *models.TeamMembership, r Resource) bool {
	return r.resolved && r.Kind == KindTeam && isAdmin(m)
}

// CanUpdateProject decides project mutation: accepted admins only.
func CanUpdateProject(m *models.TeamMembership, r Resource) bool {
	return r.resolved && r.Kind == KindProject && isAdmin(m)
}

// CanDeleteProject decides project deletion: accepted admins only.
func CanDeleteProject(m *models.TeamMembership, r Resource) bool {
	return r.resolved && r.Kind == KindProject && isAdmin(m)
}

// CanUpdateTask decides task mutation: the creator or the current
// assignee, plus accepted admins.
func CanUpdateTask(principalID uint64, m *models.TeamMembership, r Resource) bool {
	if !r.resolved || r.Kind != KindTask || !accepted(m) {
		return false
	}
	if isAdmin(m) || r.creatorID == principalID {
		return true
	}
	return r.assigneeID != nil && *r.assigneeID == principalID
}

// CanDeleteTask follows the same rule as CanUpdateTask.
func CanDeleteTask(principalID uint64, m *models.TeamMembership, r Resource) bool {
	return CanUpdateTask(principalID, m, r)
}

// CanUpdateComment decides comment edits: the author only.
func CanUpdateComment(principalID uint64, m *models.TeamMembership, r Resource) bool {
	return r.resolved && r.Kind == KindComment && accepted(m) && r.ownerID == principalID
}

// CanDeleteComment follows the same ownership rule as CanUpdateComment.
func CanDeleteComment(principalID uint64, m *models.TeamMembership, r Resource) bool {
	return r.resolved && r.Kind == KindComment && accepted(m) && r.ownerID == principalID
}

// CanDeleteTaskFile decides attachment removal: the uploader only.
func CanDeleteTaskFile(principalID uint64, m *models.TeamMembership, r Resource) bool {
	return r.resolved && r.Kind == KindTaskFile && accepted(m) && r.ownerID == principalID
}
