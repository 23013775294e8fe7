// Package policy contains the role-gate checks applied before mutating
// operations. Every function is a pure predicate over the actor, their
// relationship to the target, and the target entity; no database access and
// no side effects.
package policy

import (
	"teamtodo/internal/model"
)

// IsElevated reports whether the role may create teams and tasks at all.
func IsElevated(role string) bool {
	return role == model.RoleAdmin || role == model.RoleTeamLeader
}

// CanManageTeam reports whether the actor may edit the team, manage its
// membership, or delete it. Admins may manage any team; leaders only teams
// they lead.
func CanManageTeam(actor *model.User, team *model.Team) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.IsTeamLeader() && team.LeaderID == actor.ID
}

// CanCreateTask reports whether the actor may create tasks in the team.
func CanCreateTask(actor *model.User, team *model.Team) bool {
	return CanManageTeam(actor, team)
}

// CanAssign reports whether the actor may change the task assignee within
// the team. Members never assign.
func CanAssign(actor *model.User, team *model.Team) bool {
	return CanManageTeam(actor, team)
}

// CanChangeStatus reports whether the actor may change the task's status:
// the assignee, the team's leader, or an admin.
func CanChangeStatus(actor *model.User, task *model.Task, team *model.Team) bool {
	if actor.IsAdmin() || team.LeaderID == actor.ID {
		return true
	}
	return task.AssigneeID != nil && *task.AssigneeID == actor.ID
}

// CanComment reports whether the actor may comment on tasks in the team.
// isMember is the caller-resolved membership of the actor in the team.
func CanComment(actor *model.User, team *model.Team, isMember bool) bool {
	if actor.IsAdmin() || team.LeaderID == actor.ID {
		return true
	}
	return isMember
}

// CanViewTeam reports whether the actor may read the team and its tasks.
func CanViewTeam(actor *model.User, team *model.Team, isMember bool) bool {
	return CanComment(actor, team, isMember)
}

// CanEditTask reports whether the actor may edit the task's descriptive
// fields: its creator, the team's leader, or an admin.
func CanEditTask(actor *model.User, task *model.Task, team *model.Team) bool {
	return CanManageTeam(actor, team) || task.CreatedBy == actor.ID
}

// CanDeleteTask reports whether the actor may delete the task: its creator
// or an admin.
func CanDeleteTask(actor *model.User, task *model.Task) bool {
	return actor.IsAdmin() || task.CreatedBy == actor.ID
}

// CanViewAnalytics reports whether the actor may view the team's analytics
// dashboard.
func CanViewAnalytics(actor *model.User, team *model.Team) bool {
	return CanManageTeam(actor, team)
}
