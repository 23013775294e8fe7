package service

import "errors"

// Domain errors surfaced to the request layer. Email delivery failures are
// deliberately absent: the dispatcher logs and swallows them.
var (
	// ErrPermissionDenied is returned when the actor's role or team
	// relationship does not allow the operation
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidTransition is returned when the requested status is not one
	// of the task status values
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidPriority is returned when the requested priority is not one
	// of the task priority values
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrNotATeamMember is returned when assigning a task to a user outside
	// the task's team
	ErrNotATeamMember = errors.New("user is not a member of the team")

	// ErrEmptyContent is returned when a comment body is blank
	ErrEmptyContent = errors.New("content must not be empty")

	// ErrInvalidRole is returned when assigning an unknown role to a user
	ErrInvalidRole = errors.New("invalid role")

	// ErrLeaderCannotLeave is returned when a team leader tries to leave or
	// be removed from their own team
	ErrLeaderCannotLeave = errors.New("team leader cannot leave the team")
)
