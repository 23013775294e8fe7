package repository

import "errors"

// Common repository errors
var (
	// ErrTeamNotFound is returned when a team is not found
	ErrTeamNotFound = errors.New("team not found")

	// ErrTaskNotFound is returned when a task is not found
	ErrTaskNotFound = errors.New("task not found")

	// ErrNotificationNotFound is returned when a notification is not found
	// or does not belong to the requesting recipient
	ErrNotificationNotFound = errors.New("notification not found")
)
