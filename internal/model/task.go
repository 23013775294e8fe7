package model

import (
	"time"

	"github.com/google/uuid"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task statuses. Any status may move to any other; completed is terminal
// only in the sense that the deadline scanner ignores completed tasks.
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusReview     = "review"
	StatusCompleted  = "completed"
)

// ValidStatus reports whether s is one of the four task statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusReview, StatusCompleted:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the three task priorities.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TeamID      uuid.UUID `gorm:"type:uuid;not null;index:idx_tasks_team_status"`
	Title       string    `gorm:"not null"`
	Description string
	Priority    string     `gorm:"not null;default:'medium';index"`
	Status      string     `gorm:"not null;default:'not_started';index:idx_tasks_team_status"`
	DueDate     *time.Time `gorm:"index"`
	AssigneeID  *uuid.UUID `gorm:"type:uuid;index"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null"`
	Tags        string
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`

	Team     Team `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	Assignee User `gorm:"foreignKey:AssigneeID"`
	Creator  User `gorm:"foreignKey:CreatedBy"`
}

// IsOverdue reports whether the task's due date has passed and the task is
// not completed.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != StatusCompleted
}
