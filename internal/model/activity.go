package model

import (
	"time"

	"github.com/google/uuid"
)

// Task activity kinds.
const (
	ActivityCreated         = "created"
	ActivityStatusChanged   = "status_changed"
	ActivityPriorityChanged = "priority_changed"
	ActivityAssigned        = "assigned"
	ActivityCommented       = "commented"
	ActivityAttachmentAdded = "attachment_added"
	ActivityEdited          = "edited"
	ActivityDeleted         = "deleted"
)

// TaskActivity is an append-only audit row. Rows are never updated or
// deleted by the application.
type TaskActivity struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TaskID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ActorID     uuid.UUID `gorm:"type:uuid;not null"`
	Kind        string    `gorm:"not null;index"`
	Description string    `gorm:"not null"`
	OldValue    string
	NewValue    string
	CreatedAt   time.Time `gorm:"autoCreateTime"`

	Task  Task `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Actor User `gorm:"foreignKey:ActorID"`
}
