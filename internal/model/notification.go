package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification kinds.
const (
	NotificationTaskAssigned        = "task_assigned"
	NotificationStatusChanged       = "status_changed"
	NotificationCommentAdded        = "comment_added"
	NotificationDeadlineApproaching = "deadline_approaching"
	NotificationTaskOverdue         = "task_overdue"
)

// Notification is an in-app notification record. It is created by the
// dispatcher and mutated only by the recipient marking it read.
type Notification struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_recipient_read"`
	Kind        string    `gorm:"not null"`
	Message     string    `gorm:"not null"`
	TaskID      *uuid.UUID `gorm:"type:uuid;index:idx_notifications_task_kind"`
	IsRead      bool      `gorm:"not null;default:false;index:idx_notifications_recipient_read"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`

	Recipient User  `gorm:"foreignKey:RecipientID"`
	Task      *Task `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}
