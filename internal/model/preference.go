package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationPreference controls which notification kinds reach a user by
// email. EmailNotifications is the master switch; the in-app record is
// always created regardless.
type NotificationPreference struct {
	ID                  uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	EmailNotifications  bool      `gorm:"not null;default:true"`
	TaskAssigned        bool      `gorm:"not null;default:true"`
	StatusChanged       bool      `gorm:"not null;default:true"`
	CommentAdded        bool      `gorm:"not null;default:true"`
	DeadlineApproaching bool      `gorm:"not null;default:true"`
	TaskOverdue         bool      `gorm:"not null;default:true"`
	CreatedAt           time.Time `gorm:"autoCreateTime"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime"`

	User User `gorm:"foreignKey:UserID"`
}

// AllowsEmail reports whether an email may be sent for the given
// notification kind.
func (p *NotificationPreference) AllowsEmail(kind string) bool {
	if !p.EmailNotifications {
		return false
	}
	switch kind {
	case NotificationTaskAssigned:
		return p.TaskAssigned
	case NotificationStatusChanged:
		return p.StatusChanged
	case NotificationCommentAdded:
		return p.CommentAdded
	case NotificationDeadlineApproaching:
		return p.DeadlineApproaching
	case NotificationTaskOverdue:
		return p.TaskOverdue
	}
	return false
}
