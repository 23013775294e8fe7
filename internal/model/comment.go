package model

import (
	"time"

	"github.com/google/uuid"
)

// Comment is immutable once created; there is no edit or delete.
type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null"`
	Body      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Task   Task `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Author User `gorm:"foreignKey:AuthorID"`
}
