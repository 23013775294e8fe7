package model

import (
	"time"

	"github.com/google/uuid"
)

type Attachment struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TaskID     uuid.UUID `gorm:"type:uuid;not null;index"`
	UploadedBy uuid.UUID `gorm:"type:uuid;not null"`
	FileName   string    `gorm:"not null"`
	StoredPath string    `gorm:"not null"`
	UploadedAt time.Time `gorm:"autoCreateTime"`

	Task     Task `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Uploader User `gorm:"foreignKey:UploadedBy"`
}
