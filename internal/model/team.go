package model

import (
	"time"

	"github.com/google/uuid"
)

type Team struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Description string
	LeaderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	IsActive    bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`

	Leader User `gorm:"foreignKey:LeaderID"`
}

// TeamMembership links a user to a team. The leader is not stored as a
// membership row; Team.LeaderID is authoritative for leadership.
type TeamMembership struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TeamID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_team_member"`
	MemberID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_team_member"`
	JoinedAt time.Time `gorm:"autoCreateTime"`

	Team   Team `gorm:"foreignKey:TeamID"`
	Member User `gorm:"foreignKey:MemberID"`
}
