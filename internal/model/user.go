package model

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Admins manage everything, team leaders manage the teams they
// lead, team members act only on tasks assigned to them.
const (
	RoleAdmin      = "admin"
	RoleTeamLeader = "team_leader"
	RoleTeamMember = "team_member"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Email          string    `gorm:"uniqueIndex;not null"`
	HashedPassword string    `gorm:"not null"`
	Name           string    `gorm:"not null"`
	Role           string    `gorm:"not null;default:'team_member';index;check:role IN ('admin', 'team_leader', 'team_member')"`
	IsActive       bool      `gorm:"not null;default:true"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsTeamLeader() bool {
	return u.Role == RoleTeamLeader
}
