package repository

import (
	"context"
	"errors"

	"teamtodo/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Create(ctx context.Context, team *model.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

func (r *TeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Team, error) {
	var team model.Team
	result := r.db.WithContext(ctx).Preload("Leader").First(&team, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, result.Error
	}
	return &team, nil
}

func (r *TeamRepository) Update(ctx context.Context, team *model.Team) error {
	result := r.db.WithContext(ctx).Save(team)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTeamNotFound
	}
	return nil
}

// Delete removes the team. Tasks, comments, attachments, notifications, and
// activity rows cascade at the database level.
func (r *TeamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Team{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTeamNotFound
	}
	return nil
}

// ListForUser returns active teams the user leads or belongs to. Admins see
// everything via ListAll instead.
func (r *TeamRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Team, error) {
	var teams []model.Team
	err := r.db.WithContext(ctx).
		Distinct("teams.*").
		Joins("LEFT JOIN team_memberships ON team_memberships.team_id = teams.id").
		Where("teams.is_active = ?", true).
		Where("teams.leader_id = ? OR team_memberships.member_id = ?", userID, userID).
		Find(&teams).Error
	return teams, err
}

func (r *TeamRepository) ListAll(ctx context.Context) ([]model.Team, error) {
	var teams []model.Team
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&teams).Error
	return teams, err
}

func (r *TeamRepository) AddMember(ctx context.Context, teamID, memberID uuid.UUID) error {
	membership := model.TeamMembership{
		ID:       uuid.New(),
		TeamID:   teamID,
		MemberID: memberID,
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.TeamMembership
		err := tx.Where("team_id = ? AND member_id = ?", teamID, memberID).First(&existing).Error
		if err == nil {
			return nil // already a member
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&membership).Error
	})
}

func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, memberID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("team_id = ? AND member_id = ?", teamID, memberID).
		Delete(&model.TeamMembership{}).Error
}

// IsMember reports whether the user belongs to the team, the leader
// included.
func (r *TeamRepository) IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	var team model.Team
	err := r.db.WithContext(ctx).
		Where("id = ? AND leader_id = ?", teamID, userID).
		First(&team).Error
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	var count int64
	err = r.db.WithContext(ctx).Model(&model.TeamMembership{}).
		Where("team_id = ? AND member_id = ?", teamID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *TeamRepository) ListMembers(ctx context.Context, teamID uuid.UUID) ([]model.TeamMembership, error) {
	var members []model.TeamMembership
	err := r.db.WithContext(ctx).
		Preload("Member").
		Where("team_id = ?", teamID).
		Order("joined_at").
		Find(&members).Error
	return members, err
}
