package repository

import (
	"context"
	"errors"

	"teamtodo/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

type UserRepositoryInterface interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role string) error
	GetPreferences(ctx context.Context, userID uuid.UUID) (*model.NotificationPreference, error)
	SavePreferences(ctx context.Context, pref *model.NotificationPreference) error
}

var _ UserRepositoryInterface = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user together with a default notification preference
// row, so every user has one from the start.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		pref := &model.NotificationPreference{
			ID:                  uuid.New(),
			UserID:              user.ID,
			EmailNotifications:  true,
			TaskAssigned:        true,
			StatusChanged:       true,
			CommentAdded:        true,
			DeadlineApproaching: true,
			TaskOverdue:         true,
		}
		return tx.Create(pref).Error
	})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *UserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetPreferences returns the user's notification preferences. A missing row
// falls back to everything-enabled defaults rather than an error.
func (r *UserRepository) GetPreferences(ctx context.Context, userID uuid.UUID) (*model.NotificationPreference, error) {
	var pref model.NotificationPreference
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.NotificationPreference{
			UserID:              userID,
			EmailNotifications:  true,
			TaskAssigned:        true,
			StatusChanged:       true,
			CommentAdded:        true,
			DeadlineApproaching: true,
			TaskOverdue:         true,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

func (r *UserRepository) SavePreferences(ctx context.Context, pref *model.NotificationPreference) error {
	return r.db.WithContext(ctx).Save(pref).Error
}
