package repository

import (
	"context"

	"teamtodo/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create appends an audit row. Activity rows are never updated or deleted.
func (r *ActivityRepository) Create(ctx context.Context, activity *model.TaskActivity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *ActivityRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]model.TaskActivity, error) {
	var activities []model.TaskActivity
	err := r.db.WithContext(ctx).
		Preload("Actor").
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&activities).Error
	return activities, err
}
