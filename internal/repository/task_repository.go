package repository

import (
	"context"
	"errors"
	"time"

	"teamtodo/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// TaskFilter narrows ListByTeam results. Zero values mean "no filter".
type TaskFilter struct {
	Status     string
	Priority   string
	AssigneeID *uuid.UUID
	Search     string
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// ListByTeam retrieves the team's tasks with optional filters applied.
func (r *TaskRepository) ListByTeam(ctx context.Context, teamID uuid.UUID, filter TaskFilter) ([]model.Task, error) {
	q := r.db.WithContext(ctx).
		Preload("Assignee").
		Preload("Creator").
		Where("team_id = ?", teamID)

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if filter.AssigneeID != nil {
		q = q.Where("assignee_id = ?", *filter.AssigneeID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var tasks []model.Task
	err := q.Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

// ListAssignedTo retrieves tasks assigned to the user across active teams.
func (r *TaskRepository) ListAssignedTo(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("Team").
		Joins("JOIN teams ON teams.id = tasks.team_id").
		Where("tasks.assignee_id = ? AND teams.is_active = ?", userID, true).
		Order("tasks.due_date").
		Find(&tasks).Error
	return tasks, err
}

// Update updates an existing task
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).Save(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes a task by its ID
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// ListDeadlineCandidates retrieves non-completed, assigned tasks whose due
// date falls before the horizon. Both due-soon and overdue tasks come back
// in one query; the scanner decides which side of "now" each one is on.
func (r *TaskRepository) ListDeadlineCandidates(ctx context.Context, horizon time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("Assignee").
		Preload("Team").
		Where("status <> ?", model.StatusCompleted).
		Where("assignee_id IS NOT NULL").
		Where("due_date IS NOT NULL AND due_date <= ?", horizon).
		Order("due_date").
		Find(&tasks).Error
	return tasks, err
}
