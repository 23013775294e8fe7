package repository

import (
	"context"

	"teamtodo/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Create(ctx context.Context, attachment *model.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

func (r *AttachmentRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]model.Attachment, error) {
	var attachments []model.Attachment
	err := r.db.WithContext(ctx).
		Preload("Uploader").
		Where("task_id = ?", taskID).
		Order("uploaded_at DESC").
		Find(&attachments).Error
	return attachments, err
}
