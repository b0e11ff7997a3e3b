package repository

import (
	"context"

	"github.com/flagwise/flagwise/pkg/domain/alert"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type alertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) alert.Repository {
	return &alertRepository{db: db}
}

func (r *alertRepository) Save(ctx context.Context, entity *alert.Alert) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

func (r *alertRepository) List(ctx context.Context, chatbotID *uuid.UUID, offset, limit int) ([]alert.Alert, error) {
	query := r.db.WithContext(ctx).Model(&alert.Alert{})
	if chatbotID != nil {
		query = query.Where("chatbot_id = ?", *chatbotID)
	}
	var alerts []alert.Alert
	err := query.Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&alerts).Error
	return alerts, err
}
