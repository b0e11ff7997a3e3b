package repository

import (
	"context"
	"errors"

	"github.com/flagwise/flagwise/pkg/domain"
	"github.com/flagwise/flagwise/pkg/domain/conversation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) conversation.Repository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Save(ctx context.Context, conv *conversation.Conversation) error {
	return r.db.WithContext(ctx).Create(conv).Error
}

func (r *conversationRepository) Get(ctx context.Context, id uuid.UUID) (*conversation.Conversation, error) {
	var entity conversation.Conversation
	err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("conversation", id)
		}
		return nil, err
	}
	return &entity, nil
}

func (r *conversationRepository) List(
	ctx context.Context,
	filters conversation.Filters,
	offset, limit int,
) ([]conversation.Conversation, error) {
	query := r.db.WithContext(ctx).Model(&conversation.Conversation{})
	if filters.ChatbotID != nil {
		query = query.Where("chatbot_id = ?", *filters.ChatbotID)
	}
	if filters.Flagged != nil {
		query = query.Where("is_flagged = ?", *filters.Flagged)
	}
	if filters.MinRiskScore != nil {
		query = query.Where("risk_score >= ?", *filters.MinRiskScore)
	}
	if filters.MaxRiskScore != nil {
		query = query.Where("risk_score <= ?", *filters.MaxRiskScore)
	}

	var conversations []conversation.Conversation
	err := query.Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&conversations).Error
	return conversations, err
}
