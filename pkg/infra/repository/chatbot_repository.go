package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/flagwise/flagwise/pkg/domain"
	"github.com/flagwise/flagwise/pkg/domain/chatbot"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type chatbotRepository struct {
	db *gorm.DB
}

func NewChatbotRepository(db *gorm.DB) chatbot.Repository {
	return &chatbotRepository{db: db}
}

func (r *chatbotRepository) Save(ctx context.Context, bot *chatbot.Chatbot) error {
	return r.db.WithContext(ctx).Create(bot).Error
}

func (r *chatbotRepository) Update(ctx context.Context, bot *chatbot.Chatbot) error {
	// Select("*") forces every column into the update so that pausing
	// monitoring or zeroing the risk threshold actually persists. The
	// counters are omitted: they only move through IncrementCounters and
	// an admin update must not clobber concurrent increments.
	result := r.db.WithContext(ctx).Model(bot).
		Select("*").
		Omit("total_conversations", "flagged_conversations", "created_at").
		Updates(bot)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("chatbot", bot.ID)
	}
	return nil
}

func (r *chatbotRepository) Get(ctx context.Context, id uuid.UUID) (*chatbot.Chatbot, error) {
	var entity chatbot.Chatbot
	err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("chatbot", id)
		}
		return nil, err
	}
	return &entity, nil
}

func (r *chatbotRepository) List(ctx context.Context, offset, limit int) ([]chatbot.Chatbot, error) {
	var bots []chatbot.Chatbot
	err := r.db.WithContext(ctx).Model(&chatbot.Chatbot{}).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&bots).Error
	return bots, err
}

func (r *chatbotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&chatbot.Chatbot{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("chatbot", id)
	}
	return nil
}

// IncrementCounters bumps the chatbot's monotonic conversation counters in
// a single SQL expression so concurrent evaluations of the same chatbot
// never lose updates.
func (r *chatbotRepository) IncrementCounters(ctx context.Context, id uuid.UUID, flagged bool) error {
	updates := map[string]interface{}{
		"total_conversations": gorm.Expr("total_conversations + 1"),
	}
	if flagged {
		updates["flagged_conversations"] = gorm.Expr("flagged_conversations + 1")
	}
	result := r.db.WithContext(ctx).Model(&chatbot.Chatbot{}).
		Where("id = ?", id).
		UpdateColumns(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to increment counters: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("chatbot", id)
	}
	return nil
}
