package chatbot

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Save(ctx context.Context, chatbot *Chatbot) error
	Update(ctx context.Context, chatbot *Chatbot) error
	Get(ctx context.Context, id uuid.UUID) (*Chatbot, error)
	List(ctx context.Context, offset, limit int) ([]Chatbot, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementCounters(ctx context.Context, id uuid.UUID, flagged bool) error
}
