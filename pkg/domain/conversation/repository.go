package conversation

import (
	"context"

	"github.com/google/uuid"
)

type Filters struct {
	ChatbotID    *uuid.UUID
	Flagged      *bool
	MinRiskScore *int
	MaxRiskScore *int
}

type Repository interface {
	Save(ctx context.Context, conv *Conversation) error
	Get(ctx context.Context, id uuid.UUID) (*Conversation, error)
	List(ctx context.Context, filters Filters, offset, limit int) ([]Conversation, error)
}
