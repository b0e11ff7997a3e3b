package alert

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Save(ctx context.Context, alert *Alert) error
	List(ctx context.Context, chatbotID *uuid.UUID, offset, limit int) ([]Alert, error)
}
