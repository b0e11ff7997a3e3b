package rule

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Save(ctx context.Context, rule *DetectionRule) error
	Update(ctx context.Context, rule *DetectionRule) error
	Get(ctx context.Context, id uuid.UUID) (*DetectionRule, error)
	List(ctx context.Context, offset, limit int) ([]DetectionRule, error)
	ListEnabled(ctx context.Context) ([]DetectionRule, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
