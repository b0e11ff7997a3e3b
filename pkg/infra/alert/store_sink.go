package alert

import (
	"context"
	"fmt"

	"github.com/flagwise/flagwise/pkg/domain/alert"
)

// storeSink persists every dispatched event as an alert row so operators
// can acknowledge and resolve it later.
type storeSink struct {
	repo alert.Repository
}

func NewStoreSink(repo alert.Repository) Sink {
	return &storeSink{repo: repo}
}

func (s *storeSink) Name() string {
	return "store"
}

func (s *storeSink) Deliver(ctx context.Context, evt *alert.Event) error {
	if err := s.repo.Save(ctx, alert.FromEvent(evt)); err != nil {
		return fmt.Errorf("failed to persist alert: %w", err)
	}
	return nil
}
