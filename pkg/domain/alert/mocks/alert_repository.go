package mocks

import (
	"context"

	"github.com/flagwise/flagwise/pkg/domain/alert"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) Save(ctx context.Context, entity *alert.Alert) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *Repository) List(ctx context.Context, chatbotID *uuid.UUID, offset, limit int) ([]alert.Alert, error) {
	args := m.Called(ctx, chatbotID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	entities, _ := args.Get(0).([]alert.Alert)
	return entities, args.Error(1)
}
