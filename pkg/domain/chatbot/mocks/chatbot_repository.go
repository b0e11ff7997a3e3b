package mocks

import (
	"context"

	"github.com/flagwise/flagwise/pkg/domain/chatbot"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) Save(ctx context.Context, entity *chatbot.Chatbot) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *Repository) Update(ctx context.Context, entity *chatbot.Chatbot) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *Repository) Get(ctx context.Context, id uuid.UUID) (*chatbot.Chatbot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	entity, _ := args.Get(0).(*chatbot.Chatbot)
	return entity, args.Error(1)
}

func (m *Repository) List(ctx context.Context, offset, limit int) ([]chatbot.Chatbot, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	entities, _ := args.Get(0).([]chatbot.Chatbot)
	return entities, args.Error(1)
}

func (m *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Repository) IncrementCounters(ctx context.Context, id uuid.UUID, flagged bool) error {
	args := m.Called(ctx, id, flagged)
	return args.Error(0)
}
