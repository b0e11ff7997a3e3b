package mocks

import (
	"context"

	"github.com/flagwise/flagwise/pkg/domain/conversation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) Save(ctx context.Context, conv *conversation.Conversation) error {
	args := m.Called(ctx, conv)
	return args.Error(0)
}

func (m *Repository) Get(ctx context.Context, id uuid.UUID) (*conversation.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	conv, _ := args.Get(0).(*conversation.Conversation)
	return conv, args.Error(1)
}

func (m *Repository) List(ctx context.Context, filters conversation.Filters, offset, limit int) ([]conversation.Conversation, error) {
	args := m.Called(ctx, filters, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	conversations, _ := args.Get(0).([]conversation.Conversation)
	return conversations, args.Error(1)
}
