package mocks

import (
	"context"

	"github.com/flagwise/flagwise/pkg/domain/rule"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) Save(ctx context.Context, entity *rule.DetectionRule) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *Repository) Update(ctx context.Context, entity *rule.DetectionRule) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *Repository) Get(ctx context.Context, id uuid.UUID) (*rule.DetectionRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	entity, _ := args.Get(0).(*rule.DetectionRule)
	return entity, args.Error(1)
}

func (m *Repository) List(ctx context.Context, offset, limit int) ([]rule.DetectionRule, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	entities, _ := args.Get(0).([]rule.DetectionRule)
	return entities, args.Error(1)
}

func (m *Repository) ListEnabled(ctx context.Context) ([]rule.DetectionRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	entities, _ := args.Get(0).([]rule.DetectionRule)
	return entities, args.Error(1)
}

func (m *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
