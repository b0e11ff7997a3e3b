package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/flagwise/flagwise/pkg/domain/rule"
	ruleMocks "github.com/flagwise/flagwise/pkg/domain/rule/mocks"
	"github.com/flagwise/flagwise/pkg/engine/ruleset"
	"github.com/flagwise/flagwise/pkg/infra/cache"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type publisherMock struct {
	mock.Mock
}

func (m *publisherMock) Publish(ctx context.Context, evt cache.InvalidationEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func TestCreateRuleHandler_Success(t *testing.T) {
	repo := new(ruleMocks.Repository)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)
	repo.On("ListEnabled", mock.Anything).Return([]rule.DetectionRule{}, nil)

	publisher := new(publisherMock)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	store := ruleset.NewStore(logrus.New(), repo)
	handler := NewCreateRuleHandler(logrus.New(), repo, store, publisher)

	app := fiber.New()
	app.Post("/api/v1/rules", handler.Handle)

	body, err := json.Marshal(map[string]interface{}{
		"name":     "ssn detector",
		"kind":     "regex",
		"category": "data_privacy",
		"severity": "always_flag",
		"weight":   80,
		"params":   map[string]interface{}{"pattern": `\d{3}-\d{2}-\d{4}`},
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/rules", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	repo.AssertCalled(t, "Save", mock.Anything, mock.Anything)
	publisher.AssertCalled(t, "Publish", mock.Anything, cache.InvalidationEvent{Type: cache.RulesChangedEvent})
}

func TestCreateRuleHandler_InvalidPattern(t *testing.T) {
	repo := new(ruleMocks.Repository)
	publisher := new(publisherMock)
	store := ruleset.NewStore(logrus.New(), repo)
	handler := NewCreateRuleHandler(logrus.New(), repo, store, publisher)

	app := fiber.New()
	app.Post("/api/v1/rules", handler.Handle)

	body, err := json.Marshal(map[string]interface{}{
		"name":   "broken",
		"kind":   "regex",
		"weight": 10,
		"params": map[string]interface{}{"pattern": "[unclosed"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/rules", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCreateRuleHandler_InvalidWeight(t *testing.T) {
	repo := new(ruleMocks.Repository)
	publisher := new(publisherMock)
	store := ruleset.NewStore(logrus.New(), repo)
	handler := NewCreateRuleHandler(logrus.New(), repo, store, publisher)

	app := fiber.New()
	app.Post("/api/v1/rules", handler.Handle)

	body, err := json.Marshal(map[string]interface{}{
		"name":   "too heavy",
		"kind":   "keyword",
		"weight": 150,
		"params": map[string]interface{}{"keywords": []string{"secret"}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/rules", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
