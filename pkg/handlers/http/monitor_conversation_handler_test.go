package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flagwise/flagwise/pkg/domain"
	"github.com/flagwise/flagwise/pkg/domain/alert"
	"github.com/flagwise/flagwise/pkg/domain/chatbot"
	chatbotMocks "github.com/flagwise/flagwise/pkg/domain/chatbot/mocks"
	"github.com/flagwise/flagwise/pkg/domain/conversation"
	conversationMocks "github.com/flagwise/flagwise/pkg/domain/conversation/mocks"
	"github.com/flagwise/flagwise/pkg/domain/rule"
	ruleMocks "github.com/flagwise/flagwise/pkg/domain/rule/mocks"
	"github.com/flagwise/flagwise/pkg/engine/evaluator"
	"github.com/flagwise/flagwise/pkg/engine/pipeline"
	"github.com/flagwise/flagwise/pkg/engine/ruleset"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type policyProviderMock struct {
	mock.Mock
}

func (m *policyProviderMock) Snapshot(ctx context.Context, chatbotID uuid.UUID) (chatbot.Policy, error) {
	args := m.Called(ctx, chatbotID)
	policy, _ := args.Get(0).(chatbot.Policy)
	return policy, args.Error(1)
}

type dispatcherStub struct{}

func (dispatcherStub) Dispatch(evt *alert.Event) {}

func newTestPipeline(t *testing.T, policy chatbot.Policy, policyErr error, rules ...rule.DetectionRule) (*pipeline.Pipeline, *chatbotMocks.Repository) {
	t.Helper()
	ruleRepo := new(ruleMocks.Repository)
	ruleRepo.On("ListEnabled", mock.Anything).Return(rules, nil)
	store := ruleset.NewStore(logrus.New(), ruleRepo)
	require.NoError(t, store.Reload(context.Background()))

	policies := new(policyProviderMock)
	policies.On("Snapshot", mock.Anything, mock.Anything).Return(policy, policyErr)

	chatbotRepo := new(chatbotMocks.Repository)
	chatbotRepo.On("IncrementCounters", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	p := pipeline.New(logrus.New(), store, evaluator.New(logrus.New(), 0), policies, chatbotRepo, dispatcherStub{})
	return p, chatbotRepo
}

func TestMonitorConversationHandler_Flagged(t *testing.T) {
	chatbotID := uuid.New()
	policy := chatbot.Policy{ChatbotID: chatbotID, MonitoringEnabled: true, RiskThreshold: 70, AlertOnRisk: false}
	p, _ := newTestPipeline(t, policy, nil, rule.DetectionRule{
		ID:      uuid.New(),
		Name:    "ssn",
		Kind:    rule.KindRegex,
		Weight:  80,
		Enabled: true,
		Params:  map[string]interface{}{"pattern": `\d{3}-\d{2}-\d{4}`},
	})

	convRepo := new(conversationMocks.Repository)
	convRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	handler := NewMonitorConversationHandler(logrus.New(), p, convRepo)
	app := fiber.New()
	app.Post("/api/v1/chatbots/:chatbot_id/monitor", handler.Handle)

	body, err := json.Marshal(map[string]interface{}{
		"conversation_id": "c1",
		"user_id":         "u1",
		"prompt":          "my ssn is 123-45-6789",
		"model":           "gpt-4",
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/chatbots/"+chatbotID.String()+"/monitor", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, float64(80), payload["risk_score"])
	assert.Equal(t, true, payload["is_flagged"])

	convRepo.AssertCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMonitorConversationHandler_ClientTimestamp(t *testing.T) {
	chatbotID := uuid.New()
	policy := chatbot.Policy{ChatbotID: chatbotID, MonitoringEnabled: true, RiskThreshold: 70}
	p, _ := newTestPipeline(t, policy, nil)

	convRepo := new(conversationMocks.Repository)
	convRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	handler := NewMonitorConversationHandler(logrus.New(), p, convRepo)
	app := fiber.New()
	app.Post("/api/v1/chatbots/:chatbot_id/monitor", handler.Handle)

	sent := time.Date(2026, 8, 30, 14, 25, 0, 0, time.UTC)
	body, err := json.Marshal(map[string]interface{}{
		"conversation_id": "c1",
		"user_id":         "u1",
		"prompt":          "hello",
		"model":           "gpt-4",
		"timestamp":       sent.Format(time.RFC3339),
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/chatbots/"+chatbotID.String()+"/monitor", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	saved, ok := convRepo.Calls[0].Arguments.Get(1).(*conversation.Conversation)
	require.True(t, ok)
	assert.True(t, saved.Timestamp.Equal(sent))
}

func TestMonitorConversationHandler_UnknownChatbot(t *testing.T) {
	chatbotID := uuid.New()
	p, _ := newTestPipeline(t, chatbot.Policy{}, domain.NewNotFoundError("chatbot", chatbotID))

	convRepo := new(conversationMocks.Repository)
	handler := NewMonitorConversationHandler(logrus.New(), p, convRepo)
	app := fiber.New()
	app.Post("/api/v1/chatbots/:chatbot_id/monitor", handler.Handle)

	body, err := json.Marshal(map[string]interface{}{"prompt": "hello"})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/chatbots/"+chatbotID.String()+"/monitor", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	convRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMonitorConversationHandler_EmptyConversation(t *testing.T) {
	chatbotID := uuid.New()
	policy := chatbot.Policy{ChatbotID: chatbotID, MonitoringEnabled: true, RiskThreshold: 70}
	p, _ := newTestPipeline(t, policy, nil)

	handler := NewMonitorConversationHandler(logrus.New(), p, new(conversationMocks.Repository))
	app := fiber.New()
	app.Post("/api/v1/chatbots/:chatbot_id/monitor", handler.Handle)

	body, err := json.Marshal(map[string]interface{}{"model": "gpt-4"})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/chatbots/"+chatbotID.String()+"/monitor", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
