package http

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/flagwise/flagwise/pkg/domain/chatbot"
	chatbotMocks "github.com/flagwise/flagwise/pkg/domain/chatbot/mocks"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateChatbotHandler_DefaultsApplied(t *testing.T) {
	repo := new(chatbotMocks.Repository)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	handler := NewCreateChatbotHandler(logrus.New(), repo)
	app := fiber.New()
	app.Post("/api/v1/chatbots", handler.Handle)

	body, err := json.Marshal(map[string]interface{}{
		"name":     "support-bot",
		"provider": "openai",
		"model":    "gpt-4",
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/chatbots", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	saved, ok := repo.Calls[0].Arguments.Get(1).(*chatbot.Chatbot)
	require.True(t, ok)
	assert.True(t, saved.MonitoringEnabled)
	assert.True(t, saved.AlertOnRisk)
	assert.Equal(t, chatbot.DefaultRiskThreshold, saved.RiskThreshold)
	assert.Equal(t, chatbot.StatusActive, saved.Status)
}

func TestCreateChatbotHandler_InvalidProvider(t *testing.T) {
	repo := new(chatbotMocks.Repository)
	handler := NewCreateChatbotHandler(logrus.New(), repo)
	app := fiber.New()
	app.Post("/api/v1/chatbots", handler.Handle)

	body, err := json.Marshal(map[string]interface{}{
		"name":     "support-bot",
		"provider": "not-a-provider",
		"model":    "gpt-4",
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/chatbots", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCreateChatbotHandler_ThresholdOutOfRange(t *testing.T) {
	repo := new(chatbotMocks.Repository)
	handler := NewCreateChatbotHandler(logrus.New(), repo)
	app := fiber.New()
	app.Post("/api/v1/chatbots", handler.Handle)

	body, err := json.Marshal(map[string]interface{}{
		"name":           "support-bot",
		"provider":       "openai",
		"model":          "gpt-4",
		"risk_threshold": 150,
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/chatbots", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
