package http

import "github.com/gofiber/fiber/v2"

const ErrInvalidJsonPayload = "invalid JSON payload"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Monitoring
	MonitorConversationHandler Handler
	ListConversationsHandler   Handler
	ListAlertsHandler          Handler

	// Chatbot
	CreateChatbotHandler Handler
	ListChatbotsHandler  Handler
	GetChatbotHandler    Handler
	UpdateChatbotHandler Handler
	DeleteChatbotHandler Handler

	// Detection rule
	CreateRuleHandler Handler
	ListRulesHandler  Handler
	UpdateRuleHandler Handler
	DeleteRuleHandler Handler
}
