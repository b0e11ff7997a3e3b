package http

import (
	"strconv"

	"github.com/flagwise/flagwise/pkg/domain/conversation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type listConversationsHandler struct {
	logger *logrus.Logger
	repo   conversation.Repository
}

func NewListConversationsHandler(logger *logrus.Logger, repo conversation.Repository) Handler {
	return &listConversationsHandler{
		logger: logger,
		repo:   repo,
	}
}

// Handle @Summary List conversations
// @Description Lists evaluated conversations, optionally filtered by chatbot, flag state and risk score range
// @Tags Conversations
// @Produce json
// @Param chatbot_id query string false "Chatbot ID"
// @Param flagged query bool false "Only flagged or unflagged conversations"
// @Param min_risk_score query int false "Minimum risk score"
// @Param max_risk_score query int false "Maximum risk score"
// @Param offset query int false "Pagination offset"
// @Param limit query int false "Page size"
// @Success 200 {array} conversation.Conversation "List of conversations"
// @Failure 400 {object} map[string]interface{} "Invalid filter"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/conversations [get]
func (s *listConversationsHandler) Handle(c *fiber.Ctx) error {
	var filters conversation.Filters

	if v := c.Query("chatbot_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid chatbot ID"})
		}
		filters.ChatbotID = &id
	}
	if v := c.Query("flagged"); v != "" {
		flagged, err := strconv.ParseBool(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid flagged filter"})
		}
		filters.Flagged = &flagged
	}
	if v := c.Query("min_risk_score"); v != "" {
		score, err := strconv.Atoi(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid min_risk_score filter"})
		}
		filters.MinRiskScore = &score
	}
	if v := c.Query("max_risk_score"); v != "" {
		score, err := strconv.Atoi(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid max_risk_score filter"})
		}
		filters.MaxRiskScore = &score
	}

	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)

	conversations, err := s.repo.List(c.Context(), filters, offset, limit)
	if err != nil {
		s.logger.WithError(err).Error("failed to list conversations")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list conversations"})
	}

	return c.Status(fiber.StatusOK).JSON(conversations)
}
