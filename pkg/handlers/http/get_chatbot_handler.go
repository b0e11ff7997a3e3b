package http

import (
	"github.com/flagwise/flagwise/pkg/domain"
	"github.com/flagwise/flagwise/pkg/domain/chatbot"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type getChatbotHandler struct {
	logger *logrus.Logger
	repo   chatbot.Repository
}

func NewGetChatbotHandler(logger *logrus.Logger, repo chatbot.Repository) Handler {
	return &getChatbotHandler{
		logger: logger,
		repo:   repo,
	}
}

// Handle @Summary Get a chatbot
// @Description Retrieves a chatbot with its risk policy and counters
// @Tags Chatbots
// @Produce json
// @Param chatbot_id path string true "Chatbot ID"
// @Success 200 {object} chatbot.Chatbot "Chatbot"
// @Failure 404 {object} map[string]interface{} "Chatbot not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/chatbots/{chatbot_id} [get]
func (s *getChatbotHandler) Handle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("chatbot_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid chatbot ID"})
	}

	entity, err := s.repo.Get(c.Context(), id)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "chatbot not found"})
		}
		s.logger.WithError(err).Error("failed to get chatbot")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get chatbot"})
	}

	return c.Status(fiber.StatusOK).JSON(entity)
}
