package http

import (
	"github.com/flagwise/flagwise/pkg/domain"
	"github.com/flagwise/flagwise/pkg/domain/chatbot"
	"github.com/flagwise/flagwise/pkg/infra/cache"
	"github.com/flagwise/flagwise/pkg/infra/policy"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type deleteChatbotHandler struct {
	logger    *logrus.Logger
	repo      chatbot.Repository
	policies  policy.Store
	publisher cache.InvalidationPublisher
}

func NewDeleteChatbotHandler(
	logger *logrus.Logger,
	repo chatbot.Repository,
	policies policy.Store,
	publisher cache.InvalidationPublisher,
) Handler {
	return &deleteChatbotHandler{
		logger:    logger,
		repo:      repo,
		policies:  policies,
		publisher: publisher,
	}
}

// Handle @Summary Delete a chatbot
// @Description Removes a chatbot and invalidates its cached policy
// @Tags Chatbots
// @Produce json
// @Param chatbot_id path string true "Chatbot ID"
// @Success 204 "Chatbot deleted successfully"
// @Failure 404 {object} map[string]interface{} "Chatbot not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/chatbots/{chatbot_id} [delete]
func (s *deleteChatbotHandler) Handle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("chatbot_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid chatbot ID"})
	}

	if err := s.repo.Delete(c.Context(), id); err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "chatbot not found"})
		}
		s.logger.WithError(err).Error("failed to delete chatbot")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete chatbot"})
	}

	s.policies.Invalidate(c.Context(), id)
	if err := s.publisher.Publish(c.Context(), cache.InvalidationEvent{
		Type:     cache.ChatbotChangedEvent,
		EntityID: id.String(),
	}); err != nil {
		s.logger.WithError(err).Warn("failed to publish chatbot invalidation")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
