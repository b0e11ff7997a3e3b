package http

import (
	"github.com/flagwise/flagwise/pkg/domain"
	"github.com/flagwise/flagwise/pkg/domain/chatbot"
	"github.com/flagwise/flagwise/pkg/handlers/http/request"
	"github.com/flagwise/flagwise/pkg/infra/cache"
	"github.com/flagwise/flagwise/pkg/infra/policy"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type updateChatbotHandler struct {
	logger    *logrus.Logger
	repo      chatbot.Repository
	policies  policy.Store
	publisher cache.InvalidationPublisher
}

func NewUpdateChatbotHandler(
	logger *logrus.Logger,
	repo chatbot.Repository,
	policies policy.Store,
	publisher cache.InvalidationPublisher,
) Handler {
	return &updateChatbotHandler{
		logger:    logger,
		repo:      repo,
		policies:  policies,
		publisher: publisher,
	}
}

// Handle @Summary Update a chatbot
// @Description Updates a chatbot's metadata or risk policy and invalidates its cached policy
// @Tags Chatbots
// @Accept json
// @Produce json
// @Param chatbot_id path string true "Chatbot ID"
// @Param chatbot body request.UpdateChatbotRequest true "Chatbot request body"
// @Success 200 {object} chatbot.Chatbot "Chatbot updated successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 404 {object} map[string]interface{} "Chatbot not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/chatbots/{chatbot_id} [put]
func (s *updateChatbotHandler) Handle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("chatbot_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid chatbot ID"})
	}

	var req request.UpdateChatbotRequest
	if err := c.BodyParser(&req); err != nil {
		s.logger.WithError(err).Error("failed to bind request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}

	entity, err := s.repo.Get(c.Context(), id)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "chatbot not found"})
		}
		s.logger.WithError(err).Error("failed to get chatbot")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get chatbot"})
	}

	if req.Name != nil {
		entity.Name = *req.Name
	}
	if req.Description != nil {
		entity.Description = *req.Description
	}
	if req.CompanyName != nil {
		entity.CompanyName = *req.CompanyName
	}
	if req.Provider != nil {
		entity.Provider = chatbot.Provider(*req.Provider)
	}
	if req.Model != nil {
		entity.Model = *req.Model
	}
	if req.EndpointURL != nil {
		entity.EndpointURL = *req.EndpointURL
	}
	if req.Status != nil {
		entity.Status = chatbot.Status(*req.Status)
	}
	if req.MonitoringEnabled != nil {
		entity.MonitoringEnabled = *req.MonitoringEnabled
	}
	if req.RiskThreshold != nil {
		entity.RiskThreshold = *req.RiskThreshold
	}
	if req.AlertOnRisk != nil {
		entity.AlertOnRisk = *req.AlertOnRisk
	}

	if err := entity.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.repo.Update(c.Context(), entity); err != nil {
		s.logger.WithError(err).Error("failed to update chatbot")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update chatbot"})
	}

	s.policies.Invalidate(c.Context(), id)
	if err := s.publisher.Publish(c.Context(), cache.InvalidationEvent{
		Type:     cache.ChatbotChangedEvent,
		EntityID: id.String(),
	}); err != nil {
		s.logger.WithError(err).Warn("failed to publish chatbot invalidation")
	}

	return c.Status(fiber.StatusOK).JSON(entity)
}
