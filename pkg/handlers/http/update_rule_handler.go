package http

import (
	"github.com/flagwise/flagwise/pkg/domain"
	"github.com/flagwise/flagwise/pkg/domain/rule"
	"github.com/flagwise/flagwise/pkg/engine/ruleset"
	"github.com/flagwise/flagwise/pkg/handlers/http/request"
	"github.com/flagwise/flagwise/pkg/infra/cache"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type updateRuleHandler struct {
	logger    *logrus.Logger
	repo      rule.Repository
	rules     *ruleset.Store
	publisher cache.InvalidationPublisher
}

func NewUpdateRuleHandler(
	logger *logrus.Logger,
	repo rule.Repository,
	rules *ruleset.Store,
	publisher cache.InvalidationPublisher,
) Handler {
	return &updateRuleHandler{
		logger:    logger,
		repo:      repo,
		rules:     rules,
		publisher: publisher,
	}
}

// Handle @Summary Update a detection rule
// @Description Updates a detection rule and reloads the active rule set
// @Tags Rules
// @Accept json
// @Produce json
// @Param rule_id path string true "Rule ID"
// @Param rule body request.UpdateRuleRequest true "Rule request body"
// @Success 200 {object} rule.DetectionRule "Rule updated successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 404 {object} map[string]interface{} "Rule not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/rules/{rule_id} [put]
func (s *updateRuleHandler) Handle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("rule_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid rule ID"})
	}

	var req request.UpdateRuleRequest
	if err := c.BodyParser(&req); err != nil {
		s.logger.WithError(err).Error("failed to bind request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}

	entity, err := s.repo.Get(c.Context(), id)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "rule not found"})
		}
		s.logger.WithError(err).Error("failed to get rule")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get rule"})
	}

	if req.Name != nil {
		entity.Name = *req.Name
	}
	if req.Description != nil {
		entity.Description = *req.Description
	}
	if req.Kind != nil {
		entity.Kind = rule.Kind(*req.Kind)
	}
	if req.Category != nil {
		entity.Category = rule.Category(*req.Category)
	}
	if req.Severity != nil {
		entity.Severity = rule.Severity(*req.Severity)
	}
	if req.Weight != nil {
		entity.Weight = *req.Weight
	}
	if req.Enabled != nil {
		entity.Enabled = *req.Enabled
	}
	if req.Params != nil {
		entity.Params = req.Params
	}

	if err := entity.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if _, err := ruleset.Compile(entity); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.repo.Update(c.Context(), entity); err != nil {
		s.logger.WithError(err).Error("failed to update rule")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update rule"})
	}

	if err := s.rules.Reload(c.Context()); err != nil {
		s.logger.WithError(err).Error("failed to reload rule set")
	}
	if err := s.publisher.Publish(c.Context(), cache.InvalidationEvent{Type: cache.RulesChangedEvent}); err != nil {
		s.logger.WithError(err).Warn("failed to publish rules invalidation")
	}

	return c.Status(fiber.StatusOK).JSON(entity)
}
