package http

import (
	"github.com/flagwise/flagwise/pkg/domain"
	"github.com/flagwise/flagwise/pkg/domain/rule"
	"github.com/flagwise/flagwise/pkg/engine/ruleset"
	"github.com/flagwise/flagwise/pkg/infra/cache"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type deleteRuleHandler struct {
	logger    *logrus.Logger
	repo      rule.Repository
	rules     *ruleset.Store
	publisher cache.InvalidationPublisher
}

func NewDeleteRuleHandler(
	logger *logrus.Logger,
	repo rule.Repository,
	rules *ruleset.Store,
	publisher cache.InvalidationPublisher,
) Handler {
	return &deleteRuleHandler{
		logger:    logger,
		repo:      repo,
		rules:     rules,
		publisher: publisher,
	}
}

// Handle @Summary Delete a detection rule
// @Description Removes a detection rule and reloads the active rule set
// @Tags Rules
// @Produce json
// @Param rule_id path string true "Rule ID"
// @Success 204 "Rule deleted successfully"
// @Failure 404 {object} map[string]interface{} "Rule not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/rules/{rule_id} [delete]
func (s *deleteRuleHandler) Handle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("rule_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid rule ID"})
	}

	if err := s.repo.Delete(c.Context(), id); err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "rule not found"})
		}
		s.logger.WithError(err).Error("failed to delete rule")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete rule"})
	}

	if err := s.rules.Reload(c.Context()); err != nil {
		s.logger.WithError(err).Error("failed to reload rule set")
	}
	if err := s.publisher.Publish(c.Context(), cache.InvalidationEvent{Type: cache.RulesChangedEvent}); err != nil {
		s.logger.WithError(err).Warn("failed to publish rules invalidation")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
