package http

import (
	"github.com/flagwise/flagwise/pkg/domain/rule"
	"github.com/flagwise/flagwise/pkg/engine/ruleset"
	"github.com/flagwise/flagwise/pkg/handlers/http/request"
	"github.com/flagwise/flagwise/pkg/infra/cache"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type createRuleHandler struct {
	logger    *logrus.Logger
	repo      rule.Repository
	rules     *ruleset.Store
	publisher cache.InvalidationPublisher
}

func NewCreateRuleHandler(
	logger *logrus.Logger,
	repo rule.Repository,
	rules *ruleset.Store,
	publisher cache.InvalidationPublisher,
) Handler {
	return &createRuleHandler{
		logger:    logger,
		repo:      repo,
		rules:     rules,
		publisher: publisher,
	}
}

// Handle @Summary Create a detection rule
// @Description Adds a new detection rule and reloads the active rule set
// @Tags Rules
// @Accept json
// @Produce json
// @Param rule body request.CreateRuleRequest true "Rule request body"
// @Success 201 {object} rule.DetectionRule "Rule created successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/rules [post]
func (s *createRuleHandler) Handle(c *fiber.Ctx) error {
	var req request.CreateRuleRequest
	if err := c.BodyParser(&req); err != nil {
		s.logger.WithError(err).Error("failed to bind request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}

	entity := &rule.DetectionRule{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Category:    rule.Category(req.Category),
		Kind:        rule.Kind(req.Kind),
		Params:      req.Params,
		Severity:    rule.Severity(req.Severity),
		Enabled:     true,
	}
	if req.Weight != nil {
		entity.Weight = *req.Weight
	}
	if req.Enabled != nil {
		entity.Enabled = *req.Enabled
	}

	if err := entity.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// Reject parameter mistakes at the API boundary rather than at the
	// next rule set reload.
	if _, err := ruleset.Compile(entity); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.repo.Save(c.Context(), entity); err != nil {
		s.logger.WithError(err).Error("failed to create rule")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create rule"})
	}

	s.reload(c)

	return c.Status(fiber.StatusCreated).JSON(entity)
}

func (s *createRuleHandler) reload(c *fiber.Ctx) {
	if err := s.rules.Reload(c.Context()); err != nil {
		s.logger.WithError(err).Error("failed to reload rule set")
	}
	if err := s.publisher.Publish(c.Context(), cache.InvalidationEvent{Type: cache.RulesChangedEvent}); err != nil {
		s.logger.WithError(err).Warn("failed to publish rules invalidation")
	}
}
