package http

import (
	"github.com/flagwise/flagwise/pkg/domain/rule"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listRulesHandler struct {
	logger *logrus.Logger
	repo   rule.Repository
}

func NewListRulesHandler(logger *logrus.Logger, repo rule.Repository) Handler {
	return &listRulesHandler{
		logger: logger,
		repo:   repo,
	}
}

// Handle @Summary List detection rules
// @Description Lists configured detection rules
// @Tags Rules
// @Produce json
// @Param offset query int false "Pagination offset"
// @Param limit query int false "Page size"
// @Success 200 {array} rule.DetectionRule "List of rules"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/rules [get]
func (s *listRulesHandler) Handle(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)

	rules, err := s.repo.List(c.Context(), offset, limit)
	if err != nil {
		s.logger.WithError(err).Error("failed to list rules")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list rules"})
	}

	return c.Status(fiber.StatusOK).JSON(rules)
}
