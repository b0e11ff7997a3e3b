package http

import (
	"github.com/flagwise/flagwise/pkg/domain/alert"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type listAlertsHandler struct {
	logger *logrus.Logger
	repo   alert.Repository
}

func NewListAlertsHandler(logger *logrus.Logger, repo alert.Repository) Handler {
	return &listAlertsHandler{
		logger: logger,
		repo:   repo,
	}
}

// Handle @Summary List alerts
// @Description Lists stored risk alerts, optionally filtered by chatbot
// @Tags Alerts
// @Produce json
// @Param chatbot_id query string false "Chatbot ID"
// @Param offset query int false "Pagination offset"
// @Param limit query int false "Page size"
// @Success 200 {array} alert.Alert "List of alerts"
// @Failure 400 {object} map[string]interface{} "Invalid filter"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/alerts [get]
func (s *listAlertsHandler) Handle(c *fiber.Ctx) error {
	var chatbotID *uuid.UUID
	if v := c.Query("chatbot_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid chatbot ID"})
		}
		chatbotID = &id
	}

	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)

	alerts, err := s.repo.List(c.Context(), chatbotID, offset, limit)
	if err != nil {
		s.logger.WithError(err).Error("failed to list alerts")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list alerts"})
	}

	return c.Status(fiber.StatusOK).JSON(alerts)
}
