package http

import (
	"github.com/flagwise/flagwise/pkg/domain/chatbot"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listChatbotsHandler struct {
	logger *logrus.Logger
	repo   chatbot.Repository
}

func NewListChatbotsHandler(logger *logrus.Logger, repo chatbot.Repository) Handler {
	return &listChatbotsHandler{
		logger: logger,
		repo:   repo,
	}
}

// Handle @Summary List chatbots
// @Description Lists registered chatbots
// @Tags Chatbots
// @Produce json
// @Param offset query int false "Pagination offset"
// @Param limit query int false "Page size"
// @Success 200 {array} chatbot.Chatbot "List of chatbots"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/chatbots [get]
func (s *listChatbotsHandler) Handle(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)

	chatbots, err := s.repo.List(c.Context(), offset, limit)
	if err != nil {
		s.logger.WithError(err).Error("failed to list chatbots")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list chatbots"})
	}

	return c.Status(fiber.StatusOK).JSON(chatbots)
}
