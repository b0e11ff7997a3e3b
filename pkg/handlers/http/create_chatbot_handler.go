package http

import (
	"github.com/flagwise/flagwise/pkg/domain/chatbot"
	"github.com/flagwise/flagwise/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type createChatbotHandler struct {
	logger *logrus.Logger
	repo   chatbot.Repository
}

func NewCreateChatbotHandler(logger *logrus.Logger, repo chatbot.Repository) Handler {
	return &createChatbotHandler{
		logger: logger,
		repo:   repo,
	}
}

// Handle @Summary Register a chatbot
// @Description Registers a new monitored chatbot with its risk policy
// @Tags Chatbots
// @Accept json
// @Produce json
// @Param chatbot body request.CreateChatbotRequest true "Chatbot request body"
// @Success 201 {object} chatbot.Chatbot "Chatbot created successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/chatbots [post]
func (s *createChatbotHandler) Handle(c *fiber.Ctx) error {
	var req request.CreateChatbotRequest
	if err := c.BodyParser(&req); err != nil {
		s.logger.WithError(err).Error("failed to bind request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}

	entity := &chatbot.Chatbot{
		ID:                uuid.New(),
		Name:              req.Name,
		Description:       req.Description,
		CompanyName:       req.CompanyName,
		Provider:          chatbot.Provider(req.Provider),
		Model:             req.Model,
		EndpointURL:       req.EndpointURL,
		Status:            chatbot.StatusActive,
		MonitoringEnabled: true,
		RiskThreshold:     chatbot.DefaultRiskThreshold,
		AlertOnRisk:       true,
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

	if err := s.repo.Save(c.Context(), entity); err != nil {
		s.logger.WithError(err).Error("failed to create chatbot")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create chatbot"})
	}

	return c.Status(fiber.StatusCreated).JSON(entity)
}
