package http

import (
	"github.com/flagwise/flagwise/pkg/domain"
	"github.com/flagwise/flagwise/pkg/domain/conversation"
	"github.com/flagwise/flagwise/pkg/engine/pipeline"
	"github.com/flagwise/flagwise/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type monitorConversationHandler struct {
	logger   *logrus.Logger
	pipeline *pipeline.Pipeline
	repo     conversation.Repository
}

func NewMonitorConversationHandler(
	logger *logrus.Logger,
	p *pipeline.Pipeline,
	repo conversation.Repository,
) Handler {
	return &monitorConversationHandler{
		logger:   logger,
		pipeline: p,
		repo:     repo,
	}
}

// Handle @Summary Monitor a conversation
// @Description Evaluates a prompt/response pair against the active rule set and records the verdict
// @Tags Conversations
// @Accept json
// @Produce json
// @Param chatbot_id path string true "Chatbot ID"
// @Param conversation body request.MonitorConversationRequest true "Conversation to evaluate"
// @Success 200 {object} conversation.Conversation "Evaluated conversation"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 404 {object} map[string]interface{} "Chatbot not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/chatbots/{chatbot_id}/monitor [post]
func (s *monitorConversationHandler) Handle(c *fiber.Ctx) error {
	chatbotID, err := uuid.Parse(c.Params("chatbot_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid chatbot ID"})
	}

	var req request.MonitorConversationRequest
	if err := c.BodyParser(&req); err != nil {
		s.logger.WithError(err).Error("failed to bind request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}

	if req.Prompt == "" && req.Response == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "prompt or response is required"})
	}

	conv := conversation.New(chatbotID, req.ConversationID, req.UserID, req.Prompt, req.Response, req.Model, req.Metadata)
	if req.Timestamp != nil {
		conv.Timestamp = *req.Timestamp
	}

	verdict, err := s.pipeline.Evaluate(c.Context(), conv)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "chatbot not found"})
		}
		s.logger.WithError(err).Error("failed to evaluate conversation")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to evaluate conversation"})
	}

	if err := s.repo.Save(c.Context(), conv); err != nil {
		s.logger.WithError(err).Error("failed to store conversation")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store conversation"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id":            conv.ID,
		"chatbot_id":    conv.ChatbotID,
		"risk_score":    verdict.Score,
		"is_flagged":    verdict.Flagged,
		"flag_reason":   verdict.FlagReason,
		"matched_rules": verdict.MatchedRules,
	})
}
