package conversation

import (
	"fmt"
	"time"

	"github.com/flagwise/flagwise/pkg/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation is one monitored prompt/response pair. The ingesting
// collaborator builds it; the engine only attaches the verdict fields
// (risk score, flagged flag, reason, matched rules).
type Conversation struct {
	ID             uuid.UUID           `json:"id" gorm:"type:uuid;primaryKey"`
	ChatbotID      uuid.UUID           `json:"chatbot_id" gorm:"type:uuid;index"`
	ConversationID string              `json:"conversation_id"`
	UserID         string              `json:"user_id"`
	Prompt         string              `json:"prompt"`
	Response       string              `json:"response"`
	Model          string              `json:"model"`
	Metadata       domain.MetadataJSON `json:"metadata" gorm:"type:jsonb"`
	RiskScore      int                 `json:"risk_score"`
	IsFlagged      bool                `json:"is_flagged"`
	FlagReason     *string             `json:"flag_reason"`
	MatchedRules   domain.RuleIDsJSON  `json:"matched_rules" gorm:"type:jsonb"`
	Timestamp      time.Time           `json:"timestamp"`
	CreatedAt      time.Time           `json:"created_at"`
}

func New(chatbotID uuid.UUID, conversationID, userID, prompt, response, model string, metadata map[string]interface{}) *Conversation {
	return &Conversation{
		ID:             uuid.New(),
		ChatbotID:      chatbotID,
		ConversationID: conversationID,
		UserID:         userID,
		Prompt:         prompt,
		Response:       response,
		Model:          model,
		Metadata:       metadata,
		Timestamp:      time.Now(),
	}
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	return c.Validate()
}

func (c *Conversation) Validate() error {
	if c.ChatbotID == uuid.Nil {
		return fmt.Errorf("chatbot_id is required")
	}
	if c.Prompt == "" && c.Response == "" {
		return fmt.Errorf("prompt or response is required")
	}
	return nil
}

func (c *Conversation) TableName() string {
	return "public.conversations"
}
