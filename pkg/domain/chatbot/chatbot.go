package chatbot

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogle    Provider = "google"
	ProviderMeta      Provider = "meta"
	ProviderCustom    Provider = "custom"
	ProviderOther     Provider = "other"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

const DefaultRiskThreshold = 70

// Chatbot is a registered conversation source. The monitoring engine only
// reads the policy subset (threshold, monitoring/alert flags); the rest is
// administrative metadata.
type Chatbot struct {
	ID                   uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	CompanyName          string    `json:"company_name"`
	Provider             Provider  `json:"provider"`
	Model                string    `json:"model"`
	EndpointURL          string    `json:"endpoint_url"`
	APIKeyHash           string    `json:"api_key_hash"`
	Status               Status    `json:"status"`
	MonitoringEnabled    bool      `json:"monitoring_enabled"`
	RiskThreshold        int       `json:"risk_threshold"`
	AlertOnRisk          bool      `json:"alert_on_risk"`
	TotalConversations   int64     `json:"total_conversations"`
	FlaggedConversations int64     `json:"flagged_conversations"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (c *Chatbot) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	return c.Validate()
}

func (c *Chatbot) BeforeUpdate(tx *gorm.DB) error {
	c.UpdatedAt = time.Now()
	return c.Validate()
}

func (c *Chatbot) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	switch c.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderGoogle, ProviderMeta, ProviderCustom, ProviderOther:
	default:
		return fmt.Errorf("invalid provider: %s", c.Provider)
	}
	if c.Status == "" {
		c.Status = StatusActive
	}
	if c.RiskThreshold < 0 || c.RiskThreshold > 100 {
		return fmt.Errorf("risk_threshold must be between 0 and 100, got %d", c.RiskThreshold)
	}
	return nil
}

func (c *Chatbot) TableName() string {
	return "public.chatbots"
}

// Policy is the immutable per-evaluation view of a chatbot's risk settings.
// Copied by value so concurrent administrative edits never partially apply
// within one evaluation.
type Policy struct {
	ChatbotID         uuid.UUID `json:"chatbot_id"`
	MonitoringEnabled bool      `json:"monitoring_enabled"`
	RiskThreshold     int       `json:"risk_threshold"`
	AlertOnRisk       bool      `json:"alert_on_risk"`
}

func (c *Chatbot) PolicySnapshot() Policy {
	return Policy{
		ChatbotID:         c.ID,
		MonitoringEnabled: c.MonitoringEnabled,
		RiskThreshold:     c.RiskThreshold,
		AlertOnRisk:       c.AlertOnRisk,
	}
}
