package alert

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// SeverityForScore maps a risk score to an alert severity band.
func SeverityForScore(score int) Severity {
	switch {
	case score >= 90:
		return SeverityCritical
	case score >= 75:
		return SeverityHigh
	case score >= 50:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

type Status string

const (
	StatusNew          Status = "new"
	StatusAcknowledged Status = "acknowledged"
	StatusResolved     Status = "resolved"
)

// Event is the outbound message produced for a flagged conversation on a
// chatbot with alert_on_risk enabled. Delivery guarantees belong to the
// downstream sinks, not to the evaluation pipeline.
type Event struct {
	ID             uuid.UUID `json:"id"`
	ChatbotID      uuid.UUID `json:"chatbot_id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	Score          int       `json:"score"`
	Severity       Severity  `json:"severity"`
	Reason         string    `json:"reason"`
	Timestamp      time.Time `json:"timestamp"`
}

func NewEvent(chatbotID, conversationID uuid.UUID, score int, reason string) *Event {
	return &Event{
		ID:             uuid.New(),
		ChatbotID:      chatbotID,
		ConversationID: conversationID,
		Score:          score,
		Severity:       SeverityForScore(score),
		Reason:         reason,
		Timestamp:      time.Now(),
	}
}

// Alert is the persisted form of a dispatched event.
type Alert struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ChatbotID      uuid.UUID `json:"chatbot_id" gorm:"type:uuid;index"`
	ConversationID uuid.UUID `json:"conversation_id" gorm:"type:uuid"`
	Score          int       `json:"score"`
	Severity       Severity  `json:"severity"`
	Reason         string    `json:"reason"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = StatusNew
	}
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	return nil
}

func (a *Alert) TableName() string {
	return "public.alerts"
}

func FromEvent(evt *Event) *Alert {
	return &Alert{
		ID:             evt.ID,
		ChatbotID:      evt.ChatbotID,
		ConversationID: evt.ConversationID,
		Score:          evt.Score,
		Severity:       evt.Severity,
		Reason:         evt.Reason,
		Status:         StatusNew,
	}
}
