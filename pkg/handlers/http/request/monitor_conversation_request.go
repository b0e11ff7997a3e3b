package request

import "time"

type MonitorConversationRequest struct {
	ConversationID string                 `json:"conversation_id"`
	UserID         string                 `json:"user_id"`
	Prompt         string                 `json:"prompt"`
	Response       string                 `json:"response"`
	Model          string                 `json:"model"`
	// Timestamp is when the exchange happened on the client side. When
	// omitted the record is stamped at ingestion time.
	Timestamp *time.Time             `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata"`
}
