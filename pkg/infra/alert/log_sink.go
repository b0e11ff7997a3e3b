package alert

import (
	"context"

	"github.com/flagwise/flagwise/pkg/domain/alert"
	"github.com/sirupsen/logrus"
)

type logSink struct {
	logger logrus.FieldLogger
}

func NewLogSink(logger logrus.FieldLogger) Sink {
	return &logSink{logger: logger}
}

func (s *logSink) Name() string {
	return "log"
}

func (s *logSink) Deliver(_ context.Context, evt *alert.Event) error {
	s.logger.WithFields(logrus.Fields{
		"alert_id":        evt.ID,
		"chatbot_id":      evt.ChatbotID,
		"conversation_id": evt.ConversationID,
		"score":           evt.Score,
		"severity":        evt.Severity,
		"reason":          evt.Reason,
	}).Warn("risk alert")
	return nil
}
