package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/flagwise/flagwise/pkg/domain/alert"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// webhookSink POSTs alert events as JSON to a configured endpoint, behind a
// circuit breaker so a dead receiver does not tie up dispatcher workers.
type webhookSink struct {
	logger  logrus.FieldLogger
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewWebhookSink(logger logrus.FieldLogger, url string) Sink {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "alert-webhook",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("webhook circuit breaker state changed")
		},
	})
	return &webhookSink{
		logger:  logger,
		url:     url,
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: breaker,
	}
}

func (s *webhookSink) Name() string {
	return "webhook"
}

func (s *webhookSink) Deliver(ctx context.Context, evt *alert.Event) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.post(ctx, evt)
	})
	return err
}

func (s *webhookSink) post(ctx context.Context, evt *alert.Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
