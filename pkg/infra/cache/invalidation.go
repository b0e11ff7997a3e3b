package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

const InvalidationChannel = "flagwise:invalidation"

type EventType string

const (
	RulesChangedEvent   EventType = "rules_changed"
	ChatbotChangedEvent EventType = "chatbot_changed"
)

// InvalidationEvent tells other instances that configuration changed and
// their snapshots/caches are stale.
type InvalidationEvent struct {
	Type     EventType `json:"type"`
	EntityID string    `json:"entity_id,omitempty"`
}

type InvalidationPublisher interface {
	Publish(ctx context.Context, evt InvalidationEvent) error
}

type invalidationPublisher struct {
	cache Client
}

func NewInvalidationPublisher(cache Client) InvalidationPublisher {
	return &invalidationPublisher{cache: cache}
}

func (p *invalidationPublisher) Publish(ctx context.Context, evt InvalidationEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal invalidation event: %w", err)
	}
	return p.cache.RedisClient().Publish(ctx, InvalidationChannel, data).Err()
}

// InvalidationListener subscribes to the invalidation channel and routes
// events to a registered handler. Reconnects with a fixed backoff.
type InvalidationListener struct {
	logger  *logrus.Logger
	cache   Client
	handler func(ctx context.Context, evt InvalidationEvent)
}

func NewInvalidationListener(
	logger *logrus.Logger,
	cache Client,
	handler func(ctx context.Context, evt InvalidationEvent),
) *InvalidationListener {
	return &InvalidationListener{
		logger:  logger,
		cache:   cache,
		handler: handler,
	}
}

func (l *InvalidationListener) Listen(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("invalidation listener shutting down")
			return
		default:
		}

		l.listenWithReconnect(ctx)

		if ctx.Err() != nil {
			return
		}
		l.logger.Warn("redis pubsub disconnected, reconnecting in 1s...")
		time.Sleep(time.Second)
	}
}

func (l *InvalidationListener) listenWithReconnect(ctx context.Context) {
	pubSub := l.cache.RedisClient().Subscribe(ctx, InvalidationChannel)
	defer func() { _ = pubSub.Close() }()

	go func() {
		<-ctx.Done()
		_ = pubSub.Close()
	}()

	for msg := range pubSub.Channel() {
		var evt InvalidationEvent
		if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
			l.logger.WithError(err).Warn("dropping malformed invalidation event")
			continue
		}
		l.handler(ctx, evt)
	}
}
