package policy

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/flagwise/flagwise/pkg/domain/chatbot"
	"github.com/flagwise/flagwise/pkg/infra/cache"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Store hands out immutable per-evaluation policy snapshots. Snapshots are
// cached in redis with a short TTL; cache misses for the same chatbot are
// collapsed into a single repository fetch.
type Store interface {
	Snapshot(ctx context.Context, chatbotID uuid.UUID) (chatbot.Policy, error)
	Invalidate(ctx context.Context, chatbotID uuid.UUID)
}

type store struct {
	logger logrus.FieldLogger
	repo   chatbot.Repository
	cache  cache.Client
	group  singleflight.Group
}

func NewStore(logger logrus.FieldLogger, repo chatbot.Repository, cacheClient cache.Client) Store {
	return &store{
		logger: logger,
		repo:   repo,
		cache:  cacheClient,
	}
}

func (s *store) Snapshot(ctx context.Context, chatbotID uuid.UUID) (chatbot.Policy, error) {
	key := fmt.Sprintf(cache.PolicyKeyPattern, chatbotID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var policy chatbot.Policy
			if err := json.Unmarshal([]byte(cached), &policy); err == nil {
				return policy, nil
			}
			s.logger.WithField("chatbot_id", chatbotID).Warn("dropping malformed cached policy")
		}
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		bot, err := s.repo.Get(ctx, chatbotID)
		if err != nil {
			return chatbot.Policy{}, err
		}
		policy := bot.PolicySnapshot()
		s.storeInCache(ctx, key, policy)
		return policy, nil
	})
	if err != nil {
		return chatbot.Policy{}, err
	}

	policy, ok := v.(chatbot.Policy)
	if !ok {
		return chatbot.Policy{}, fmt.Errorf("unexpected policy type %T", v)
	}
	return policy, nil
}

func (s *store) Invalidate(ctx context.Context, chatbotID uuid.UUID) {
	if s.cache == nil {
		return
	}
	key := fmt.Sprintf(cache.PolicyKeyPattern, chatbotID)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.WithField("chatbot_id", chatbotID).WithError(err).Warn("failed to invalidate cached policy")
	}
}

func (s *store) storeInCache(ctx context.Context, key string, policy chatbot.Policy) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(policy)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(data), cache.PolicyTTL); err != nil {
		s.logger.WithError(err).Debug("failed to cache policy snapshot")
	}
}
