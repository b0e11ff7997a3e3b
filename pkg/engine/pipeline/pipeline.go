package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/flagwise/flagwise/pkg/domain/alert"
	"github.com/flagwise/flagwise/pkg/domain/chatbot"
	"github.com/flagwise/flagwise/pkg/domain/conversation"
	"github.com/flagwise/flagwise/pkg/engine/decision"
	"github.com/flagwise/flagwise/pkg/engine/evaluator"
	"github.com/flagwise/flagwise/pkg/engine/ruleset"
	"github.com/flagwise/flagwise/pkg/engine/scorer"
	"github.com/flagwise/flagwise/pkg/infra/prometheus"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PolicyProvider hands out an immutable policy snapshot for one evaluation.
type PolicyProvider interface {
	Snapshot(ctx context.Context, chatbotID uuid.UUID) (chatbot.Policy, error)
}

// AlertDispatcher accepts an alert event without blocking the caller.
type AlertDispatcher interface {
	Dispatch(evt *alert.Event)
}

// CounterStore applies the per-chatbot monotonic counter update. Satisfied
// by chatbot.Repository.
type CounterStore interface {
	IncrementCounters(ctx context.Context, id uuid.UUID, flagged bool) error
}

// Verdict is the immutable output of one evaluation.
type Verdict struct {
	Score        int         `json:"risk_score"`
	Flagged      bool        `json:"is_flagged"`
	FlagReason   *string     `json:"flag_reason"`
	MatchedRules []uuid.UUID `json:"matched_rules"`
	RuleVersion  uint64      `json:"-"`
}

// Pipeline runs one conversation through rule evaluation, scoring, the flag
// decision and alert dispatch. It owns nothing between calls: the rule
// snapshot and policy are bound once at the start of each evaluation, and
// the only shared state it writes is the per-chatbot counter pair.
type Pipeline struct {
	logger     logrus.FieldLogger
	rules      *ruleset.Store
	evaluator  *evaluator.Evaluator
	policies   PolicyProvider
	counters   CounterStore
	dispatcher AlertDispatcher
}

func New(
	logger logrus.FieldLogger,
	rules *ruleset.Store,
	eval *evaluator.Evaluator,
	policies PolicyProvider,
	counters CounterStore,
	dispatcher AlertDispatcher,
) *Pipeline {
	return &Pipeline{
		logger:     logger,
		rules:      rules,
		evaluator:  eval,
		policies:   policies,
		counters:   counters,
		dispatcher: dispatcher,
	}
}

// Evaluate computes the risk verdict for one conversation and attaches it
// to the record. The only hard failure is an unknown chatbot; individual
// rule failures degrade to non-matches and never abort the evaluation.
func (p *Pipeline) Evaluate(ctx context.Context, conv *conversation.Conversation) (*Verdict, error) {
	start := time.Now()

	policy, err := p.policies.Snapshot(ctx, conv.ChatbotID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chatbot policy: %w", err)
	}

	snapshot := p.rules.Current()
	matches := p.evaluator.EvaluateAll(ctx, snapshot, conv)
	for _, m := range matches {
		if m.Result.Failure != "" {
			prometheus.RuleFailuresTotal.WithLabelValues(m.Rule.ID.String()).Inc()
		}
	}

	score := scorer.Score(matches)
	outcome := decision.Decide(score, matches, policy)

	verdict := &Verdict{
		Score:        score,
		Flagged:      outcome.Flagged,
		FlagReason:   outcome.Reason,
		MatchedRules: outcome.MatchedRuleIDs,
		RuleVersion:  snapshot.Version,
	}
	p.attach(conv, verdict)
	p.recordCounters(ctx, conv.ChatbotID, verdict.Flagged)

	if verdict.Flagged && policy.AlertOnRisk {
		reason := ""
		if verdict.FlagReason != nil {
			reason = *verdict.FlagReason
		}
		p.dispatcher.Dispatch(alert.NewEvent(conv.ChatbotID, conv.ID, verdict.Score, reason))
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	prometheus.EvaluationLatency.WithLabelValues(conv.ChatbotID.String()).Observe(elapsed)

	p.logger.WithFields(logrus.Fields{
		"chatbot_id":      conv.ChatbotID,
		"conversation_id": conv.ID,
		"score":           verdict.Score,
		"flagged":         verdict.Flagged,
		"rule_version":    snapshot.Version,
		"elapsed_ms":      elapsed,
	}).Debug("conversation evaluated")

	return verdict, nil
}

func (p *Pipeline) attach(conv *conversation.Conversation, verdict *Verdict) {
	conv.RiskScore = verdict.Score
	conv.IsFlagged = verdict.Flagged
	conv.FlagReason = verdict.FlagReason
	ids := make([]string, len(verdict.MatchedRules))
	for i, id := range verdict.MatchedRules {
		ids[i] = id.String()
	}
	conv.MatchedRules = ids
}

func (p *Pipeline) recordCounters(ctx context.Context, chatbotID uuid.UUID, flagged bool) {
	prometheus.ConversationsTotal.WithLabelValues(chatbotID.String()).Inc()
	if flagged {
		prometheus.FlaggedConversationsTotal.WithLabelValues(chatbotID.String()).Inc()
	}
	// Counter failures are operational noise, never verdict failures.
	if err := p.counters.IncrementCounters(ctx, chatbotID, flagged); err != nil {
		p.logger.WithField("chatbot_id", chatbotID).WithError(err).Error("failed to increment chatbot counters")
	}
}
