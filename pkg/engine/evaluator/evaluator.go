package evaluator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/flagwise/flagwise/pkg/domain/conversation"
	"github.com/flagwise/flagwise/pkg/domain/rule"
	"github.com/flagwise/flagwise/pkg/engine/ruleset"
	"github.com/sirupsen/logrus"
)

const DefaultScorerBudget = 50 * time.Millisecond

// Result is the outcome of applying one rule to one conversation. A rule
// that fails (panics, times out) is reported as not matched with the
// failure recorded for diagnostics; it never aborts the other rules.
type Result struct {
	Matched bool
	Detail  string
	Failure string
}

// Match pairs a rule with its evaluation result.
type Match struct {
	Rule   *ruleset.CompiledRule
	Result Result
}

type Evaluator struct {
	logger       logrus.FieldLogger
	scorerBudget time.Duration
}

func New(logger logrus.FieldLogger, scorerBudget time.Duration) *Evaluator {
	if scorerBudget <= 0 {
		scorerBudget = DefaultScorerBudget
	}
	return &Evaluator{
		logger:       logger,
		scorerBudget: scorerBudget,
	}
}

// Evaluate applies a single compiled rule to a conversation. Pure with
// respect to its inputs; the conversation is never mutated.
func (e *Evaluator) Evaluate(ctx context.Context, r *ruleset.CompiledRule, conv *conversation.Conversation) Result {
	switch r.Kind {
	case rule.KindKeyword:
		return e.evaluateKeyword(r, conv)
	case rule.KindRegex:
		return e.evaluateRegex(r, conv)
	case rule.KindModelRestriction:
		return e.evaluateModelRestriction(r, conv)
	case rule.KindCustomScoring:
		return e.evaluateCustomScoring(ctx, r, conv)
	default:
		return e.failure(r, conv, fmt.Sprintf("unknown rule kind %q", r.Kind))
	}
}

// EvaluateAll applies every rule in the snapshot, in snapshot order, and
// returns one entry per rule. Snapshot order is weight descending with ID
// tie-break, which keeps downstream reason strings deterministic.
func (e *Evaluator) EvaluateAll(ctx context.Context, snap *ruleset.Snapshot, conv *conversation.Conversation) []Match {
	matches := make([]Match, 0, len(snap.Rules))
	for _, r := range snap.Rules {
		matches = append(matches, Match{
			Rule:   r,
			Result: e.Evaluate(ctx, r, conv),
		})
	}
	return matches
}

func (e *Evaluator) evaluateKeyword(r *ruleset.CompiledRule, conv *conversation.Conversation) Result {
	prompt := strings.ToLower(conv.Prompt)
	response := strings.ToLower(conv.Response)
	for _, kw := range r.Keywords {
		if strings.Contains(prompt, kw) || strings.Contains(response, kw) {
			// First keyword hit wins; a rule contributes at most once.
			return Result{
				Matched: true,
				Detail:  fmt.Sprintf("%s: keyword %q", r.Name, kw),
			}
		}
	}
	return Result{}
}

func (e *Evaluator) evaluateRegex(r *ruleset.CompiledRule, conv *conversation.Conversation) Result {
	if r.Pattern.MatchString(conv.Prompt) || r.Pattern.MatchString(conv.Response) {
		return Result{
			Matched: true,
			Detail:  fmt.Sprintf("%s: pattern matched", r.Name),
		}
	}
	return Result{}
}

func (e *Evaluator) evaluateModelRestriction(r *ruleset.CompiledRule, conv *conversation.Conversation) Result {
	model := strings.ToLower(conv.Model)
	if model == "" {
		return Result{}
	}
	if _, allowed := r.AllowedModels[model]; !allowed {
		return Result{
			Matched: true,
			Detail:  fmt.Sprintf("%s: model %q not allowed", r.Name, conv.Model),
		}
	}
	return Result{}
}

func (e *Evaluator) evaluateCustomScoring(ctx context.Context, r *ruleset.CompiledRule, conv *conversation.Conversation) Result {
	done := make(chan bool, 1)
	panicked := make(chan string, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				panicked <- fmt.Sprintf("scorer %q panicked: %v", r.ScorerName, rec)
			}
		}()
		done <- r.Scorer(conv)
	}()

	timer := time.NewTimer(e.scorerBudget)
	defer timer.Stop()

	select {
	case matched := <-done:
		if !matched {
			return Result{}
		}
		return Result{
			Matched: true,
			Detail:  fmt.Sprintf("%s: scorer %q triggered", r.Name, r.ScorerName),
		}
	case msg := <-panicked:
		return e.failure(r, conv, msg)
	case <-timer.C:
		return e.failure(r, conv, fmt.Sprintf("scorer %q exceeded %s budget", r.ScorerName, e.scorerBudget))
	case <-ctx.Done():
		return e.failure(r, conv, fmt.Sprintf("scorer %q cancelled: %v", r.ScorerName, ctx.Err()))
	}
}

func (e *Evaluator) failure(r *ruleset.CompiledRule, conv *conversation.Conversation, msg string) Result {
	e.logger.WithFields(logrus.Fields{
		"rule_id":         r.ID,
		"rule_name":       r.Name,
		"conversation_id": conv.ID,
	}).Warn(msg)
	return Result{Failure: msg}
}
