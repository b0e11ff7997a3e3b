package decision

import (
	"testing"

	"github.com/flagwise/flagwise/pkg/domain/chatbot"
	"github.com/flagwise/flagwise/pkg/domain/rule"
	"github.com/flagwise/flagwise/pkg/engine/evaluator"
	"github.com/flagwise/flagwise/pkg/engine/ruleset"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func policy(enabled bool, threshold int) chatbot.Policy {
	return chatbot.Policy{
		ChatbotID:         uuid.New(),
		MonitoringEnabled: enabled,
		RiskThreshold:     threshold,
		AlertOnRisk:       true,
	}
}

func matched(name string, weight int, severity rule.Severity) evaluator.Match {
	return evaluator.Match{
		Rule: &ruleset.CompiledRule{
			ID:       uuid.New(),
			Name:     name,
			Weight:   weight,
			Severity: severity,
		},
		Result: evaluator.Result{Matched: true, Detail: name},
	}
}

func TestDecide_ThresholdIsInclusive(t *testing.T) {
	matches := []evaluator.Match{matched("a", 70, rule.SeverityNormal)}

	outcome := Decide(70, matches, policy(true, 70))
	assert.True(t, outcome.Flagged)

	outcome = Decide(69, matches, policy(true, 70))
	assert.False(t, outcome.Flagged)
	assert.Nil(t, outcome.Reason)
}

func TestDecide_ZeroThresholdFlagsEverything(t *testing.T) {
	outcome := Decide(0, nil, policy(true, 0))
	assert.True(t, outcome.Flagged)
}

func TestDecide_AlwaysFlagOverridesThreshold(t *testing.T) {
	matches := []evaluator.Match{matched("pii", 10, rule.SeverityAlwaysFlag)}

	outcome := Decide(10, matches, policy(true, 70))
	assert.True(t, outcome.Flagged)
	require.NotNil(t, outcome.Reason)
	assert.Equal(t, "pii", *outcome.Reason)
}

func TestDecide_MonitoringDisabledNeverFlags(t *testing.T) {
	matches := []evaluator.Match{matched("pii", 90, rule.SeverityAlwaysFlag)}

	outcome := Decide(90, matches, policy(false, 70))
	assert.False(t, outcome.Flagged)
	assert.Nil(t, outcome.Reason)
	// Matched rules are still reported for audit.
	assert.Len(t, outcome.MatchedRuleIDs, 1)
}

func TestDecide_ReasonOrderedByWeightDescending(t *testing.T) {
	low := matched("low", 10, rule.SeverityNormal)
	high := matched("high", 80, rule.SeverityNormal)

	outcome := Decide(90, []evaluator.Match{low, high}, policy(true, 70))
	require.True(t, outcome.Flagged)
	require.NotNil(t, outcome.Reason)
	assert.Equal(t, "high, low", *outcome.Reason)
	assert.Equal(t, []uuid.UUID{high.Rule.ID, low.Rule.ID}, outcome.MatchedRuleIDs)
}

func TestDecide_EqualWeightsTieBreakOnID(t *testing.T) {
	a := matched("a", 50, rule.SeverityNormal)
	b := matched("b", 50, rule.SeverityNormal)

	outcome := Decide(100, []evaluator.Match{b, a}, policy(true, 70))
	require.Len(t, outcome.MatchedRuleIDs, 2)
	assert.Less(t, outcome.MatchedRuleIDs[0].String(), outcome.MatchedRuleIDs[1].String())
}

func TestDecide_UnmatchedRulesExcluded(t *testing.T) {
	miss := evaluator.Match{
		Rule:   &ruleset.CompiledRule{ID: uuid.New(), Name: "miss", Weight: 90},
		Result: evaluator.Result{},
	}
	hit := matched("hit", 80, rule.SeverityNormal)

	outcome := Decide(80, []evaluator.Match{miss, hit}, policy(true, 70))
	require.True(t, outcome.Flagged)
	assert.Equal(t, []uuid.UUID{hit.Rule.ID}, outcome.MatchedRuleIDs)
	assert.Equal(t, "hit", *outcome.Reason)
}
