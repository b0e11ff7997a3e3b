package decision

import (
	"sort"
	"strings"

	"github.com/flagwise/flagwise/pkg/domain/chatbot"
	"github.com/flagwise/flagwise/pkg/engine/evaluator"
	"github.com/google/uuid"
)

// Outcome is the flag verdict for one conversation. Reason is nil when the
// conversation is not flagged; MatchedRuleIDs is always populated for audit.
type Outcome struct {
	Flagged        bool
	Reason         *string
	MatchedRuleIDs []uuid.UUID
}

// Decide compares the computed score against the chatbot's policy. A
// matched always-flag rule forces the flagged verdict regardless of score;
// otherwise the threshold comparison is inclusive (score >= threshold).
// A chatbot with monitoring disabled is still scored but never flagged.
func Decide(score int, matches []evaluator.Match, policy chatbot.Policy) Outcome {
	matched := make([]evaluator.Match, 0, len(matches))
	for _, m := range matches {
		if m.Result.Matched {
			matched = append(matched, m)
		}
	}

	// Stable reason ordering: weight descending, rule ID as tie-break.
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Rule.Weight != matched[j].Rule.Weight {
			return matched[i].Rule.Weight > matched[j].Rule.Weight
		}
		return matched[i].Rule.ID.String() < matched[j].Rule.ID.String()
	})

	ids := make([]uuid.UUID, len(matched))
	alwaysFlag := false
	for i, m := range matched {
		ids[i] = m.Rule.ID
		if m.Rule.AlwaysFlags() {
			alwaysFlag = true
		}
	}

	flagged := alwaysFlag || score >= policy.RiskThreshold
	if !policy.MonitoringEnabled {
		flagged = false
	}

	outcome := Outcome{
		Flagged:        flagged,
		MatchedRuleIDs: ids,
	}
	if flagged {
		details := make([]string, len(matched))
		for i, m := range matched {
			details[i] = m.Result.Detail
		}
		reason := strings.Join(details, ", ")
		outcome.Reason = &reason
	}
	return outcome
}
