package scorer

import (
	"github.com/flagwise/flagwise/pkg/engine/evaluator"
	"github.com/google/uuid"
)

// Score aggregates rule matches into a 0-100 risk score: the sum of the
// weights of all matched rules, each rule counted at most once, clamped at
// both ends. Summation is commutative, so match order never affects the
// score.
func Score(matches []evaluator.Match) int {
	total := 0
	seen := make(map[uuid.UUID]struct{}, len(matches))
	for _, m := range matches {
		if !m.Result.Matched {
			continue
		}
		if _, dup := seen[m.Rule.ID]; dup {
			continue
		}
		seen[m.Rule.ID] = struct{}{}
		total += m.Rule.Weight
	}
	if total > 100 {
		return 100
	}
	if total < 0 {
		return 0
	}
	return total
}
