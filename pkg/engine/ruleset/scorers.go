package ruleset

import (
	"fmt"
	"sync"

	"github.com/flagwise/flagwise/pkg/domain/conversation"
)

// ScorerFunc is an externally supplied check used by custom_scoring rules.
// Implementations must be deterministic and side-effect free; they receive
// only the conversation and may not read mutable shared state.
type ScorerFunc func(conv *conversation.Conversation) bool

var (
	scorersMu sync.RWMutex
	scorers   = make(map[string]ScorerFunc)
)

// RegisterScorer makes a scoring function available to custom_scoring rules
// under the given name. Registration happens at startup, before any rule
// set referencing the scorer is compiled.
func RegisterScorer(name string, fn ScorerFunc) error {
	if name == "" {
		return fmt.Errorf("scorer name is required")
	}
	if fn == nil {
		return fmt.Errorf("scorer %q is nil", name)
	}
	scorersMu.Lock()
	defer scorersMu.Unlock()
	if _, exists := scorers[name]; exists {
		return fmt.Errorf("scorer %q is already registered", name)
	}
	scorers[name] = fn
	return nil
}

func lookupScorer(name string) (ScorerFunc, bool) {
	scorersMu.RLock()
	defer scorersMu.RUnlock()
	fn, ok := scorers[name]
	return fn, ok
}
