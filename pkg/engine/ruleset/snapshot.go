package ruleset

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/flagwise/flagwise/pkg/domain/rule"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

type keywordParams struct {
	Keywords []string `mapstructure:"keywords"`
}

type regexParams struct {
	Pattern string `mapstructure:"pattern"`
}

type modelRestrictionParams struct {
	AllowedModels []string `mapstructure:"allowed_models"`
}

type customScoringParams struct {
	Scorer string `mapstructure:"scorer"`
}

// CompiledRule is the evaluation-ready form of a detection rule. Patterns
// are compiled and keywords lowercased once, at snapshot build time, so
// evaluation never fails on malformed configuration.
type CompiledRule struct {
	ID       uuid.UUID
	Name     string
	Kind     rule.Kind
	Weight   int
	Severity rule.Severity

	Keywords      []string
	Pattern       *regexp.Regexp
	AllowedModels map[string]struct{}
	Scorer        ScorerFunc
	ScorerName    string
}

func (r *CompiledRule) AlwaysFlags() bool {
	return r.Severity == rule.SeverityAlwaysFlag
}

// Compile validates a rule's kind-specific parameters and produces its
// evaluation-ready form. All configuration errors surface here, never
// during evaluation.
func Compile(r *rule.DetectionRule) (*CompiledRule, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("rule %q: %w", r.Name, err)
	}

	compiled := &CompiledRule{
		ID:       r.ID,
		Name:     r.Name,
		Kind:     r.Kind,
		Weight:   r.Weight,
		Severity: r.Severity,
	}

	switch r.Kind {
	case rule.KindKeyword:
		var params keywordParams
		if err := mapstructure.Decode(map[string]interface{}(r.Params), &params); err != nil {
			return nil, fmt.Errorf("rule %q: failed to decode keyword params: %w", r.Name, err)
		}
		if len(params.Keywords) == 0 {
			return nil, fmt.Errorf("rule %q: at least one keyword is required", r.Name)
		}
		compiled.Keywords = make([]string, len(params.Keywords))
		for i, kw := range params.Keywords {
			if strings.TrimSpace(kw) == "" {
				return nil, fmt.Errorf("rule %q: keyword %d is empty", r.Name, i)
			}
			compiled.Keywords[i] = strings.ToLower(kw)
		}

	case rule.KindRegex:
		var params regexParams
		if err := mapstructure.Decode(map[string]interface{}(r.Params), &params); err != nil {
			return nil, fmt.Errorf("rule %q: failed to decode regex params: %w", r.Name, err)
		}
		if params.Pattern == "" {
			return nil, fmt.Errorf("rule %q: pattern is required", r.Name)
		}
		pattern, err := regexp.Compile(params.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %q: invalid regex pattern %q: %w", r.Name, params.Pattern, err)
		}
		compiled.Pattern = pattern

	case rule.KindModelRestriction:
		var params modelRestrictionParams
		if err := mapstructure.Decode(map[string]interface{}(r.Params), &params); err != nil {
			return nil, fmt.Errorf("rule %q: failed to decode model restriction params: %w", r.Name, err)
		}
		if len(params.AllowedModels) == 0 {
			return nil, fmt.Errorf("rule %q: at least one allowed model is required", r.Name)
		}
		compiled.AllowedModels = make(map[string]struct{}, len(params.AllowedModels))
		for _, model := range params.AllowedModels {
			compiled.AllowedModels[strings.ToLower(model)] = struct{}{}
		}

	case rule.KindCustomScoring:
		var params customScoringParams
		if err := mapstructure.Decode(map[string]interface{}(r.Params), &params); err != nil {
			return nil, fmt.Errorf("rule %q: failed to decode custom scoring params: %w", r.Name, err)
		}
		if params.Scorer == "" {
			return nil, fmt.Errorf("rule %q: scorer name is required", r.Name)
		}
		fn, ok := lookupScorer(params.Scorer)
		if !ok {
			return nil, fmt.Errorf("rule %q: scorer %q is not registered", r.Name, params.Scorer)
		}
		compiled.Scorer = fn
		compiled.ScorerName = params.Scorer
	}

	return compiled, nil
}

// Snapshot is an immutable, versioned view of the enabled rule set. Rules
// are ordered by weight descending, rule ID ascending as a tie-break, so
// evaluation output is byte-for-byte reproducible for identical inputs.
type Snapshot struct {
	Version uint64
	Rules   []*CompiledRule
}

func NewSnapshot(version uint64, rules []rule.DetectionRule) (*Snapshot, error) {
	compiled := make([]*CompiledRule, 0, len(rules))
	for i := range rules {
		if !rules[i].Enabled {
			continue
		}
		cr, err := Compile(&rules[i])
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, cr)
	}

	sort.Slice(compiled, func(i, j int) bool {
		if compiled[i].Weight != compiled[j].Weight {
			return compiled[i].Weight > compiled[j].Weight
		}
		return compiled[i].ID.String() < compiled[j].ID.String()
	})

	return &Snapshot{
		Version: version,
		Rules:   compiled,
	}, nil
}
