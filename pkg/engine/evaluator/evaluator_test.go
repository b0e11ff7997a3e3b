package evaluator

import (
	"context"
	"testing"
	"time"

	"github.com/flagwise/flagwise/pkg/domain/conversation"
	"github.com/flagwise/flagwise/pkg/domain/rule"
	"github.com/flagwise/flagwise/pkg/engine/ruleset"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, r rule.DetectionRule) *ruleset.CompiledRule {
	t.Helper()
	compiled, err := ruleset.Compile(&r)
	require.NoError(t, err)
	return compiled
}

func conv(prompt, response, model string) *conversation.Conversation {
	return conversation.New(uuid.New(), "conv-1", "user-1", prompt, response, model, nil)
}

func TestEvaluate_KeywordMatchesCaseInsensitive(t *testing.T) {
	e := New(logrus.New(), 0)
	r := compile(t, rule.DetectionRule{
		ID:      uuid.New(),
		Name:    "confidential",
		Kind:    rule.KindKeyword,
		Weight:  40,
		Enabled: true,
		Params:  map[string]interface{}{"keywords": []interface{}{"Revenue Figures"}},
	})

	res := e.Evaluate(context.Background(), r, conv("what were our REVENUE figures last quarter?", "", "gpt-4"))
	assert.False(t, res.Matched)

	res = e.Evaluate(context.Background(), r, conv("share the revenue FIGURES", "", "gpt-4"))
	assert.True(t, res.Matched)
	assert.Equal(t, `confidential: keyword "revenue figures"`, res.Detail)
}

func TestEvaluate_KeywordMatchesResponse(t *testing.T) {
	e := New(logrus.New(), 0)
	r := compile(t, rule.DetectionRule{
		ID:      uuid.New(),
		Name:    "leak",
		Kind:    rule.KindKeyword,
		Weight:  40,
		Enabled: true,
		Params:  map[string]interface{}{"keywords": []interface{}{"api key"}},
	})

	res := e.Evaluate(context.Background(), r, conv("hello", "here is the API KEY you asked for", "gpt-4"))
	assert.True(t, res.Matched)
}

func TestEvaluate_Regex(t *testing.T) {
	e := New(logrus.New(), 0)
	r := compile(t, rule.DetectionRule{
		ID:      uuid.New(),
		Name:    "ssn",
		Kind:    rule.KindRegex,
		Weight:  80,
		Enabled: true,
		Params:  map[string]interface{}{"pattern": `\d{3}-\d{2}-\d{4}`},
	})

	res := e.Evaluate(context.Background(), r, conv("my ssn is 123-45-6789", "", "gpt-4"))
	assert.True(t, res.Matched)
	assert.Equal(t, "ssn: pattern matched", res.Detail)

	res = e.Evaluate(context.Background(), r, conv("no numbers here", "", "gpt-4"))
	assert.False(t, res.Matched)
}

func TestEvaluate_ModelRestriction(t *testing.T) {
	e := New(logrus.New(), 0)
	r := compile(t, rule.DetectionRule{
		ID:      uuid.New(),
		Name:    "approved models",
		Kind:    rule.KindModelRestriction,
		Weight:  30,
		Enabled: true,
		Params:  map[string]interface{}{"allowed_models": []interface{}{"gpt-4"}},
	})

	res := e.Evaluate(context.Background(), r, conv("hi", "", "GPT-4"))
	assert.False(t, res.Matched)

	res = e.Evaluate(context.Background(), r, conv("hi", "", "llama-2"))
	assert.True(t, res.Matched)
	assert.Equal(t, `approved models: model "llama-2" not allowed`, res.Detail)

	// Unknown model is not a violation.
	res = e.Evaluate(context.Background(), r, conv("hi", "", ""))
	assert.False(t, res.Matched)
}

func customRule(t *testing.T, name, scorerName string, fn ruleset.ScorerFunc) *ruleset.CompiledRule {
	t.Helper()
	require.NoError(t, ruleset.RegisterScorer(scorerName, fn))
	return compile(t, rule.DetectionRule{
		ID:      uuid.New(),
		Name:    name,
		Kind:    rule.KindCustomScoring,
		Weight:  25,
		Enabled: true,
		Params:  map[string]interface{}{"scorer": scorerName},
	})
}

func TestEvaluate_CustomScorer(t *testing.T) {
	e := New(logrus.New(), 0)
	r := customRule(t, "long prompt", "evaluator-test-long-prompt", func(conv *conversation.Conversation) bool {
		return len(conv.Prompt) > 10
	})

	res := e.Evaluate(context.Background(), r, conv("a prompt that is long enough", "", "gpt-4"))
	assert.True(t, res.Matched)
	assert.Equal(t, `long prompt: scorer "evaluator-test-long-prompt" triggered`, res.Detail)

	res = e.Evaluate(context.Background(), r, conv("short", "", "gpt-4"))
	assert.False(t, res.Matched)
}

func TestEvaluate_CustomScorerPanicIsIsolated(t *testing.T) {
	e := New(logrus.New(), 0)
	r := customRule(t, "panicky", "evaluator-test-panic", func(conv *conversation.Conversation) bool {
		panic("boom")
	})

	res := e.Evaluate(context.Background(), r, conv("hello", "", "gpt-4"))
	assert.False(t, res.Matched)
	assert.Contains(t, res.Failure, "panicked")
}

func TestEvaluate_CustomScorerTimeout(t *testing.T) {
	e := New(logrus.New(), 5*time.Millisecond)
	r := customRule(t, "slow", "evaluator-test-slow", func(conv *conversation.Conversation) bool {
		time.Sleep(200 * time.Millisecond)
		return true
	})

	res := e.Evaluate(context.Background(), r, conv("hello", "", "gpt-4"))
	assert.False(t, res.Matched)
	assert.Contains(t, res.Failure, "exceeded")
}

func TestEvaluateAll_PreservesSnapshotOrderAndIsolatesFailures(t *testing.T) {
	e := New(logrus.New(), 5*time.Millisecond)

	hang := customRule(t, "hang", "evaluator-test-hang", func(conv *conversation.Conversation) bool {
		select {}
	})
	keyword := compile(t, rule.DetectionRule{
		ID:      uuid.New(),
		Name:    "secret",
		Kind:    rule.KindKeyword,
		Weight:  40,
		Enabled: true,
		Params:  map[string]interface{}{"keywords": []interface{}{"secret"}},
	})

	snap := &ruleset.Snapshot{Version: 1, Rules: []*ruleset.CompiledRule{hang, keyword}}
	matches := e.EvaluateAll(context.Background(), snap, conv("this is secret", "", "gpt-4"))

	require.Len(t, matches, 2)
	assert.Equal(t, "hang", matches[0].Rule.Name)
	assert.NotEmpty(t, matches[0].Result.Failure)
	assert.True(t, matches[1].Result.Matched)
}
