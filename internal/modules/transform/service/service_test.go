package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ruleDomain "github.com/reshetovitsme/channel-editor-bot/internal/modules/rule/domain"
	ruleService "github.com/reshetovitsme/channel-editor-bot/internal/modules/rule/service"
	"github.com/reshetovitsme/channel-editor-bot/internal/shared/config"
)

type fakeRuleRepo struct {
	rules []ruleDomain.Rule
}

func (r *fakeRuleRepo) LoadRules() ([]ruleDomain.Rule, error) {
	return append([]ruleDomain.Rule{}, r.rules...), nil
}

func (r *fakeRuleRepo) SaveRules(rules []ruleDomain.Rule) error {
	r.rules = append([]ruleDomain.Rule{}, rules...)
	return nil
}

func newPipeline(t *testing.T, static []config.StaticRule, user []ruleDomain.Rule) *Pipeline {
	t.Helper()

	cfg := &config.Config{StaticRules: static}
	rules := ruleService.New(cfg, &fakeRuleRepo{rules: user})

	converter, err := NewConverter(config.TimeConfig{
		Mode:          config.TimeModeOffset,
		OffsetHours:   3,
		OffsetMinutes: 30,
		Marker:        "⏰",
	})
	require.NoError(t, err)

	return New(rules, converter)
}

func TestProcessCascadingOrder(t *testing.T) {
	// The second rule matches text produced by the first: the cascade
	// feeds each rule the output of the previous one.
	p := newPipeline(t, []config.StaticRule{
		{Pattern: "urgent", Replacement: "URGENT"},
		{Pattern: "URGENT important", Replacement: "URGENT IMPORTANT"},
	}, nil)

	result := p.Process("urgent important")

	assert.Equal(t, "URGENT IMPORTANT", result.Text)
	require.Len(t, result.Rules, 2)
	assert.True(t, result.Rules[0].Changed)
	assert.True(t, result.Rules[1].Changed)
}

func TestProcessStaticRulesRunBeforeUserRules(t *testing.T) {
	p := newPipeline(t,
		[]config.StaticRule{{Pattern: "draft", Replacement: "final"}},
		[]ruleDomain.Rule{{Pattern: "final", Replacement: "published", Origin: ruleDomain.OriginUser}},
	)

	result := p.Process("draft")

	assert.Equal(t, "published", result.Text)
}

func TestProcessSkipsInvalidRule(t *testing.T) {
	p := newPipeline(t, []config.StaticRule{
		{Pattern: "good", Replacement: "GOOD"},
	}, []ruleDomain.Rule{
		{Pattern: "(unclosed", Replacement: "x", Origin: ruleDomain.OriginUser},
		{Pattern: "GOOD", Replacement: "GREAT", Origin: ruleDomain.OriginUser},
	})

	result := p.Process("good")

	// The broken rule is skipped; the cascade continues from the last
	// good text.
	assert.Equal(t, "GREAT", result.Text)
	require.Len(t, result.Rules, 3)
	assert.False(t, result.Rules[0].Skipped)
	assert.True(t, result.Rules[1].Skipped)
	assert.Error(t, result.Rules[1].Err)
	assert.False(t, result.Rules[2].Skipped)
}

func TestProcessNoOpInvariant(t *testing.T) {
	p := newPipeline(t, []config.StaticRule{
		{Pattern: "urgent", Replacement: "URGENT"},
	}, nil)

	text := "nothing matches and there is no clock here"
	result := p.Process(text)

	assert.Equal(t, text, result.Text)
	assert.False(t, result.Changed(text))
}

func TestProcessRunsSubstitutionBeforeTimestampShift(t *testing.T) {
	// A rule may introduce a timestamp; stage two must see it.
	p := newPipeline(t, []config.StaticRule{
		{Pattern: "noon", Replacement: "12:00"},
	}, nil)

	result := p.Process("see you at noon")

	assert.Equal(t, "see you at 15:30", result.Text)
}
