// Package service implements the message transformation pipeline: ordered
// cascading substitution followed by timestamp shifting.
package service

import (
	"log/slog"
	"regexp"

	ruleService "github.com/reshetovitsme/channel-editor-bot/internal/modules/rule/service"
)

// RuleOutcome records what happened to one rule during the cascade.
type RuleOutcome struct {
	Pattern string
	Skipped bool
	Changed bool
	Err     error
}

// TokenOutcome records the conversion of one timestamp token.
type TokenOutcome struct {
	Token     string
	Converted string
	Err       error
}

// Result is the outcome of processing one message body.
type Result struct {
	Text   string
	Rules  []RuleOutcome
	Tokens []TokenOutcome
}

// Changed reports whether processing altered the text.
func (r Result) Changed(original string) bool {
	return r.Text != original
}

// Pipeline applies the two transformation stages in a fixed order:
// substitution rules first, timestamp shifting on the substituted text.
type Pipeline struct {
	rules     *ruleService.Service
	converter *Converter
}

// New creates a transformation pipeline.
func New(rules *ruleService.Service, converter *Converter) *Pipeline {
	return &Pipeline{
		rules:     rules,
		converter: converter,
	}
}

// Process rewrites a message body. It is a pure function of the text and
// the current rule set: no state is kept between calls. Individual rule or
// token failures are recorded and skipped; Process always returns a
// best-effort result.
func (p *Pipeline) Process(text string) Result {
	result := Result{}

	result.Text, result.Rules = p.applyRules(text)
	result.Text, result.Tokens = p.converter.Shift(result.Text)

	for _, r := range result.Rules {
		if r.Skipped {
			slog.Error("Skipped substitution rule", "pattern", r.Pattern, "error", r.Err)
		}
	}
	for _, t := range result.Tokens {
		if t.Err != nil {
			slog.Error("Skipped timestamp token", "token", t.Token, "error", t.Err)
		}
	}

	return result
}

// applyRules runs the cascade: each rule is applied to the output of the
// previous one, so a rule can match text introduced by an earlier rule. A
// rule that fails to compile is skipped and the cascade continues from the
// last good text.
func (p *Pipeline) applyRules(text string) (string, []RuleOutcome) {
	rules := p.rules.List()
	outcomes := make([]RuleOutcome, 0, len(rules))

	current := text
	for _, rule := range rules {
		outcome := RuleOutcome{Pattern: rule.Pattern}

		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			outcome.Skipped = true
			outcome.Err = err
			outcomes = append(outcomes, outcome)
			continue
		}

		next := re.ReplaceAllString(current, rule.Replacement)
		outcome.Changed = next != current
		current = next
		outcomes = append(outcomes, outcome)
	}

	return current, outcomes
}
