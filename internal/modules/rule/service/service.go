package service

import (
	"log/slog"
	"regexp"

	"github.com/samber/lo"
	"github.com/samber/oops"

	"github.com/reshetovitsme/channel-editor-bot/internal/modules/rule/domain"
	"github.com/reshetovitsme/channel-editor-bot/internal/modules/rule/repository"
	"github.com/reshetovitsme/channel-editor-bot/internal/shared/config"
	"github.com/reshetovitsme/channel-editor-bot/internal/shared/errors"
)

// Service manages the ordered rule set: static rules from configuration
// followed by user rules in insertion order.
type Service struct {
	static []domain.Rule
	repo   repository.Repository
}

// New creates a rule service. Static rules keep their configured order.
func New(cfg *config.Config, repo repository.Repository) *Service {
	static := lo.Map(cfg.StaticRules, func(r config.StaticRule, _ int) domain.Rule {
		return domain.Rule{
			Pattern:     r.Pattern,
			Replacement: r.Replacement,
			Origin:      domain.OriginStatic,
		}
	})

	return &Service{
		static: static,
		repo:   repo,
	}
}

// List returns static rules first, then user rules in insertion order. It
// never fails: when the persisted user set is unreadable the static set is
// returned alone and the fault is logged.
func (s *Service) List() []domain.Rule {
	user, err := s.repo.LoadRules()
	if err != nil {
		slog.Error("Failed to load user rules, continuing with static rules only", "error", err)
		return append([]domain.Rule{}, s.static...)
	}

	rules := make([]domain.Rule, 0, len(s.static)+len(user))
	rules = append(rules, s.static...)
	rules = append(rules, user...)
	return rules
}

// StaticRules returns only the configured static rules.
func (s *Service) StaticRules() []domain.Rule {
	return append([]domain.Rule{}, s.static...)
}

// UserRules returns only the persisted user rules.
func (s *Service) UserRules() ([]domain.Rule, error) {
	return s.repo.LoadRules()
}

// Upsert adds a user rule or, when a user rule with the same pattern
// already exists, replaces its replacement in place without reordering.
// The pattern must compile before anything is persisted.
func (s *Service) Upsert(pattern, replacement string) error {
	if _, err := regexp.Compile(pattern); err != nil {
		return oops.With("pattern", pattern).Wrap(err)
	}

	rules, err := s.repo.LoadRules()
	if err != nil {
		return oops.With("context", "failed to load user rules").Wrap(err)
	}

	updated := false
	for i, r := range rules {
		if r.Pattern == pattern {
			rules[i].Replacement = replacement
			updated = true
			break
		}
	}
	if !updated {
		rules = append(rules, domain.Rule{
			Pattern:     pattern,
			Replacement: replacement,
			Origin:      domain.OriginUser,
		})
	}

	return s.repo.SaveRules(rules)
}

// Remove deletes the first user rule whose pattern exactly equals the
// argument. Static rules are never removable.
func (s *Service) Remove(pattern string) error {
	for _, r := range s.static {
		if r.Pattern == pattern {
			return errors.ErrStaticRule
		}
	}

	rules, err := s.repo.LoadRules()
	if err != nil {
		return oops.With("context", "failed to load user rules").Wrap(err)
	}

	idx := -1
	for i, r := range rules {
		if r.Pattern == pattern {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errors.ErrRuleNotFound
	}

	rules = append(rules[:idx], rules[idx+1:]...)
	return s.repo.SaveRules(rules)
}

// Test dry-runs a pattern against sample text. It reports all
// non-overlapping matches in order and a rendering of the sample with each
// match wrapped in emphasis markers. Nothing is persisted; an invalid
// pattern is returned as a compile error.
func (s *Service) Test(pattern, sample string) (*domain.MatchReport, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, oops.With("pattern", pattern).Wrap(err)
	}

	report := &domain.MatchReport{
		Pattern: pattern,
		Sample:  sample,
		Matches: re.FindAllString(sample, -1),
	}

	if len(report.Matches) > 0 {
		report.Highlighted = re.ReplaceAllStringFunc(sample, func(m string) string {
			return "*" + m + "*"
		})
	}

	return report, nil
}
