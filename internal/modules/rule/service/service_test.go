package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reshetovitsme/channel-editor-bot/internal/modules/rule/domain"
	"github.com/reshetovitsme/channel-editor-bot/internal/shared/config"
	sharedErrors "github.com/reshetovitsme/channel-editor-bot/internal/shared/errors"
)

type fakeRepo struct {
	rules   []domain.Rule
	loadErr error
	saveErr error
	saved   int
}

func (r *fakeRepo) LoadRules() ([]domain.Rule, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return append([]domain.Rule{}, r.rules...), nil
}

func (r *fakeRepo) SaveRules(rules []domain.Rule) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.rules = append([]domain.Rule{}, rules...)
	r.saved++
	return nil
}

func newService(repo *fakeRepo, static ...config.StaticRule) *Service {
	return New(&config.Config{StaticRules: static}, repo)
}

func TestListOrder(t *testing.T) {
	repo := &fakeRepo{rules: []domain.Rule{
		{Pattern: "u1", Replacement: "r1", Origin: domain.OriginUser},
		{Pattern: "u2", Replacement: "r2", Origin: domain.OriginUser},
	}}
	svc := newService(repo,
		config.StaticRule{Pattern: "s1", Replacement: "S1"},
		config.StaticRule{Pattern: "s2", Replacement: "S2"},
	)

	rules := svc.List()

	require.Len(t, rules, 4)
	assert.Equal(t, "s1", rules[0].Pattern)
	assert.Equal(t, "s2", rules[1].Pattern)
	assert.Equal(t, "u1", rules[2].Pattern)
	assert.Equal(t, "u2", rules[3].Pattern)
	assert.Equal(t, domain.OriginStatic, rules[0].Origin)
	assert.Equal(t, domain.OriginUser, rules[2].Origin)
}

func TestListDegradesWhenStoreUnreadable(t *testing.T) {
	repo := &fakeRepo{loadErr: errors.New("disk gone")}
	svc := newService(repo, config.StaticRule{Pattern: "s1", Replacement: "S1"})

	rules := svc.List()

	require.Len(t, rules, 1)
	assert.Equal(t, "s1", rules[0].Pattern)
}

func TestUpsertAppendsNewRule(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo)

	require.NoError(t, svc.Upsert("foo", "bar"))

	require.Len(t, repo.rules, 1)
	assert.Equal(t, domain.Rule{Pattern: "foo", Replacement: "bar", Origin: domain.OriginUser}, repo.rules[0])
}

func TestUpsertReplacesInPlace(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo)

	require.NoError(t, svc.Upsert("first", "1"))
	require.NoError(t, svc.Upsert("second", "2"))
	require.NoError(t, svc.Upsert("first", "updated"))

	require.Len(t, repo.rules, 2)
	assert.Equal(t, "first", repo.rules[0].Pattern)
	assert.Equal(t, "updated", repo.rules[0].Replacement)
	assert.Equal(t, "second", repo.rules[1].Pattern)
}

func TestUpsertRejectsInvalidPattern(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo)

	err := svc.Upsert("(unclosed", "x")

	assert.Error(t, err)
	assert.Zero(t, repo.saved, "invalid pattern must not touch the store")
}

func TestRemove(t *testing.T) {
	repo := &fakeRepo{rules: []domain.Rule{
		{Pattern: "a", Replacement: "1", Origin: domain.OriginUser},
		{Pattern: "b", Replacement: "2", Origin: domain.OriginUser},
	}}
	svc := newService(repo)

	require.NoError(t, svc.Remove("a"))

	require.Len(t, repo.rules, 1)
	assert.Equal(t, "b", repo.rules[0].Pattern)
}

func TestRemoveNotFound(t *testing.T) {
	svc := newService(&fakeRepo{})

	err := svc.Remove("missing")

	assert.ErrorIs(t, err, sharedErrors.ErrRuleNotFound)
}

func TestRemoveNeverTouchesStaticRules(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo, config.StaticRule{Pattern: "static", Replacement: "S"})

	err := svc.Remove("static")

	assert.ErrorIs(t, err, sharedErrors.ErrStaticRule)
	assert.Len(t, svc.StaticRules(), 1)
}

func TestTestReportsMatches(t *testing.T) {
	svc := newService(&fakeRepo{})

	report, err := svc.Test(`(?i)\bhello\b`, "Hello world, hello again")

	require.NoError(t, err)
	assert.Equal(t, []string{"Hello", "hello"}, report.Matches)
	assert.Equal(t, "*Hello* world, *hello* again", report.Highlighted)
}

func TestTestReportsNoMatches(t *testing.T) {
	svc := newService(&fakeRepo{})

	report, err := svc.Test("absent", "some sample text")

	require.NoError(t, err)
	assert.Empty(t, report.Matches)
	assert.Empty(t, report.Highlighted)
}

func TestTestInvalidPattern(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo)

	_, err := svc.Test("(unclosed", "sample")

	assert.Error(t, err)
	assert.Zero(t, repo.saved)
}
