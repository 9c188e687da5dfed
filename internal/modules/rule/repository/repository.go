package repository

import (
	"github.com/reshetovitsme/channel-editor-bot/internal/modules/rule/domain"
)

// Repository defines the interface for user-rule persistence. The stored
// sequence keeps insertion order; implementations load and replace it as a
// whole.
type Repository interface {
	LoadRules() ([]domain.Rule, error)
	SaveRules(rules []domain.Rule) error
}
