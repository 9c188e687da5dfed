package repository

import (
	"path/filepath"

	"github.com/samber/lo"
	"github.com/samber/oops"

	"github.com/reshetovitsme/channel-editor-bot/internal/modules/rule/domain"
	"github.com/reshetovitsme/channel-editor-bot/internal/shared/recordfile"
)

// Rules are persisted as an ordered sequence of two-element records
// [pattern, replacement], the same layout the bot has always written.
type record [2]string

// FileStorage implements rule.Repository on top of a recordfile store.
type FileStorage struct {
	store *recordfile.Store
}

// NewFileStorage creates a file-based user-rule repository. A missing
// backing file is created empty.
func NewFileStorage(basePath string) (Repository, error) {
	store, err := recordfile.New(filepath.Join(basePath, "user_rules.json"), []record{})
	if err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to initialize rule store").Wrap(err)
	}

	return &FileStorage{store: store}, nil
}

func (s *FileStorage) LoadRules() ([]domain.Rule, error) {
	var records []record
	if err := s.store.Load(&records); err != nil {
		return nil, oops.With("context", "failed to load user rules").Wrap(err)
	}

	rules := lo.Map(records, func(r record, _ int) domain.Rule {
		return domain.Rule{
			Pattern:     r[0],
			Replacement: r[1],
			Origin:      domain.OriginUser,
		}
	})

	return rules, nil
}

func (s *FileStorage) SaveRules(rules []domain.Rule) error {
	records := lo.Map(rules, func(r domain.Rule, _ int) record {
		return record{r.Pattern, r.Replacement}
	})

	if err := s.store.Save(records); err != nil {
		return oops.With("context", "failed to save user rules").Wrap(err)
	}

	return nil
}
