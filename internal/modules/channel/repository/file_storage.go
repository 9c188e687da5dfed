package repository

import (
	"path/filepath"

	"github.com/samber/oops"

	"github.com/reshetovitsme/channel-editor-bot/internal/modules/channel/domain"
	"github.com/reshetovitsme/channel-editor-bot/internal/shared/recordfile"
)

// FileStorage implements channel.Repository on top of a recordfile store.
type FileStorage struct {
	store *recordfile.Store
}

// NewFileStorage creates a file-based channel registry. A missing backing
// file is seeded with the default identifier when one is configured,
// otherwise created empty.
func NewFileStorage(basePath string, defaultChannel string) (Repository, error) {
	var seed []domain.Identifier
	if defaultChannel != "" {
		seed = []domain.Identifier{domain.Canonicalize(defaultChannel)}
	} else {
		seed = []domain.Identifier{}
	}

	store, err := recordfile.New(filepath.Join(basePath, "monitored_channels.json"), seed)
	if err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to initialize channel store").Wrap(err)
	}

	return &FileStorage{store: store}, nil
}

func (s *FileStorage) LoadChannels() ([]domain.Identifier, error) {
	var channels []domain.Identifier
	if err := s.store.Load(&channels); err != nil {
		return nil, oops.With("context", "failed to load channels").Wrap(err)
	}
	return channels, nil
}

func (s *FileStorage) SaveChannels(channels []domain.Identifier) error {
	if err := s.store.Save(channels); err != nil {
		return oops.With("context", "failed to save channels").Wrap(err)
	}
	return nil
}
