package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/reshetovitsme/channel-editor-bot/internal/modules/correction/domain"
	"github.com/samber/oops"
)

// FileStorage implements correction.Repository using the file system
type FileStorage struct {
	basePath string
	mu       sync.RWMutex
}

// NewFileStorage creates a file-based correction repository
func NewFileStorage(basePath string) (Repository, error) {
	correctionPath := filepath.Join(basePath, "corrections")
	if err := os.MkdirAll(correctionPath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create corrections directory").Wrap(err)
	}

	return &FileStorage{basePath: correctionPath}, nil
}

func (s *FileStorage) SaveCorrection(correction *domain.Correction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Corrections are grouped per channel
	dir := filepath.Join(s.basePath, correction.ChannelID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return oops.With("correction_dir", dir, "context", "failed to create correction directory").Wrap(err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%d.json", correction.MessageID))
	data, err := json.MarshalIndent(correction, "", "  ")
	if err != nil {
		return oops.With("channel_id", correction.ChannelID, "message_id", correction.MessageID, "context", "failed to marshal correction").Wrap(err)
	}

	return os.WriteFile(path, data, 0644)
}

func (s *FileStorage) GetCorrections(channelID string, limit int) ([]*domain.Correction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dir := filepath.Join(s.basePath, channelID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.Correction{}, nil
		}
		return nil, oops.With("channel_id", channelID, "correction_dir", dir, "context", "failed to read corrections directory").Wrap(err)
	}

	var corrections []*domain.Correction
	count := 0
	for i := len(entries) - 1; i >= 0 && count < limit; i-- {
		entry := entries[i]
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		correction, err := s.readCorrection(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}

		corrections = append(corrections, correction)
		count++
	}

	return corrections, nil
}

func (s *FileStorage) GetRecentCorrections(channelID string, since time.Time) ([]*domain.Correction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dir := filepath.Join(s.basePath, channelID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.Correction{}, nil
		}
		return nil, oops.With("channel_id", channelID, "correction_dir", dir, "context", "failed to read corrections directory").Wrap(err)
	}

	var corrections []*domain.Correction
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		correction, err := s.readCorrection(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}

		if correction.Date.After(since) {
			corrections = append(corrections, correction)
		}
	}

	return corrections, nil
}

func (s *FileStorage) readCorrection(path string) (*domain.Correction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var correction domain.Correction
	if err := json.Unmarshal(data, &correction); err != nil {
		return nil, err
	}

	return &correction, nil
}
