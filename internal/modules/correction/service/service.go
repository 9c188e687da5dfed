package service

import (
	"time"

	"github.com/reshetovitsme/channel-editor-bot/internal/modules/correction/domain"
	"github.com/reshetovitsme/channel-editor-bot/internal/modules/correction/repository"
)

// Service handles the correction audit log
type Service struct {
	repo repository.Repository
}

// New creates a new correction service
func New(repo repository.Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// Record saves one delivered correction
func (s *Service) Record(correction *domain.Correction) error {
	return s.repo.SaveCorrection(correction)
}

// GetCorrections retrieves recent corrections for a channel
func (s *Service) GetCorrections(channelID string, limit int) ([]*domain.Correction, error) {
	return s.repo.GetCorrections(channelID, limit)
}

// GetRecentCorrections retrieves corrections applied since a given time
func (s *Service) GetRecentCorrections(channelID string, since time.Time) ([]*domain.Correction, error) {
	return s.repo.GetRecentCorrections(channelID, since)
}
