package repository

import (
	"time"

	"github.com/reshetovitsme/channel-editor-bot/internal/modules/correction/domain"
)

// Repository defines the interface for correction audit-log persistence
type Repository interface {
	SaveCorrection(correction *domain.Correction) error
	GetCorrections(channelID string, limit int) ([]*domain.Correction, error)
	GetRecentCorrections(channelID string, since time.Time) ([]*domain.Correction, error)
}
