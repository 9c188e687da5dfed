package repository

import (
	"github.com/reshetovitsme/channel-editor-bot/internal/modules/channel/domain"
)

// Repository defines the interface for the monitored-channel registry. The
// stored sequence keeps insertion order.
type Repository interface {
	LoadChannels() ([]domain.Identifier, error)
	SaveChannels(channels []domain.Identifier) error
}
