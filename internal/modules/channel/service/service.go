package service

import (
	"log/slog"
	"strconv"

	"github.com/samber/oops"

	"github.com/reshetovitsme/channel-editor-bot/internal/modules/channel/domain"
	"github.com/reshetovitsme/channel-editor-bot/internal/modules/channel/repository"
	"github.com/reshetovitsme/channel-editor-bot/internal/shared/errors"
)

// Service manages the monitored-channel registry and routes inbound posts.
type Service struct {
	repo repository.Repository
}

// New creates a channel service.
func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// Add registers a channel. The raw reference is canonicalized before the
// duplicate check, so "@Name" and "@name" are the same registration.
func (s *Service) Add(raw string) (domain.Identifier, error) {
	id := domain.Canonicalize(raw)

	channels, err := s.repo.LoadChannels()
	if err != nil {
		return id, oops.With("identifier", string(id), "context", "failed to load channels").Wrap(err)
	}

	for _, existing := range channels {
		if existing == id {
			return id, errors.ErrChannelExists
		}
	}

	channels = append(channels, id)
	if err := s.repo.SaveChannels(channels); err != nil {
		return id, oops.With("identifier", string(id), "context", "failed to save channels").Wrap(err)
	}

	return id, nil
}

// Remove unregisters a channel. The argument goes through the same
// canonicalization as Add, so any casing or "@" convention that added a
// channel also removes it.
func (s *Service) Remove(raw string) error {
	id := domain.Canonicalize(raw)

	channels, err := s.repo.LoadChannels()
	if err != nil {
		return oops.With("identifier", string(id), "context", "failed to load channels").Wrap(err)
	}

	idx := -1
	for i, existing := range channels {
		if existing == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errors.ErrChannelNotFound
	}

	channels = append(channels[:idx], channels[idx+1:]...)
	if err := s.repo.SaveChannels(channels); err != nil {
		return oops.With("identifier", string(id), "context", "failed to save channels").Wrap(err)
	}

	return nil
}

// List returns registered identifiers in insertion order.
func (s *Service) List() ([]domain.Identifier, error) {
	return s.repo.LoadChannels()
}

// Accepts decides whether a post from the given chat should be processed.
// An empty registry accepts every post; this is the bootstrap mode that
// lets the bot run before any channel is registered.
func (s *Service) Accepts(chatID int64, username string) bool {
	channels, err := s.repo.LoadChannels()
	if err != nil {
		slog.Error("Failed to load channels, rejecting post", "chat_id", chatID, "error", err)
		return false
	}

	if len(channels) == 0 {
		return true
	}

	chatIDStr := strconv.FormatInt(chatID, 10)
	for _, id := range channels {
		if id.MatchesChat(chatIDStr, username) {
			return true
		}
	}

	return false
}
