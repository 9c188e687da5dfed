package service

import (
	"fmt"

	"github.com/gorilla/feeds"
	"github.com/samber/lo"
	"github.com/samber/oops"

	channelDomain "github.com/reshetovitsme/channel-editor-bot/internal/modules/channel/domain"
	channelService "github.com/reshetovitsme/channel-editor-bot/internal/modules/channel/service"
	"github.com/reshetovitsme/channel-editor-bot/internal/modules/correction/domain"
	correctionService "github.com/reshetovitsme/channel-editor-bot/internal/modules/correction/service"
	"github.com/reshetovitsme/channel-editor-bot/internal/shared/errors"
)

const feedItemLimit = 50

// Service renders the correction audit log of a channel as an RSS feed.
type Service struct {
	channels    *channelService.Service
	corrections *correctionService.Service
}

// New creates a new feed service
func New(channels *channelService.Service, corrections *correctionService.Service) *Service {
	return &Service{
		channels:    channels,
		corrections: corrections,
	}
}

// GenerateFeed builds an RSS feed of the recent corrections applied in one
// monitored channel.
func (s *Service) GenerateFeed(channelID string, baseURL string) (*feeds.Feed, error) {
	registered, err := s.channels.List()
	if err != nil {
		return nil, oops.With("channel_id", channelID, "context", "failed to list channels").Wrap(err)
	}

	id := channelDomain.Canonicalize(channelID)
	if !lo.Contains(registered, id) {
		return nil, errors.ErrChannelNotFound
	}

	corrections, err := s.corrections.GetCorrections(channelID, feedItemLimit)
	if err != nil {
		return nil, oops.With("channel_id", channelID, "context", "failed to get corrections").Wrap(err)
	}

	feed := &feeds.Feed{
		Title:       fmt.Sprintf("Corrections for %s", channelID),
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/corrections/%s", baseURL, channelID)},
		Description: fmt.Sprintf("Messages rewritten by the channel editor bot in %s", channelID),
	}

	feed.Items = lo.Map(corrections, func(c *domain.Correction, _ int) *feeds.Item {
		return s.correctionToFeedItem(c)
	})

	return feed, nil
}

func (s *Service) correctionToFeedItem(c *domain.Correction) *feeds.Item {
	kind := "Message"
	if c.IsCaption {
		kind = "Caption"
	}

	return &feeds.Item{
		Title:       fmt.Sprintf("%s %d corrected", kind, c.MessageID),
		Description: fmt.Sprintf("Original:\n%s\n\nCorrected:\n%s", c.Original, c.Corrected),
		Created:     c.Date,
		Id:          fmt.Sprintf("%s-%d", c.ChannelID, c.MessageID),
	}
}
