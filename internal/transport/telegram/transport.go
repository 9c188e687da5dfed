package telegram

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// BotTransport adapts the bot client to the escalator's Transport
// interface.
type BotTransport struct {
	bot *bot.Bot
}

// NewBotTransport creates a transport backed by the given bot client.
func NewBotTransport(b *bot.Bot) *BotTransport {
	return &BotTransport{bot: b}
}

func (t *BotTransport) EditText(ctx context.Context, chatID int64, messageID int, text string, entities []models.MessageEntity) error {
	_, err := t.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
		Entities:  entities,
	})
	return err
}

func (t *BotTransport) EditCaption(ctx context.Context, chatID int64, messageID int, caption string, entities []models.MessageEntity) error {
	_, err := t.bot.EditMessageCaption(ctx, &bot.EditMessageCaptionParams{
		ChatID:          chatID,
		MessageID:       messageID,
		Caption:         caption,
		CaptionEntities: entities,
	})
	return err
}

func (t *BotTransport) SendMessage(ctx context.Context, chatID int64, text string, replyToMessageID int) error {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if replyToMessageID != 0 {
		params.ReplyParameters = &models.ReplyParameters{MessageID: replyToMessageID}
	}

	_, err := t.bot.SendMessage(ctx, params)
	return err
}
