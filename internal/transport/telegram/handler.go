package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	channelService "github.com/reshetovitsme/channel-editor-bot/internal/modules/channel/service"
	correctionDomain "github.com/reshetovitsme/channel-editor-bot/internal/modules/correction/domain"
	correctionService "github.com/reshetovitsme/channel-editor-bot/internal/modules/correction/service"
	editorService "github.com/reshetovitsme/channel-editor-bot/internal/modules/editor/service"
	ruleService "github.com/reshetovitsme/channel-editor-bot/internal/modules/rule/service"
	transformService "github.com/reshetovitsme/channel-editor-bot/internal/modules/transform/service"
	userDomain "github.com/reshetovitsme/channel-editor-bot/internal/modules/user/domain"
	userService "github.com/reshetovitsme/channel-editor-bot/internal/modules/user/service"
	"github.com/reshetovitsme/channel-editor-bot/internal/shared/config"
	sharedErrors "github.com/reshetovitsme/channel-editor-bot/internal/shared/errors"
)

// Handler handles Telegram bot interactions
type Handler struct {
	cfg               *config.Config
	ruleService       *ruleService.Service
	channelService    *channelService.Service
	correctionService *correctionService.Service
	userService       *userService.Service
	pipeline          *transformService.Pipeline
	escalator         *editorService.Escalator
}

// New creates a new Telegram handler
func New(
	cfg *config.Config,
	ruleService *ruleService.Service,
	channelService *channelService.Service,
	correctionService *correctionService.Service,
	userService *userService.Service,
	pipeline *transformService.Pipeline,
	escalator *editorService.Escalator,
) *Handler {
	return &Handler{
		cfg:               cfg,
		ruleService:       ruleService,
		channelService:    channelService,
		correctionService: correctionService,
		userService:       userService,
		pipeline:          pipeline,
		escalator:         escalator,
	}
}

// RegisterCommands registers bot commands
func (h *Handler) RegisterCommands(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, h.handleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, h.handleHelp)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/status", bot.MatchTypeExact, h.handleStatus)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/filters", bot.MatchTypeExact, h.handleFilters)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/addfilter", bot.MatchTypePrefix, h.handleAddFilter)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/removefilter", bot.MatchTypePrefix, h.handleRemoveFilter)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/testfilter", bot.MatchTypePrefix, h.handleTestFilter)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/channels", bot.MatchTypeExact, h.handleChannels)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/addchannel", bot.MatchTypePrefix, h.handleAddChannel)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/removechannel", bot.MatchTypePrefix, h.handleRemoveChannel)
}

// HandleUpdate processes incoming updates that are not commands
func (h *Handler) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.ChannelPost != nil {
		h.ProcessChannelPost(ctx, update.ChannelPost)
	} else if update.Message != nil && update.Message.Chat.Type == "channel" {
		h.ProcessChannelPost(ctx, update.Message)
	}
}

// ProcessChannelPost runs one channel post through the full pipeline:
// routing, transformation and tiered delivery of the correction.
func (h *Handler) ProcessChannelPost(ctx context.Context, msg *models.Message) {
	if msg == nil {
		return
	}

	if !h.channelService.Accepts(msg.Chat.ID, msg.Chat.Username) {
		slog.Info("Ignoring post from non-monitored channel", "chat_id", msg.Chat.ID)
		return
	}

	var (
		body      string
		entities  []models.MessageEntity
		isCaption bool
	)
	switch {
	case msg.Text != "" && h.cfg.ProcessText:
		body = msg.Text
		entities = msg.Entities
	case msg.Caption != "" && h.cfg.ProcessCaptions:
		body = msg.Caption
		entities = msg.CaptionEntities
		isCaption = true
	default:
		return
	}

	slog.Info("Processing post", "chat_id", msg.Chat.ID, "message_id", msg.ID, "caption", isCaption)

	result := h.pipeline.Process(body)
	if !result.Changed(body) {
		slog.Info("No changes needed", "chat_id", msg.Chat.ID, "message_id", msg.ID)
		return
	}

	outcome, attempts := h.escalator.Deliver(ctx, editorService.Request{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Original:  body,
		Corrected: result.Text,
		Entities:  entities,
		IsCaption: isCaption,
	})

	switch outcome {
	case editorService.OutcomeDelivered:
		tier := attempts[len(attempts)-1].Tier
		slog.Info("Correction delivered", "chat_id", msg.Chat.ID, "message_id", msg.ID, "tier", tier)
		h.recordCorrection(msg, body, result.Text, string(tier), isCaption)
	case editorService.OutcomeSuppressed:
		slog.Error("Correction suppressed, message left as posted", "chat_id", msg.Chat.ID, "message_id", msg.ID)
	}
}

func (h *Handler) recordCorrection(msg *models.Message, original, corrected, tier string, isCaption bool) {
	correction := &correctionDomain.Correction{
		MessageID: int64(msg.ID),
		ChannelID: strconv.FormatInt(msg.Chat.ID, 10),
		Original:  original,
		Corrected: corrected,
		Tier:      tier,
		IsCaption: isCaption,
		Date:      time.Now(),
	}
	if err := h.correctionService.Record(correction); err != nil {
		slog.Error("Failed to record correction", "chat_id", msg.Chat.ID, "message_id", msg.ID, "error", err)
	}
}

func (h *Handler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		slog.Error("Failed to send reply", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) checkAuthorization(userID int64) bool {
	return h.userService.IsAuthorized(userID, h.cfg.AllowedUsers)
}

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID

	if !h.checkAuthorization(userID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ You are not authorized to use this bot.")
		return
	}

	// Remember the first user as admin when no restrictions are configured
	if len(h.cfg.AllowedUsers) == 0 {
		user := &userDomain.User{
			ID:       userID,
			Username: update.Message.From.Username,
			AddedAt:  time.Now(),
			IsAdmin:  true,
		}
		if err := h.userService.SaveUser(user); err != nil {
			slog.Error("Failed to save user", "error", err, "user_id", userID)
		}
	}

	h.reply(ctx, b, update.Message.Chat.ID,
		"👋 Hi! I'm a channel message editor bot. I automatically edit messages in the configured channels.\n\n"+
			"I apply text filters and convert timestamps between timezones.\n\n"+
			"Add me to your channel as an admin with edit permissions to get started.\n\n"+
			"Type /help to see available commands.")
}

func (h *Handler) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.reply(ctx, b, update.Message.Chat.ID,
		`🤖 How to use this bot:

1️⃣ Add this bot to your channel as an admin
2️⃣ Give it permission to post and edit messages
3️⃣ Add your channel to the bot's monitoring list
4️⃣ The bot will automatically edit new messages to apply text filters and convert timestamps

Channel management commands:
/channels - List all monitored channels
/addchannel channel_id - Add a channel to monitor
/removechannel channel_id - Remove a channel from monitoring

Filter management commands:
/filters - List all current text filters
/addfilter pattern replacement - Add a new filter
/removefilter pattern - Remove a filter
/testfilter sample_text regex_pattern - Test a regex pattern on sample text`)
}

func (h *Handler) handleStatus(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	if !h.checkAuthorization(update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Unauthorized")
		return
	}

	channels, err := h.channelService.List()
	if err != nil {
		slog.Error("Failed to list channels for status", "error", err)
	}
	userRules, err := h.ruleService.UserRules()
	if err != nil {
		slog.Error("Failed to list user rules for status", "error", err)
	}

	h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"📊 Bot Status\n\n"+
			"✅ Bot is running and monitoring channels\n\n"+
			"%s\n"+
			"%s\n"+
			"Time conversion: %s",
		FormatChannels(channels),
		FormatRules(h.ruleService.StaticRules(), userRules),
		h.describeTimePolicy()))
}

func (h *Handler) describeTimePolicy() string {
	if h.cfg.Time.Mode == config.TimeModeTimezone {
		return fmt.Sprintf("converts timestamps from %s to %s", h.cfg.Time.SourceTimezone, h.cfg.Time.TargetTimezone)
	}
	return fmt.Sprintf("adds %d:%02d hours to all timestamps", h.cfg.Time.OffsetHours, h.cfg.Time.OffsetMinutes)
}

func (h *Handler) handleFilters(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	if !h.checkAuthorization(update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Unauthorized")
		return
	}

	userRules, err := h.ruleService.UserRules()
	if err != nil {
		slog.Error("Failed to load user rules", "error", err)
	}

	h.reply(ctx, b, update.Message.Chat.ID, FormatRules(h.ruleService.StaticRules(), userRules))
}

func (h *Handler) handleAddFilter(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	if !h.checkAuthorization(update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Unauthorized")
		return
	}

	args := strings.Fields(update.Message.Text)[1:]
	if len(args) < 2 {
		h.reply(ctx, b, update.Message.Chat.ID,
			"❌ Usage: /addfilter pattern replacement\n\n"+
				"Example: /addfilter (?i)\\b(hello)\\b HELLO\n\n"+
				"This would replace all instances of 'hello' (case insensitive) with 'HELLO'")
		return
	}

	pattern := args[0]
	replacement := strings.Join(args[1:], " ")

	if err := h.ruleService.Upsert(pattern, replacement); err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Invalid regex pattern: %v", err))
		return
	}

	h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"✅ Filter added successfully!\n\nPattern: %s\nReplacement: %s", pattern, replacement))
}

func (h *Handler) handleRemoveFilter(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	if !h.checkAuthorization(update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Unauthorized")
		return
	}

	args := strings.Fields(update.Message.Text)[1:]
	if len(args) == 0 {
		h.reply(ctx, b, update.Message.Chat.ID,
			"❌ Usage: /removefilter pattern\n\nExample: /removefilter (?i)\\b(hello)\\b")
		return
	}

	pattern := args[0]
	if err := h.ruleService.Remove(pattern); err != nil {
		if errors.Is(err, sharedErrors.ErrStaticRule) {
			h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Filter %s comes from the config file and cannot be removed here.", pattern))
			return
		}
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ No filter found with pattern %s.", pattern))
		return
	}

	h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ Filter with pattern %s removed.", pattern))
}

func (h *Handler) handleTestFilter(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	if !h.checkAuthorization(update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Unauthorized")
		return
	}

	args := strings.Fields(update.Message.Text)[1:]
	if len(args) < 2 {
		h.reply(ctx, b, update.Message.Chat.ID,
			"❌ Usage: /testfilter sample_text pattern\n\n"+
				"Example: /testfilter hello (?i)\\b(hello)\\b")
		return
	}

	sample := args[0]
	pattern := args[1]

	report, err := h.ruleService.Test(pattern, sample)
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Error in regex pattern: %v", err))
		return
	}

	h.reply(ctx, b, update.Message.Chat.ID, "Test result:\n\n"+FormatMatchReport(report))
}

func (h *Handler) handleChannels(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	if !h.checkAuthorization(update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Unauthorized")
		return
	}

	channels, err := h.channelService.List()
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to list channels: %v", err))
		return
	}

	h.reply(ctx, b, update.Message.Chat.ID, FormatChannels(channels))
}

func (h *Handler) handleAddChannel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	if !h.checkAuthorization(update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Unauthorized")
		return
	}

	args := strings.Fields(update.Message.Text)[1:]
	if len(args) == 0 {
		h.reply(ctx, b, update.Message.Chat.ID,
			"❌ Usage: /addchannel channel_id\n\nExamples:\n/addchannel @channelname\n/addchannel -1001234567890")
		return
	}

	id, err := h.channelService.Add(args[0])
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ %v", err))
		return
	}

	h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ Channel %s added to monitoring list.", id))
}

func (h *Handler) handleRemoveChannel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	if !h.checkAuthorization(update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Unauthorized")
		return
	}

	args := strings.Fields(update.Message.Text)[1:]
	if len(args) == 0 {
		h.reply(ctx, b, update.Message.Chat.ID,
			"❌ Usage: /removechannel channel_id\n\nExamples:\n/removechannel @channelname\n/removechannel -1001234567890")
		return
	}

	if err := h.channelService.Remove(args[0]); err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Channel %s not found in monitoring list.", args[0]))
		return
	}

	h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ Channel %s removed from monitoring list.", args[0]))
}
