package di

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	channelRepo "github.com/reshetovitsme/channel-editor-bot/internal/modules/channel/repository"
	channelService "github.com/reshetovitsme/channel-editor-bot/internal/modules/channel/service"
	correctionRepo "github.com/reshetovitsme/channel-editor-bot/internal/modules/correction/repository"
	correctionService "github.com/reshetovitsme/channel-editor-bot/internal/modules/correction/service"
	editorService "github.com/reshetovitsme/channel-editor-bot/internal/modules/editor/service"
	feedService "github.com/reshetovitsme/channel-editor-bot/internal/modules/feed/service"
	ruleRepo "github.com/reshetovitsme/channel-editor-bot/internal/modules/rule/repository"
	ruleService "github.com/reshetovitsme/channel-editor-bot/internal/modules/rule/service"
	transformService "github.com/reshetovitsme/channel-editor-bot/internal/modules/transform/service"
	userRepo "github.com/reshetovitsme/channel-editor-bot/internal/modules/user/repository"
	userService "github.com/reshetovitsme/channel-editor-bot/internal/modules/user/service"
	"github.com/reshetovitsme/channel-editor-bot/internal/shared/config"
	httpServer "github.com/reshetovitsme/channel-editor-bot/internal/transport/http"
	telegramHandler "github.com/reshetovitsme/channel-editor-bot/internal/transport/telegram"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register Rule Repository
	do.Provide(injector, func(i do.Injector) (ruleRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := ruleRepo.NewFileStorage(cfg.StoragePath)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize rule repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Channel Repository
	do.Provide(injector, func(i do.Injector) (channelRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := channelRepo.NewFileStorage(cfg.StoragePath, cfg.DefaultChannel)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize channel repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Correction Repository
	do.Provide(injector, func(i do.Injector) (correctionRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := correctionRepo.NewFileStorage(cfg.StoragePath)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize correction repository").Wrap(err)
		}
		return repo, nil
	})

	// Register User Repository
	do.Provide(injector, func(i do.Injector) (userRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := userRepo.NewFileStorage(cfg.StoragePath)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize user repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Rule Service
	do.Provide(injector, func(i do.Injector) (*ruleService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo := do.MustInvoke[ruleRepo.Repository](i)
		return ruleService.New(cfg, repo), nil
	})

	// Register Channel Service
	do.Provide(injector, func(i do.Injector) (*channelService.Service, error) {
		repo := do.MustInvoke[channelRepo.Repository](i)
		return channelService.New(repo), nil
	})

	// Register Correction Service
	do.Provide(injector, func(i do.Injector) (*correctionService.Service, error) {
		repo := do.MustInvoke[correctionRepo.Repository](i)
		return correctionService.New(repo), nil
	})

	// Register User Service
	do.Provide(injector, func(i do.Injector) (*userService.Service, error) {
		repo := do.MustInvoke[userRepo.Repository](i)
		return userService.New(repo), nil
	})

	// Register Transform Pipeline
	do.Provide(injector, func(i do.Injector) (*transformService.Pipeline, error) {
		cfg := do.MustInvoke[*config.Config](i)
		rules := do.MustInvoke[*ruleService.Service](i)
		converter, err := transformService.NewConverter(cfg.Time)
		if err != nil {
			return nil, oops.With("context", "failed to build timestamp converter").Wrap(err)
		}
		return transformService.New(rules, converter), nil
	})

	// Register Edit Escalator (transport attached once the bot exists)
	do.Provide(injector, func(i do.Injector) (*editorService.Escalator, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return editorService.New(cfg.ReplyOnEditFailure), nil
	})

	// Register Feed Service
	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		channels := do.MustInvoke[*channelService.Service](i)
		corrections := do.MustInvoke[*correctionService.Service](i)
		return feedService.New(channels, corrections), nil
	})

	// Register Telegram Handler
	do.Provide(injector, func(i do.Injector) (*telegramHandler.Handler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		rules := do.MustInvoke[*ruleService.Service](i)
		channels := do.MustInvoke[*channelService.Service](i)
		corrections := do.MustInvoke[*correctionService.Service](i)
		users := do.MustInvoke[*userService.Service](i)
		pipeline := do.MustInvoke[*transformService.Pipeline](i)
		escalator := do.MustInvoke[*editorService.Escalator](i)
		return telegramHandler.New(cfg, rules, channels, corrections, users, pipeline, escalator), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		feeds := do.MustInvoke[*feedService.Service](i)
		server := httpServer.New(cfg, feeds)
		server.SetLogger(slog.Default())
		return server, nil
	})

	// Register Bot (needs to be initialized after handlers are ready)
	do.Provide(injector, func(i do.Injector) (*bot.Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)
		handler := do.MustInvoke[*telegramHandler.Handler](i)

		opts := []bot.Option{
			bot.WithDefaultHandler(handler.HandleUpdate),
		}

		b, err := bot.New(cfg.TelegramBotToken, opts...)
		if err != nil {
			return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
		}

		// Register bot commands
		handler.RegisterCommands(b)

		// Attach the live transport to the escalator
		escalator := do.MustInvoke[*editorService.Escalator](i)
		escalator.SetTransport(telegramHandler.NewBotTransport(b))

		return b, nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	ctx := context.Background()

	// Shutdown bot if it exists
	if b, err := do.Invoke[*bot.Bot](injector); err == nil && b != nil {
		b.Close(ctx)
	}

	return nil
}
