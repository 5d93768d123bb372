package di

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	adminRepo "github.com/mraprguild/guardbot/internal/modules/admin/repository"
	adminService "github.com/mraprguild/guardbot/internal/modules/admin/service"
	channelRepo "github.com/mraprguild/guardbot/internal/modules/channel/repository"
	channelService "github.com/mraprguild/guardbot/internal/modules/channel/service"
	counterRepo "github.com/mraprguild/guardbot/internal/modules/counter/repository"
	eventRepo "github.com/mraprguild/guardbot/internal/modules/event/repository"
	keywordRepo "github.com/mraprguild/guardbot/internal/modules/keyword/repository"
	keywordService "github.com/mraprguild/guardbot/internal/modules/keyword/service"
	moderationService "github.com/mraprguild/guardbot/internal/modules/moderation/service"
	searchService "github.com/mraprguild/guardbot/internal/modules/search/service"
	settingsRepo "github.com/mraprguild/guardbot/internal/modules/settings/repository"
	settingsService "github.com/mraprguild/guardbot/internal/modules/settings/service"
	shortenerService "github.com/mraprguild/guardbot/internal/modules/shortener/service"
	statsService "github.com/mraprguild/guardbot/internal/modules/stats/service"
	"github.com/mraprguild/guardbot/internal/shared/config"
	"github.com/mraprguild/guardbot/internal/storage"
	httpServer "github.com/mraprguild/guardbot/internal/transport/http"
	telegramHandler "github.com/mraprguild/guardbot/internal/transport/telegram"
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

	// Register Store
	do.Provide(injector, func(i do.Injector) (*storage.Store, error) {
		cfg := do.MustInvoke[*config.Config](i)
		store, err := storage.New(cfg.StoragePath)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize store").Wrap(err)
		}
		return store, nil
	})

	// Register Repositories
	do.Provide(injector, func(i do.Injector) (adminRepo.Repository, error) {
		return adminRepo.NewStoreStorage(do.MustInvoke[*storage.Store](i)), nil
	})
	do.Provide(injector, func(i do.Injector) (channelRepo.Repository, error) {
		return channelRepo.NewStoreStorage(do.MustInvoke[*storage.Store](i)), nil
	})
	do.Provide(injector, func(i do.Injector) (keywordRepo.Repository, error) {
		return keywordRepo.NewStoreStorage(do.MustInvoke[*storage.Store](i)), nil
	})
	do.Provide(injector, func(i do.Injector) (counterRepo.Repository, error) {
		return counterRepo.NewStoreStorage(do.MustInvoke[*storage.Store](i)), nil
	})
	do.Provide(injector, func(i do.Injector) (eventRepo.Repository, error) {
		return eventRepo.NewStoreStorage(do.MustInvoke[*storage.Store](i)), nil
	})
	do.Provide(injector, func(i do.Injector) (settingsRepo.Repository, error) {
		return settingsRepo.NewStoreStorage(do.MustInvoke[*storage.Store](i)), nil
	})

	// Register Admin Service
	do.Provide(injector, func(i do.Injector) (*adminService.Service, error) {
		return adminService.New(do.MustInvoke[adminRepo.Repository](i)), nil
	})

	// Register Channel Service
	do.Provide(injector, func(i do.Injector) (*channelService.Service, error) {
		repo := do.MustInvoke[channelRepo.Repository](i)
		admins := do.MustInvoke[*adminService.Service](i)
		return channelService.New(repo, admins), nil
	})

	// Register Keyword Service
	do.Provide(injector, func(i do.Injector) (*keywordService.Service, error) {
		repo := do.MustInvoke[keywordRepo.Repository](i)
		admins := do.MustInvoke[*adminService.Service](i)
		return keywordService.New(repo, admins), nil
	})

	// Register Settings Service
	do.Provide(injector, func(i do.Injector) (*settingsService.Service, error) {
		repo := do.MustInvoke[settingsRepo.Repository](i)
		admins := do.MustInvoke[*adminService.Service](i)
		return settingsService.New(repo, admins), nil
	})

	// Register Moderation Service (transport attached with the bot below)
	do.Provide(injector, func(i do.Injector) (*moderationService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		admins := do.MustInvoke[*adminService.Service](i)
		channels := do.MustInvoke[*channelService.Service](i)
		keywords := do.MustInvoke[*keywordService.Service](i)
		counters := do.MustInvoke[counterRepo.Repository](i)
		events := do.MustInvoke[eventRepo.Repository](i)
		return moderationService.New(admins, channels, keywords, counters, events, cfg.WarnOnBlock), nil
	})

	// Register Stats Service
	do.Provide(injector, func(i do.Injector) (*statsService.Service, error) {
		return statsService.New(
			do.MustInvoke[adminRepo.Repository](i),
			do.MustInvoke[channelRepo.Repository](i),
			do.MustInvoke[keywordRepo.Repository](i),
			do.MustInvoke[counterRepo.Repository](i),
			do.MustInvoke[eventRepo.Repository](i),
			do.MustInvoke[*storage.Store](i),
		), nil
	})

	// Register Movie Catalog
	do.Provide(injector, func(i do.Injector) (searchService.Searcher, error) {
		return searchService.NewCatalog(), nil
	})

	// Register URL Shortener
	do.Provide(injector, func(i do.Injector) (*shortenerService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return shortenerService.New(cfg.ShortenerURL, cfg.ShortenerAPIKey), nil
	})

	// Register Telegram Handler
	do.Provide(injector, func(i do.Injector) (*telegramHandler.Handler, error) {
		return telegramHandler.New(
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*adminService.Service](i),
			do.MustInvoke[*channelService.Service](i),
			do.MustInvoke[*keywordService.Service](i),
			do.MustInvoke[*moderationService.Service](i),
			do.MustInvoke[*settingsService.Service](i),
			do.MustInvoke[*statsService.Service](i),
			do.MustInvoke[searchService.Searcher](i),
			do.MustInvoke[*shortenerService.Service](i),
		), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		stats := do.MustInvoke[*statsService.Service](i)
		server := httpServer.New(cfg, stats)
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

		// Attach the transport to the moderation engine
		moderation := do.MustInvoke[*moderationService.Service](i)
		moderation.SetTransport(telegramHandler.NewBotTransport(b))

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
