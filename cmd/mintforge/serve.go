package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/blocto/solana-go-sdk/client"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/mintforgehq/mintforge/internal/bot"
	"github.com/mintforgehq/mintforge/internal/chain"
	"github.com/mintforgehq/mintforge/internal/config"
	"github.com/mintforgehq/mintforge/internal/dispatch"
	"github.com/mintforgehq/mintforge/internal/handlers"
	"github.com/mintforgehq/mintforge/internal/healthcheck"
	"github.com/mintforgehq/mintforge/internal/logger"
	"github.com/mintforgehq/mintforge/internal/minting"
	"github.com/mintforgehq/mintforge/internal/pinning"
	"github.com/mintforgehq/mintforge/internal/server"
	"github.com/mintforgehq/mintforge/internal/session"
	"github.com/mintforgehq/mintforge/internal/uploader"
	"github.com/mintforgehq/mintforge/internal/version"
	"github.com/mintforgehq/mintforge/internal/wizard"
)

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBotAPI,
			providePinata,
			providePinningClient,
			provideSolanaClient,
			provideImporter,
			provideUploader,
			provideMintClient,
			provideAuthenticator,
			provideOrchestrator,
			provideDispatcher,
			session.NewStore,
			provideController,
			providePoller,
			provideHealthRegistry,
			handlers.NewPingHandler,
			handlers.NewHealthHandler,
			provideServer,
		),
		fx.Invoke(
			startPoller,
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideConfig() (config.Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideBotAPI(cfg config.Config) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return nil, fmt.Errorf("telegram connect: %w", err)
	}
	return api, nil
}

func providePinata(log *slog.Logger, cfg config.Config) (*pinning.Pinata, error) {
	return pinning.NewPinata(log, cfg.Pinning)
}

func providePinningClient(pinata *pinning.Pinata) pinning.Client {
	return pinata
}

func provideSolanaClient(cfg config.Config) *client.Client {
	return client.NewClient(cfg.Solana.RPCURL)
}

func provideImporter(log *slog.Logger, cfg config.Config, sol *client.Client) *chain.Importer {
	primary := chain.NewMetaplexResolver(sol)
	var secondary chain.Resolver
	if cfg.Solana.DiscoveryURL != "" {
		secondary = chain.NewDiscoveryResolver(cfg.Solana.DiscoveryURL)
	}
	return chain.NewImporter(log, primary, secondary)
}

func provideUploader(log *slog.Logger, api *tgbotapi.BotAPI, pins pinning.Client) *uploader.Uploader {
	return uploader.NewUploader(log, api, pins)
}

func provideMintClient(log *slog.Logger, cfg config.Config) *minting.Client {
	return minting.NewClient(log, cfg.Minting)
}

func provideAuthenticator(log *slog.Logger, cfg config.Config) *minting.HTTPAuthenticator {
	return minting.NewAuthenticator(log, cfg.Identity)
}

func provideOrchestrator(log *slog.Logger, pins pinning.Client, minter *minting.Client, cfg config.Config) *minting.Orchestrator {
	return minting.NewOrchestrator(log, pins, minter,
		cfg.Minting.FallbackAccount,
		cfg.Solana.ExplorerTxBase,
		cfg.Solana.ExplorerMintBase)
}

func provideDispatcher(log *slog.Logger, api *tgbotapi.BotAPI) *dispatch.Dispatcher {
	return dispatch.NewDispatcher(log, api)
}

func provideController(
	log *slog.Logger,
	store *session.Store,
	importer *chain.Importer,
	uploads *uploader.Uploader,
	auth *minting.HTTPAuthenticator,
	orchestrator *minting.Orchestrator,
	dispatcher *dispatch.Dispatcher,
	cfg config.Config,
) *wizard.Controller {
	return wizard.NewController(log, store, importer, uploads, auth, orchestrator, dispatcher, cfg.Wizard)
}

func providePoller(log *slog.Logger, api *tgbotapi.BotAPI, controller *wizard.Controller, cfg config.Config) *bot.Poller {
	return bot.NewPoller(log, api, controller, cfg.Telegram)
}

func provideHealthRegistry(log *slog.Logger, api *tgbotapi.BotAPI, pinata *pinning.Pinata, sol *client.Client) *healthcheck.Registry {
	return healthcheck.NewRegistry(log,
		healthcheck.NewTelegramChecker(api),
		healthcheck.NewPinningChecker(pinata),
		healthcheck.NewSolanaChecker(sol),
	)
}

func provideServer(cfg config.Config, pingHandler *handlers.PingHandler, healthHandler *handlers.HealthHandler) *server.Server {
	return server.NewServer(cfg.Server.Addr, pingHandler, healthHandler)
}

func startPoller(lc fx.Lifecycle, poller *bot.Poller) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error { return poller.Start(ctx) },
		OnStop:  func(ctx context.Context) error { return poller.Stop(ctx) },
	})
}

func startServer(lc fx.Lifecycle, logger *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	fmt.Printf("Starting MintForge %s\n", version.Version)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
