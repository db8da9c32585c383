// Package main is the entrypoint of the message relay bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/relaybot/internal/bot"
	"github.com/edgard/relaybot/internal/bot/handlers"
	"github.com/edgard/relaybot/internal/bot/tasks"
	"github.com/edgard/relaybot/internal/config"
	"github.com/edgard/relaybot/internal/database"
	"github.com/edgard/relaybot/internal/logger"
	"github.com/edgard/relaybot/internal/relay"
	"github.com/edgard/relaybot/internal/resilience"
	"github.com/edgard/relaybot/internal/telegram"
)

const dbPingTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires config, logging, the optional journal database, the relay engine
// and the Telegram bot, then blocks until shutdown. It returns the exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to an optional YAML configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log, logCloser, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		return 1
	}
	defer func() {
		if err := logCloser.Close(); err != nil {
			slog.Error("Failed to close log file", "error", err)
		}
	}()
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON, "file", cfg.Logger.File)

	var (
		journal relay.Journal = relay.NopJournal{}
		sched   *bot.Scheduler
	)
	if cfg.Database.Enabled {
		db, err := database.NewDB(cfg.Database.Path)
		if err != nil {
			log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
			return 1
		}
		defer database.CloseDB(db)
		store := database.NewStore(db, log)

		pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
		err = store.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Error("Database health check failed", "path", cfg.Database.Path, "error", err)
			return 1
		}
		journal = store

		tDeps := tasks.TaskDeps{Logger: log, Store: store, Config: cfg}
		sched, err = bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
		if err != nil {
			log.Error("Failed to create scheduler", "error", err)
			return 1
		}
	} else {
		log.Info("Relay journal disabled")
	}

	// The engine needs the transport and the bot needs the handler, so the
	// client is bound to the bot once it exists.
	transport := &lateTransport{}
	engine := relay.NewEngine(log, relay.EngineConfig{
		AdminChatID: cfg.Telegram.AdminChatID,
		Buttons: relay.Buttons{
			ComposeNew: cfg.Telegram.Buttons.ComposeNew,
			Delete:     cfg.Telegram.Buttons.Delete,
			AdminReply: cfg.Telegram.Buttons.AdminReply,
		},
		Messages: cfg.Messages,
	}, relay.NewMemoryStore(), transport, journal)

	hDeps := handlers.HandlerDeps{
		Logger: log,
		Config: cfg,
		Engine: engine,
		Queue:  handlers.NewKeyedQueue(),
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log), handlers.KnownChatsOnly(hDeps)),
		tgbot.WithDefaultHandler(handlers.NewDispatchHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}
	var client relay.Transport = telegram.NewClient(tg, cfg.Telegram.Buttons)
	if cfg.Telegram.Breaker.Enabled {
		client = resilience.NewTransport(client, cfg.Telegram.Breaker, telegram.IsClientError, log)
	}
	transport.Transport = client

	cfg.Telegram.BotInfo, err = tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	if err := telegram.SetCommands(ctx, tg, log, cfg.Telegram.AdminChatID, handlers.UserCommands(), handlers.AdminCommands()); err != nil {
		log.Warn("Failed to register bot commands", "error", err)
	}

	app := bot.NewBot(log, tg, sched)

	log.Info("Starting relay bot...", "admin_chat_id", cfg.Telegram.AdminChatID)
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}

// lateTransport forwards to a Transport assigned after construction.
type lateTransport struct {
	relay.Transport
}
