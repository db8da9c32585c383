// Package telegram adapts the go-telegram/bot client to the relay engine:
// it creates the bot, converts updates into relay.Inbound values and
// implements relay.Transport.
package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewTelegramBot creates a new Telegram bot instance using the go-telegram/bot library.
func NewTelegramBot(token string, logger *slog.Logger, opts ...bot.Option) (*bot.Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "telegram_bot")

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Error("Failed to create Telegram bot instance", "error", err)
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.Info("Telegram bot instance created successfully", "token_prefix", tokenPrefix(token))
	return b, nil
}

func tokenPrefix(token string) string {
	if len(token) <= 8 {
		return "..."
	}
	return token[:8] + "..."
}

// SetCommands publishes the command menus: userCommands for private chats and
// adminCommands for the admin chat only.
func SetCommands(ctx context.Context, b *bot.Bot, logger *slog.Logger, adminChatID int64, userCommands, adminCommands []models.BotCommand) error {
	if _, err := b.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: userCommands,
		Scope:    &models.BotCommandScopeAllPrivateChats{},
	}); err != nil {
		return fmt.Errorf("failed to set private chat commands: %w", err)
	}

	if _, err := b.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: adminCommands,
		Scope:    &models.BotCommandScopeChat{ChatID: adminChatID},
	}); err != nil {
		return fmt.Errorf("failed to set admin chat commands: %w", err)
	}

	logger.Info("Bot commands registered", "user_commands", len(userCommands), "admin_commands", len(adminCommands))
	return nil
}
