package handlers

import (
	"log/slog"

	"github.com/edgard/relaybot/internal/config"
	"github.com/edgard/relaybot/internal/relay"
)

// HandlerDeps provides dependencies for Telegram update handlers.
type HandlerDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Engine *relay.Engine
	Queue  *KeyedQueue
}
