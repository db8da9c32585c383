// Package tasks implements the scheduled maintenance tasks of the relay bot
// and their registry.
package tasks

import (
	"log/slog"
	"time"

	"github.com/edgard/relaybot/internal/config"
	"github.com/edgard/relaybot/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config

	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
}
