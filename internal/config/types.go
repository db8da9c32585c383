// Package config loads and validates the relaybot configuration from
// defaults, an optional YAML file, a .env file and the environment.
package config

import (
	"time"

	"github.com/go-telegram/bot/models"
)

// Config is the complete application configuration.
type Config struct {
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// TelegramConfig holds the bot credentials and the admin identity.
type TelegramConfig struct {
	Token       string        `mapstructure:"token"         validate:"required"`
	AdminChatID int64         `mapstructure:"admin_chat_id" validate:"required"`
	Buttons     ButtonsConfig `mapstructure:"buttons"`
	Breaker     BreakerConfig `mapstructure:"breaker"`

	// BotInfo is filled at startup from getMe.
	BotInfo *models.User `mapstructure:"-"`
}

// BreakerConfig controls the circuit breaker around Bot API calls.
type BreakerConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxFailures uint32        `mapstructure:"max_failures"`
	OpenTimeout time.Duration `mapstructure:"open_timeout" validate:"omitempty,min=1s"`
}

// ButtonsConfig holds the reply keyboard texts. A message whose text equals
// one of them triggers the matching action.
type ButtonsConfig struct {
	ComposeNew string `mapstructure:"compose_new" validate:"required"`
	Delete     string `mapstructure:"delete"      validate:"required,nefield=ComposeNew"`
	AdminReply string `mapstructure:"admin_reply" validate:"required"`
}

// MessagesConfig holds every text the bot sends. Fields ending in Fmt are
// fmt format strings.
type MessagesConfig struct {
	Welcome         string `mapstructure:"welcome"           validate:"required"`
	AdminWelcome    string `mapstructure:"admin_welcome"     validate:"required"`
	ComposePrompt   string `mapstructure:"compose_prompt"    validate:"required"`
	Confirmation    string `mapstructure:"confirmation"      validate:"required"`
	RelayFailed     string `mapstructure:"relay_failed"      validate:"required"`
	NothingToDelete string `mapstructure:"nothing_to_delete" validate:"required"`
	DeleteSuccess   string `mapstructure:"delete_success"    validate:"required"`
	DeleteFailed    string `mapstructure:"delete_failed"     validate:"required"`

	// RelayTextFmt receives the display name, the user id and the text.
	RelayTextFmt string `mapstructure:"relay_text_fmt" validate:"required"`
	// RelayMediaFmt receives the display name, the user id and the caption line.
	RelayMediaFmt string `mapstructure:"relay_media_fmt" validate:"required"`

	ReplyPrompt      string `mapstructure:"reply_prompt"       validate:"required"`
	ReplyFormatError string `mapstructure:"reply_format_error" validate:"required"`
	ReplyCancelled   string `mapstructure:"reply_cancelled"    validate:"required"`
	ReplyTextFmt     string `mapstructure:"reply_text_fmt"     validate:"required"`
	ReplySentFmt     string `mapstructure:"reply_sent_fmt"     validate:"required"`
	ReplyFailed      string `mapstructure:"reply_failed"       validate:"required"`
	SessionNotFound  string `mapstructure:"session_not_found"  validate:"required"`
}

// LoggerConfig controls the slog handler and the optional rotating log file.
type LoggerConfig struct {
	Level      string `mapstructure:"level"        validate:"oneof=debug info warn error"`
	JSON       bool   `mapstructure:"json"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"  validate:"gte=1"`
	MaxBackups int    `mapstructure:"max_backups"  validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
}

// DatabaseConfig controls the sqlite relay journal.
type DatabaseConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	Path             string        `mapstructure:"path"              validate:"required_if=Enabled true"`
	JournalRetention time.Duration `mapstructure:"journal_retention" validate:"min=1h"`
}

// SchedulerConfig maps task names to their schedule.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig configures one scheduled task. Schedule is a 6-field cron
// expression (with seconds).
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}
