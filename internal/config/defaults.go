package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default values for configuration
const (
	DefaultLogLevel      = "info"
	DefaultLogMaxSizeMB  = 10
	DefaultLogMaxBackups = 3
	DefaultLogMaxAgeDays = 28

	DefaultBreakerMaxFailures = 5
	DefaultBreakerOpenTimeout = 30 * time.Second

	DefaultDBPath           = "relaybot.db"
	DefaultJournalRetention = 30 * 24 * time.Hour

	DefaultJournalCleanupSchedule = "0 30 3 * * *"
	DefaultSQLMaintenanceSchedule = "0 0 4 * * 0"
)

// Default keyboard texts
var DefaultButtons = ButtonsConfig{
	ComposeNew: "Write another 😊",
	Delete:     "Delete message 😊",
	AdminReply: "Reply to user ✉️",
}

// Default bot messages
var DefaultMessages = MessagesConfig{
	Welcome:         "Hi! Send me a message and I will forward it to the administrator.",
	AdminWelcome:    "Relay is running. Use the reply button or /reply to answer a user.",
	ComposePrompt:   "✍️ Send your new message:",
	Confirmation:    "✅ Message sent, please wait for a reply!",
	RelayFailed:     "❌ Failed to send your message.",
	NothingToDelete: "❌ No message found to delete.",
	DeleteSuccess:   "✅ Message deleted!",
	DeleteFailed:    "❌ Could not delete the message.",

	RelayTextFmt:  "📨 Message from %s [id %d]:\n\n%s",
	RelayMediaFmt: "📨 Media message from %s [id %d]%s",

	ReplyPrompt:      "Send the reply as \"<user id> <text>\", or /cancel.",
	ReplyFormatError: "⚠️ Wrong format. Expected \"<user id> <text>\".",
	ReplyCancelled:   "Reply cancelled.",
	ReplyTextFmt:     "💬 Reply from the administrator:\n\n%s",
	ReplySentFmt:     "✅ Reply sent to %d.",
	ReplyFailed:      "❌ Failed to deliver the reply.",
	SessionNotFound:  "⚠️ That message is no longer tracked; use /reply with the user id.",
}

// DefaultTasks lists the scheduled tasks known to the bot.
var DefaultTasks = map[string]TaskConfig{
	"journal_cleanup": {Enabled: true, Schedule: DefaultJournalCleanupSchedule},
	"sql_maintenance": {Enabled: true, Schedule: DefaultSQLMaintenanceSchedule},
}

// setDefaults registers a default for every key so environment overrides
// resolve during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.admin_chat_id", 0)
	v.SetDefault("telegram.buttons.compose_new", DefaultButtons.ComposeNew)
	v.SetDefault("telegram.buttons.delete", DefaultButtons.Delete)
	v.SetDefault("telegram.buttons.admin_reply", DefaultButtons.AdminReply)
	v.SetDefault("telegram.breaker.enabled", true)
	v.SetDefault("telegram.breaker.max_failures", DefaultBreakerMaxFailures)
	v.SetDefault("telegram.breaker.open_timeout", DefaultBreakerOpenTimeout)

	v.SetDefault("messages.welcome", DefaultMessages.Welcome)
	v.SetDefault("messages.admin_welcome", DefaultMessages.AdminWelcome)
	v.SetDefault("messages.compose_prompt", DefaultMessages.ComposePrompt)
	v.SetDefault("messages.confirmation", DefaultMessages.Confirmation)
	v.SetDefault("messages.relay_failed", DefaultMessages.RelayFailed)
	v.SetDefault("messages.nothing_to_delete", DefaultMessages.NothingToDelete)
	v.SetDefault("messages.delete_success", DefaultMessages.DeleteSuccess)
	v.SetDefault("messages.delete_failed", DefaultMessages.DeleteFailed)
	v.SetDefault("messages.relay_text_fmt", DefaultMessages.RelayTextFmt)
	v.SetDefault("messages.relay_media_fmt", DefaultMessages.RelayMediaFmt)
	v.SetDefault("messages.reply_prompt", DefaultMessages.ReplyPrompt)
	v.SetDefault("messages.reply_format_error", DefaultMessages.ReplyFormatError)
	v.SetDefault("messages.reply_cancelled", DefaultMessages.ReplyCancelled)
	v.SetDefault("messages.reply_text_fmt", DefaultMessages.ReplyTextFmt)
	v.SetDefault("messages.reply_sent_fmt", DefaultMessages.ReplySentFmt)
	v.SetDefault("messages.reply_failed", DefaultMessages.ReplyFailed)
	v.SetDefault("messages.session_not_found", DefaultMessages.SessionNotFound)

	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", false)
	v.SetDefault("logger.file", "")
	v.SetDefault("logger.max_size_mb", DefaultLogMaxSizeMB)
	v.SetDefault("logger.max_backups", DefaultLogMaxBackups)
	v.SetDefault("logger.max_age_days", DefaultLogMaxAgeDays)

	v.SetDefault("database.enabled", true)
	v.SetDefault("database.path", DefaultDBPath)
	v.SetDefault("database.journal_retention", DefaultJournalRetention)

	for name, task := range DefaultTasks {
		v.SetDefault("scheduler.tasks."+name+".enabled", task.Enabled)
		v.SetDefault("scheduler.tasks."+name+".schedule", task.Schedule)
	}
}
