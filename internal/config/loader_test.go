package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_CHAT_ID", "-100200300")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Telegram.Token != "123:abc" {
		t.Errorf("Token = %q, want %q", cfg.Telegram.Token, "123:abc")
	}
	if cfg.Telegram.AdminChatID != -100200300 {
		t.Errorf("AdminChatID = %d, want %d", cfg.Telegram.AdminChatID, -100200300)
	}
	if cfg.Messages.Confirmation != DefaultMessages.Confirmation {
		t.Errorf("Confirmation = %q, want default", cfg.Messages.Confirmation)
	}
	if cfg.Telegram.Buttons != DefaultButtons {
		t.Errorf("Buttons = %+v, want %+v", cfg.Telegram.Buttons, DefaultButtons)
	}
	if cfg.Database.JournalRetention != DefaultJournalRetention {
		t.Errorf("JournalRetention = %v, want %v", cfg.Database.JournalRetention, DefaultJournalRetention)
	}
	wantBreaker := BreakerConfig{Enabled: true, MaxFailures: DefaultBreakerMaxFailures, OpenTimeout: DefaultBreakerOpenTimeout}
	if cfg.Telegram.Breaker != wantBreaker {
		t.Errorf("Breaker = %+v, want %+v", cfg.Telegram.Breaker, wantBreaker)
	}
	task, ok := cfg.Scheduler.Tasks["journal_cleanup"]
	if !ok || !task.Enabled || task.Schedule != DefaultJournalCleanupSchedule {
		t.Errorf("journal_cleanup task = %+v (present %v), want default", task, ok)
	}
}

func TestLoadConfig_MissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("ADMIN_CHAT_ID", "42")

	_, err := LoadConfig("")
	if err == nil {
		t.Fatal("LoadConfig() error = nil, want error for missing token")
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("LoadConfig() error = %v, want ErrConfiguration", err)
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("ADMIN_CHAT_ID", "")

	path := writeConfigFile(t, `
telegram:
  token: "from-file"
  admin_chat_id: 77
  buttons:
    delete: "Remove"
messages:
  confirmation: "Got it"
logger:
  level: debug
  json: true
database:
  journal_retention: 48h
scheduler:
  tasks:
    sql_maintenance:
      enabled: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Telegram.Token != "from-file" || cfg.Telegram.AdminChatID != 77 {
		t.Errorf("Telegram = %+v, want token from-file and admin 77", cfg.Telegram)
	}
	if cfg.Telegram.Buttons.Delete != "Remove" {
		t.Errorf("Buttons.Delete = %q, want %q", cfg.Telegram.Buttons.Delete, "Remove")
	}
	if cfg.Telegram.Buttons.ComposeNew != DefaultButtons.ComposeNew {
		t.Errorf("Buttons.ComposeNew = %q, want default", cfg.Telegram.Buttons.ComposeNew)
	}
	if cfg.Messages.Confirmation != "Got it" {
		t.Errorf("Confirmation = %q, want %q", cfg.Messages.Confirmation, "Got it")
	}
	if cfg.Logger.Level != "debug" || !cfg.Logger.JSON {
		t.Errorf("Logger = %+v, want debug/json", cfg.Logger)
	}
	if cfg.Database.JournalRetention != 48*time.Hour {
		t.Errorf("JournalRetention = %v, want 48h", cfg.Database.JournalRetention)
	}
	if cfg.Scheduler.Tasks["sql_maintenance"].Enabled {
		t.Error("sql_maintenance should be disabled by the file")
	}
	if cfg.Scheduler.Tasks["sql_maintenance"].Schedule != DefaultSQLMaintenanceSchedule {
		t.Errorf("sql_maintenance schedule = %q, want default", cfg.Scheduler.Tasks["sql_maintenance"].Schedule)
	}
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")
	t.Setenv("ADMIN_CHAT_ID", "")
	t.Setenv("BOT_LOGGER_LEVEL", "warn")

	path := writeConfigFile(t, `
telegram:
  token: "from-file"
  admin_chat_id: 5
logger:
  level: debug
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Telegram.Token != "from-env" {
		t.Errorf("Token = %q, want %q", cfg.Telegram.Token, "from-env")
	}
	if cfg.Logger.Level != "warn" {
		t.Errorf("Logger.Level = %q, want %q", cfg.Logger.Level, "warn")
	}
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "bad log level",
			body: "telegram: {token: t, admin_chat_id: 1}\nlogger: {level: verbose}\n",
		},
		{
			name: "retention too short",
			body: "telegram: {token: t, admin_chat_id: 1}\ndatabase: {journal_retention: 10m}\n",
		},
		{
			name: "missing admin chat",
			body: "telegram: {token: t}\n",
		},
		{
			name: "breaker timeout too short",
			body: "telegram: {token: t, admin_chat_id: 1, breaker: {open_timeout: 10ms}}\n",
		},
		{
			name: "duplicate button texts",
			body: "telegram: {token: t, admin_chat_id: 1, buttons: {compose_new: same, delete: same}}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TELEGRAM_BOT_TOKEN", "")
			t.Setenv("ADMIN_CHAT_ID", "")

			_, err := LoadConfig(writeConfigFile(t, tt.body))
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("LoadConfig() error = %v, want ErrConfiguration", err)
			}
		})
	}
}
