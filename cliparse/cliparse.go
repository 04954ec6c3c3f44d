package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port         int    `env:"PORT" envDefault:"3318"`
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseType string `env:"DATABASE_TYPE" envDefault:"sqlite"`
	OrganizerKey string `env:"ORGANIZER_KEY"`

	// Presence windows
	ActiveWindow   time.Duration `env:"ACTIVE_WINDOW" envDefault:"90s"`
	WaitingTimeout time.Duration `env:"WAITING_TIMEOUT" envDefault:"45s"`
	GraceWindow    time.Duration `env:"GRACE_WINDOW" envDefault:"1s"`
	SweepInterval  time.Duration `env:"SWEEP_INTERVAL" envDefault:"15s"`

	// Reject StartTest when the round is not hosting
	StrictTransitions bool `env:"STRICT_TRANSITIONS" envDefault:"true"`

	// Organizer notifications (optional)
	TelegramBotToken string        `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string        `env:"TELEGRAM_CHAT_ID"`
	TelegramAPIURL   string        `env:"TELEGRAM_API_URL" envDefault:"https://api.telegram.org"`
	NotifyTimeout    time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"5s"`
}

// CleanupConfig configures the one-shot waiting room cleanup
type CleanupConfig struct {
	DatabaseURL       string        `env:"DATABASE_URL"`
	DatabaseType      string        `env:"DATABASE_TYPE" envDefault:"sqlite"`
	InactivityTimeout time.Duration `env:"INACTIVITY_TIMEOUT" envDefault:"60s"`
	DryRun            bool
}

// NotificationsEnabled reports whether both Telegram settings are present
func (c Config) NotificationsEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}

// ParseFlags reads environment variables, then lets CLI flags override them
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("quizhost", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", cfg.DatabaseType, "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.OrganizerKey, "organizer-key", cfg.OrganizerKey, "Organizer key (prefer env)")

	fs.DurationVar(&cfg.ActiveWindow, "active-window", cfg.ActiveWindow, "Heartbeat age that still counts as giving the test")
	fs.DurationVar(&cfg.WaitingTimeout, "waiting-timeout", cfg.WaitingTimeout, "Heartbeat age after which a waiting candidate is inactive")
	fs.DurationVar(&cfg.GraceWindow, "grace-window", cfg.GraceWindow, "Minimum gap between entry and heartbeat for a real session")
	fs.DurationVar(&cfg.SweepInterval, "sweep-interval", cfg.SweepInterval, "Background waiting room sweep interval (0 disables)")
	fs.BoolVar(&cfg.StrictTransitions, "strict", cfg.StrictTransitions, "Reject starting a test that is not hosting")

	fs.StringVar(&cfg.TelegramBotToken, "telegram-token", cfg.TelegramBotToken, "Telegram bot token (prefer env)")
	fs.StringVar(&cfg.TelegramChatID, "telegram-chat", cfg.TelegramChatID, "Telegram chat ID")
	fs.DurationVar(&cfg.NotifyTimeout, "notify-timeout", cfg.NotifyTimeout, "Organizer notification timeout")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := validateDatabase(cfg.DatabaseURL, cfg.DatabaseType); err != nil {
		return Config{}, err
	}

	// Secrets - MUST be provided
	if cfg.OrganizerKey == "" {
		return Config{}, errors.New("ORGANIZER_KEY required")
	}

	if cfg.ActiveWindow <= 0 || cfg.WaitingTimeout <= 0 || cfg.GraceWindow < 0 {
		return Config{}, errors.New("presence windows must be positive")
	}
	if cfg.SweepInterval < 0 {
		return Config{}, errors.New("sweep interval cannot be negative")
	}
	if cfg.NotifyTimeout <= 0 {
		return Config{}, errors.New("notify timeout must be positive")
	}

	return cfg, nil
}

// ParseCleanupFlags parses arguments of the cleanup subcommand
func ParseCleanupFlags(args []string) (CleanupConfig, error) {
	var cfg CleanupConfig
	if err := env.Parse(&cfg); err != nil {
		return CleanupConfig{}, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("quizhost cleanup", flag.ContinueOnError)
	fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", cfg.DatabaseType, "Database type (sqlite or postgres)")
	fs.DurationVar(&cfg.InactivityTimeout, "inactivity-timeout", cfg.InactivityTimeout, "Mark as inactive if no heartbeat for this long")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Show what would be cleaned up without making changes")

	if err := fs.Parse(args); err != nil {
		return CleanupConfig{}, err
	}

	if err := validateDatabase(cfg.DatabaseURL, cfg.DatabaseType); err != nil {
		return CleanupConfig{}, err
	}
	if cfg.InactivityTimeout <= 0 {
		return CleanupConfig{}, errors.New("inactivity timeout must be positive")
	}

	return cfg, nil
}

func validateDatabase(url, dbType string) error {
	if url == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if dbType != "sqlite" && dbType != "postgres" {
		return fmt.Errorf("unsupported database type %q (sqlite or postgres)", dbType)
	}
	return nil
}
