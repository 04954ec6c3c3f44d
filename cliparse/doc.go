// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Environment variables are read first (struct tags, via caarlos0/env), then
CLI flags override them.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite path or PostgreSQL connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - OrganizerKey: Secret for organizer routes (required)
  - ActiveWindow: heartbeat age still counted as giving the test (default: 90s)
  - WaitingTimeout: heartbeat age after which a waiting candidate is inactive (default: 45s)
  - GraceWindow: minimum entry-to-heartbeat gap of a real session (default: 1s)
  - SweepInterval: background waiting room sweep, 0 disables (default: 15s)
  - StrictTransitions: reject StartTest when not hosting (default: true)
  - TelegramBotToken / TelegramChatID: organizer notifications (optional)

# CLI Flags

	-p               Server port
	-d               Database URL
	-t               Database type
	-organizer-key   Organizer key
	-active-window   Active window
	-waiting-timeout Waiting timeout
	-grace-window    Grace window
	-sweep-interval  Sweep interval
	-strict          Strict transitions
	-telegram-token  Telegram bot token
	-telegram-chat   Telegram chat ID
	-notify-timeout  Notification timeout

# Environment Variables

	PORT, DATABASE_URL, DATABASE_TYPE, ORGANIZER_KEY,
	ACTIVE_WINDOW, WAITING_TIMEOUT, GRACE_WINDOW, SWEEP_INTERVAL,
	STRICT_TRANSITIONS, TELEGRAM_BOT_TOKEN, TELEGRAM_CHAT_ID,
	TELEGRAM_API_URL, NOTIFY_TIMEOUT

CLI flags take precedence over environment variables.

# Cleanup Subcommand

ParseCleanupFlags parses `quizhost cleanup`:

	-inactivity-timeout  Mark as not waiting after this long without heartbeat (default: 60s)
	-dry-run             Only list the candidates that would be changed
*/
package cliparse
