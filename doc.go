// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the quizhost API server.

quizhost runs timed quiz rounds for live events. An organizer opens a
round, starts hosting to get a six character access code, and starts the
test once candidates have gathered in the waiting room. Candidates keep
their place with heartbeats, and the organizer dashboard classifies each
of them as Waiting, Inactive, Left, Giving Test or Submitted.

# Starting the Server

The server reads environment variables (optionally from a .env file) and
CLI flags:

	ORGANIZER_KEY=secret DATABASE_URL=quiz.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." --organizer-key secret

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - ORGANIZER_KEY (--organizer-key): Secret for organizer routes

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - ACTIVE_WINDOW, WAITING_TIMEOUT, GRACE_WINDOW: presence windows
  - SWEEP_INTERVAL: background waiting room sweep, 0 disables
  - STRICT_TRANSITIONS: reject starting a test that is not hosting
  - TELEGRAM_BOT_TOKEN, TELEGRAM_CHAT_ID: organizer submission notices

# Cleanup

The cleanup subcommand marks waiting candidates without a recent heartbeat
as no longer waiting:

	go run . cleanup -d quiz.db --inactivity-timeout 60s --dry-run

# Architecture

  - lobby: round lifecycle, admission, presence, scoring and the dashboard
  - store: SQL persistence behind lobby.Store
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, organizer auth, JSON helpers
  - notify: Telegram submission notices
  - cleanup: one-shot waiting room cleanup
  - models: Request/response and domain types
  - auth: IDs, access codes and organizer key checks
  - db: Connection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
