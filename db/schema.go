// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/quizhost/models"
)

// sqlitePragmas are appended to SQLite paths that carry no query string
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// Open connects to the configured database and verifies the connection.
// SQLite is limited to one open connection so transactions serialize.
func Open(dbType, url string) (*sql.DB, error) {
	var (
		conn *sql.DB
		err  error
	)

	switch dbType {
	case models.DatabasePostgres:
		conn, err = sql.Open("postgres", url)
	case models.DatabaseSQLite:
		dsn := url
		if !strings.Contains(dsn, "?") {
			dsn += "?" + sqlitePragmas
		}
		conn, err = sql.Open("sqlite", dsn)
		if err == nil {
			conn.SetMaxOpenConns(1)
		}
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL is shared by SQLite and PostgreSQL; timestamps are unix milliseconds.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Events
CREATE TABLE IF NOT EXISTS event (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    event_date TEXT NOT NULL,
    number_of_rounds INTEGER NOT NULL DEFAULT 1 CHECK (number_of_rounds >= 1),
    created_at BIGINT NOT NULL
);

-- Rounds
CREATE TABLE IF NOT EXISTS quiz_round (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    round_number INTEGER NOT NULL,
    duration_minutes INTEGER NOT NULL DEFAULT 60,
    access_code TEXT,
    is_hosting BOOLEAN NOT NULL DEFAULT FALSE,
    is_started BOOLEAN NOT NULL DEFAULT FALSE,
    created_at BIGINT NOT NULL,
    UNIQUE (event_id, round_number)
);

CREATE INDEX IF NOT EXISTS idx_quiz_round_access_code ON quiz_round(access_code);

-- Questions
CREATE TABLE IF NOT EXISTS question (
    id TEXT PRIMARY KEY,
    round_id TEXT NOT NULL REFERENCES quiz_round(id) ON DELETE CASCADE,
    question_text TEXT NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_question_round_id ON question(round_id);

-- Question options
CREATE TABLE IF NOT EXISTS question_option (
    id TEXT PRIMARY KEY,
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    option_text TEXT NOT NULL,
    option_number INTEGER NOT NULL CHECK (option_number BETWEEN 1 AND 4),
    is_correct BOOLEAN NOT NULL DEFAULT FALSE,
    UNIQUE (question_id, option_number)
);

CREATE INDEX IF NOT EXISTS idx_question_option_question_id ON question_option(question_id);

-- Candidate entries
CREATE TABLE IF NOT EXISTS candidate_entry (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    round_id TEXT NOT NULL REFERENCES quiz_round(id) ON DELETE CASCADE,
    candidate_name TEXT NOT NULL,
    access_code_used TEXT NOT NULL,
    is_waiting BOOLEAN NOT NULL DEFAULT TRUE,
    is_submitted BOOLEAN NOT NULL DEFAULT FALSE,
    score INTEGER NOT NULL DEFAULT 0,
    total_questions INTEGER NOT NULL DEFAULT 0,
    time_taken_seconds INTEGER NOT NULL DEFAULT 0,
    entry_time BIGINT NOT NULL,
    last_active BIGINT NOT NULL,
    has_switched_tabs BOOLEAN NOT NULL DEFAULT FALSE,
    has_entered_test BOOLEAN NOT NULL DEFAULT FALSE,
    UNIQUE (round_id, candidate_name, access_code_used)
);

CREATE INDEX IF NOT EXISTS idx_candidate_entry_round_code ON candidate_entry(round_id, access_code_used);
CREATE INDEX IF NOT EXISTS idx_candidate_entry_round_waiting ON candidate_entry(round_id, is_waiting);
CREATE INDEX IF NOT EXISTS idx_candidate_entry_round_name ON candidate_entry(round_id, candidate_name);
`
