// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

Open picks the driver from the configured database type:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

  - sqlite: modernc.org/sqlite (pure Go), foreign keys on, one open connection
  - postgres: github.com/lib/pq

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same DDL runs on both databases: timestamps are stored as UTC unix
milliseconds (BIGINT) and flags as BOOLEAN.

# Tables

  - event: quiz events with a fixed number of rounds
  - quiz_round: per-round duration, access code and phase flags
  - question: questions of a round
  - question_option: up to four numbered options, one correct
  - candidate_entry: presence and result of one candidate in one round

candidate_entry is unique on (round_id, candidate_name, access_code_used);
that triple is how a reconnecting candidate finds their existing entry.
*/
package db
