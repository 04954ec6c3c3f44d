// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store implements lobby.Store over database/sql.

The same SQL runs on SQLite (modernc.org/sqlite) and PostgreSQL (lib/pq):
placeholders are $N, flags are BOOLEAN and timestamps are unix milliseconds
in BIGINT columns.

# Transactions

UpdateRound and UpdateCandidate read the record, hand it to a callback and
write it back inside one transaction. On PostgreSQL the read takes a row
lock (SELECT ... FOR UPDATE); SQLite is opened with a single connection, so
transactions never interleave. Callbacks must not touch the database.

	round, err := st.UpdateRound(ctx, roundID, func(r *models.Round) error {
		r.IsStarted = true
		return nil
	})

# Errors

Missing records are reported with the lobby sentinels (ErrEventNotFound,
ErrRoundNotFound, ErrCandidateNotFound, ErrQuestionNotFound), and an unknown
access code with ErrInvalidCode. Everything else is wrapped with context:

	failed to query round: <driver error>

# Organizer Records

Besides the lobby.Store methods, the store manages the records organizers
edit: CreateEvent, ListRoundNumbers, AddQuestion and DeleteQuestion.
*/
package store
