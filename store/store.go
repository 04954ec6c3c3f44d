// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/quizhost/auth"
	"github.com/danielhkuo/quizhost/lobby"
	"github.com/danielhkuo/quizhost/models"
)

// MaxOptions is the number of option slots a question has
const MaxOptions = 4

// Store persists events, rounds, questions and candidate entries.
// It implements lobby.Store.
type Store struct {
	db      *sql.DB
	dialect string
}

var _ lobby.Store = (*Store)(nil)

// New wraps an open database. dialect is models.DatabaseSQLite or
// models.DatabasePostgres.
func New(db *sql.DB, dialect string) *Store {
	return &Store{db: db, dialect: dialect}
}

// DB returns the underlying connection pool
func (s *Store) DB() *sql.DB {
	return s.db
}

// lockClause returns the row lock suffix for the dialect. SQLite runs on a
// single connection, so its transactions are already serialized.
func (s *Store) lockClause(of string) string {
	if s.dialect != models.DatabasePostgres {
		return ""
	}
	if of != "" {
		return " FOR UPDATE OF " + of
	}
	return " FOR UPDATE"
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

type scanner interface {
	Scan(dest ...any) error
}

// Events

// CreateEvent inserts an event and returns it
func (s *Store) CreateEvent(ctx context.Context, name, date string, rounds int, now time.Time) (models.Event, error) {
	event := models.Event{
		ID:             auth.NewID(),
		Name:           name,
		Date:           date,
		NumberOfRounds: rounds,
		CreatedAt:      now.UTC().Truncate(time.Millisecond),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO event (id, name, event_date, number_of_rounds, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, event.ID, event.Name, event.Date, event.NumberOfRounds, toMillis(event.CreatedAt))
	if err != nil {
		return models.Event{}, fmt.Errorf("failed to insert event: %w", err)
	}

	return event, nil
}

func (s *Store) GetEvent(ctx context.Context, eventID string) (models.Event, error) {
	var (
		event   models.Event
		created int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, event_date, number_of_rounds, created_at
		FROM event
		WHERE id = $1
	`, eventID).Scan(&event.ID, &event.Name, &event.Date, &event.NumberOfRounds, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, lobby.ErrEventNotFound
	}
	if err != nil {
		return models.Event{}, fmt.Errorf("failed to query event: %w", err)
	}

	event.CreatedAt = fromMillis(created)
	return event, nil
}

// ListEvents returns every event, newest date first
func (s *Store) ListEvents(ctx context.Context) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, event_date, number_of_rounds, created_at
		FROM event
		ORDER BY event_date DESC, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var (
			event   models.Event
			created int64
		)
		if err := rows.Scan(&event.ID, &event.Name, &event.Date, &event.NumberOfRounds, &created); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		event.CreatedAt = fromMillis(created)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

// DeleteEvent removes the event; its rounds, questions and candidate
// entries go with it through ON DELETE CASCADE.
func (s *Store) DeleteEvent(ctx context.Context, eventID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM event WHERE id = $1`, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if n == 0 {
		return lobby.ErrEventNotFound
	}
	return nil
}

// ListRoundNumbers returns 1..number_of_rounds for the event
func (s *Store) ListRoundNumbers(ctx context.Context, eventID string) ([]int, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	rounds := make([]int, event.NumberOfRounds)
	for i := range rounds {
		rounds[i] = i + 1
	}
	return rounds, nil
}

// Rounds

const roundColumns = `id, event_id, round_number, duration_minutes, access_code, is_hosting, is_started, created_at`

func scanRound(row scanner) (models.Round, error) {
	var (
		round   models.Round
		code    sql.NullString
		created int64
	)
	err := row.Scan(&round.ID, &round.EventID, &round.RoundNumber, &round.DurationMinutes,
		&code, &round.IsHosting, &round.IsStarted, &created)
	if err != nil {
		return models.Round{}, err
	}

	if code.Valid {
		round.AccessCode = &code.String
	}
	round.CreatedAt = fromMillis(created)
	return round, nil
}

// EnsureRound returns the round, creating it with default settings when it
// does not exist yet. The round number must lie within the event's rounds.
func (s *Store) EnsureRound(ctx context.Context, eventID string, number int, now time.Time) (models.Round, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return models.Round{}, err
	}
	if number < 1 || number > event.NumberOfRounds {
		return models.Round{}, lobby.InvalidInput("round_number must be between 1 and %d", event.NumberOfRounds)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quiz_round (id, event_id, round_number, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, round_number) DO NOTHING
	`, auth.NewID(), eventID, number, toMillis(now))
	if err != nil {
		return models.Round{}, fmt.Errorf("failed to create round: %w", err)
	}

	return s.GetRound(ctx, eventID, number)
}

func (s *Store) GetRound(ctx context.Context, eventID string, number int) (models.Round, error) {
	round, err := scanRound(s.db.QueryRowContext(ctx, `
		SELECT `+roundColumns+`
		FROM quiz_round
		WHERE event_id = $1 AND round_number = $2
	`, eventID, number))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Round{}, lobby.ErrRoundNotFound
	}
	if err != nil {
		return models.Round{}, fmt.Errorf("failed to query round: %w", err)
	}
	return round, nil
}

// FindRoundByCode resolves a live access code. Codes are random, so a
// collision between two hosting rounds is unlikely; the newest round wins.
func (s *Store) FindRoundByCode(ctx context.Context, code string) (models.Round, error) {
	round, err := scanRound(s.db.QueryRowContext(ctx, `
		SELECT `+roundColumns+`
		FROM quiz_round
		WHERE access_code = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, code))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Round{}, lobby.ErrInvalidCode
	}
	if err != nil {
		return models.Round{}, fmt.Errorf("failed to query round by code: %w", err)
	}
	return round, nil
}

// UpdateRound runs fn on the locked round and writes back its phase,
// access code and duration. An error from fn aborts the transaction and is
// returned unchanged.
func (s *Store) UpdateRound(ctx context.Context, roundID string, fn func(*models.Round) error) (models.Round, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Round{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	round, err := scanRound(tx.QueryRowContext(ctx, `
		SELECT `+roundColumns+`
		FROM quiz_round
		WHERE id = $1`+s.lockClause(""), roundID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Round{}, lobby.ErrRoundNotFound
	}
	if err != nil {
		return models.Round{}, fmt.Errorf("failed to lock round: %w", err)
	}

	if err := fn(&round); err != nil {
		return models.Round{}, err
	}

	var code sql.NullString
	if round.AccessCode != nil {
		code = sql.NullString{String: *round.AccessCode, Valid: true}
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE quiz_round
		SET duration_minutes = $1, access_code = $2, is_hosting = $3, is_started = $4
		WHERE id = $5
	`, round.DurationMinutes, code, round.IsHosting, round.IsStarted, round.ID)
	if err != nil {
		return models.Round{}, fmt.Errorf("failed to update round: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Round{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return round, nil
}

// Questions

func (s *Store) CountQuestions(ctx context.Context, roundID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM question WHERE round_id = $1", roundID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

// AddQuestion inserts a question with 1..4 numbered options, of which the
// correct-th (1-indexed) is the right answer.
func (s *Store) AddQuestion(ctx context.Context, roundID, text string, options []string, correct int, now time.Time) (models.Question, error) {
	if text == "" {
		return models.Question{}, lobby.InvalidInput("question_text is required")
	}
	if len(options) == 0 || len(options) > MaxOptions {
		return models.Question{}, lobby.InvalidInput("a question needs between 1 and %d options", MaxOptions)
	}
	if correct < 1 || correct > len(options) {
		return models.Question{}, lobby.InvalidInput("correct_option must be between 1 and %d", len(options))
	}

	q := models.Question{
		ID:           auth.NewID(),
		RoundID:      roundID,
		QuestionText: text,
		CreatedAt:    now.UTC().Truncate(time.Millisecond),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO question (id, round_id, question_text, created_at)
		VALUES ($1, $2, $3, $4)
	`, q.ID, q.RoundID, q.QuestionText, toMillis(q.CreatedAt))
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to insert question: %w", err)
	}

	for i, label := range options {
		opt := models.QuestionOption{
			ID:           auth.NewID(),
			QuestionID:   q.ID,
			OptionText:   label,
			OptionNumber: i + 1,
			IsCorrect:    i+1 == correct,
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO question_option (id, question_id, option_text, option_number, is_correct)
			VALUES ($1, $2, $3, $4, $5)
		`, opt.ID, opt.QuestionID, opt.OptionText, opt.OptionNumber, opt.IsCorrect)
		if err != nil {
			return models.Question{}, fmt.Errorf("failed to insert option: %w", err)
		}
		q.Options = append(q.Options, opt)
	}

	if err := tx.Commit(); err != nil {
		return models.Question{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return q, nil
}

// DeleteQuestion removes a question and its options from the round
func (s *Store) DeleteQuestion(ctx context.Context, roundID, questionID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM question WHERE id = $1 AND round_id = $2", questionID, roundID)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if n == 0 {
		return lobby.ErrQuestionNotFound
	}
	return nil
}

// AnswerKey loads every question of the round with its options
func (s *Store) AnswerKey(ctx context.Context, roundID string) (models.AnswerKey, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT q.id, q.question_text, q.created_at, o.id, o.option_text, o.option_number, o.is_correct
		FROM question q
		LEFT JOIN question_option o ON o.question_id = q.id
		WHERE q.round_id = $1
		ORDER BY q.created_at, q.id, o.option_number
	`, roundID)
	if err != nil {
		return models.AnswerKey{}, fmt.Errorf("failed to query answer key: %w", err)
	}
	defer rows.Close()

	key := models.AnswerKey{RoundID: roundID}
	for rows.Next() {
		var (
			qID, text  string
			created    int64
			optID      sql.NullString
			optText    sql.NullString
			optNumber  sql.NullInt64
			optCorrect sql.NullBool
		)
		if err := rows.Scan(&qID, &text, &created, &optID, &optText, &optNumber, &optCorrect); err != nil {
			return models.AnswerKey{}, fmt.Errorf("failed to scan answer key: %w", err)
		}

		n := len(key.Questions)
		if n == 0 || key.Questions[n-1].ID != qID {
			key.Questions = append(key.Questions, models.Question{
				ID:           qID,
				RoundID:      roundID,
				QuestionText: text,
				CreatedAt:    fromMillis(created),
			})
			n++
		}
		if optID.Valid {
			key.Questions[n-1].Options = append(key.Questions[n-1].Options, models.QuestionOption{
				ID:           optID.String,
				QuestionID:   qID,
				OptionText:   optText.String,
				OptionNumber: int(optNumber.Int64),
				IsCorrect:    optCorrect.Bool,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return models.AnswerKey{}, fmt.Errorf("failed to read answer key: %w", err)
	}
	return key, nil
}

// Candidate entries

const candidateColumns = `id, event_id, round_id, candidate_name, access_code_used, is_waiting, is_submitted,
	score, total_questions, time_taken_seconds, entry_time, last_active, has_switched_tabs, has_entered_test`

func scanCandidate(row scanner, extra ...any) (models.CandidateEntry, error) {
	var (
		e                 models.CandidateEntry
		entered, lastSeen int64
	)
	dest := []any{&e.ID, &e.EventID, &e.RoundID, &e.CandidateName, &e.AccessCodeUsed,
		&e.IsWaiting, &e.IsSubmitted, &e.Score, &e.TotalQuestions, &e.TimeTakenSeconds,
		&entered, &lastSeen, &e.HasSwitchedTabs, &e.HasEnteredTest}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return models.CandidateEntry{}, err
	}

	e.EntryTime = fromMillis(entered)
	e.LastActive = fromMillis(lastSeen)
	return e, nil
}

// UpsertCandidate inserts the entry, or on a (round, name, code) conflict
// puts the existing entry back into the waiting room and refreshes its
// last_active. The bool reports whether a new entry was created.
func (s *Store) UpsertCandidate(ctx context.Context, entry models.CandidateEntry) (models.CandidateEntry, bool, error) {
	got, err := scanCandidate(s.db.QueryRowContext(ctx, `
		INSERT INTO candidate_entry (id, event_id, round_id, candidate_name, access_code_used,
			is_waiting, is_submitted, entry_time, last_active)
		VALUES ($1, $2, $3, $4, $5, TRUE, FALSE, $6, $7)
		ON CONFLICT (round_id, candidate_name, access_code_used) DO UPDATE
		SET is_waiting = TRUE,
			last_active = CASE
				WHEN candidate_entry.last_active > excluded.last_active THEN candidate_entry.last_active
				ELSE excluded.last_active
			END
		RETURNING `+candidateColumns,
		entry.ID, entry.EventID, entry.RoundID, entry.CandidateName, entry.AccessCodeUsed,
		toMillis(entry.EntryTime), toMillis(entry.LastActive)))
	if err != nil {
		return models.CandidateEntry{}, false, fmt.Errorf("failed to upsert candidate: %w", err)
	}
	return got, got.ID == entry.ID, nil
}

// GetCandidate returns one entry by id
func (s *Store) GetCandidate(ctx context.Context, entryID string) (models.CandidateEntry, error) {
	e, err := scanCandidate(s.db.QueryRowContext(ctx, `
		SELECT `+candidateColumns+`
		FROM candidate_entry
		WHERE id = $1
	`, entryID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.CandidateEntry{}, lobby.ErrCandidateNotFound
	}
	if err != nil {
		return models.CandidateEntry{}, fmt.Errorf("failed to query candidate: %w", err)
	}
	return e, nil
}

// UpdateCandidate runs fn on the locked entry together with its round and
// writes back the presence fields.
func (s *Store) UpdateCandidate(ctx context.Context, entryID string, fn func(models.Round, *models.CandidateEntry) error) (models.CandidateEntry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.CandidateEntry{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		round   models.Round
		code    sql.NullString
		created int64
	)
	e, err := scanCandidate(tx.QueryRowContext(ctx, `
		SELECT c.id, c.event_id, c.round_id, c.candidate_name, c.access_code_used, c.is_waiting, c.is_submitted,
			c.score, c.total_questions, c.time_taken_seconds, c.entry_time, c.last_active, c.has_switched_tabs, c.has_entered_test,
			r.id, r.event_id, r.round_number, r.duration_minutes, r.access_code, r.is_hosting, r.is_started, r.created_at
		FROM candidate_entry c
		JOIN quiz_round r ON r.id = c.round_id
		WHERE c.id = $1`+s.lockClause("c"), entryID),
		&round.ID, &round.EventID, &round.RoundNumber, &round.DurationMinutes,
		&code, &round.IsHosting, &round.IsStarted, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CandidateEntry{}, lobby.ErrCandidateNotFound
	}
	if err != nil {
		return models.CandidateEntry{}, fmt.Errorf("failed to lock candidate: %w", err)
	}
	if code.Valid {
		round.AccessCode = &code.String
	}
	round.CreatedAt = fromMillis(created)

	if err := fn(round, &e); err != nil {
		return models.CandidateEntry{}, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE candidate_entry
		SET is_waiting = $1, last_active = $2, has_switched_tabs = $3, has_entered_test = $4
		WHERE id = $5
	`, e.IsWaiting, toMillis(e.LastActive), e.HasSwitchedTabs, e.HasEnteredTest, e.ID)
	if err != nil {
		return models.CandidateEntry{}, fmt.Errorf("failed to update candidate: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.CandidateEntry{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return e, nil
}

// ListCandidates returns the round's entries admitted under accessCode,
// submitted first, then by entry time.
func (s *Store) ListCandidates(ctx context.Context, roundID, accessCode string) ([]models.CandidateEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+candidateColumns+`
		FROM candidate_entry
		WHERE round_id = $1 AND access_code_used = $2
		ORDER BY is_submitted DESC, entry_time ASC
	`, roundID, accessCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	entries := []models.CandidateEntry{}
	for rows.Next() {
		e, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}
	return entries, nil
}

// SweepWaiting marks waiting, unsubmitted entries of not-started rounds as
// not waiting when their last heartbeat is before cutoff. An empty roundID
// sweeps every round.
func (s *Store) SweepWaiting(ctx context.Context, roundID string, cutoff time.Time) (int64, error) {
	query := `
		UPDATE candidate_entry
		SET is_waiting = FALSE
		WHERE is_waiting = TRUE
		  AND is_submitted = FALSE
		  AND last_active < $1
		  AND round_id IN (SELECT id FROM quiz_round WHERE is_started = FALSE)`
	args := []any{toMillis(cutoff)}
	if roundID != "" {
		query += " AND round_id = $2"
		args = append(args, roundID)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep waiting candidates: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to sweep waiting candidates: %w", err)
	}
	return n, nil
}

// ListStaleWaiting returns what SweepWaiting would change across all rounds
func (s *Store) ListStaleWaiting(ctx context.Context, cutoff time.Time) ([]models.StaleCandidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, e.name, r.round_number, c.candidate_name, c.last_active
		FROM candidate_entry c
		JOIN quiz_round r ON r.id = c.round_id
		JOIN event e ON e.id = c.event_id
		WHERE c.is_waiting = TRUE
		  AND c.is_submitted = FALSE
		  AND c.last_active < $1
		  AND r.is_started = FALSE
		ORDER BY c.last_active ASC
	`, toMillis(cutoff))
	if err != nil {
		return nil, fmt.Errorf("failed to query stale candidates: %w", err)
	}
	defer rows.Close()

	var stale []models.StaleCandidate
	for rows.Next() {
		var (
			c        models.StaleCandidate
			lastSeen int64
		)
		if err := rows.Scan(&c.EntryID, &c.EventName, &c.RoundNumber, &c.CandidateName, &lastSeen); err != nil {
			return nil, fmt.Errorf("failed to scan stale candidate: %w", err)
		}
		c.LastActive = fromMillis(lastSeen)
		stale = append(stale, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stale candidates: %w", err)
	}
	return stale, nil
}

// MarkSubmitted records a result on every entry of the round carrying the
// candidate name and returns how many entries were updated.
func (s *Store) MarkSubmitted(ctx context.Context, roundID, candidateName string, sub models.Submission) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE candidate_entry
		SET is_submitted = TRUE, score = $1, total_questions = $2, time_taken_seconds = $3
		WHERE round_id = $4 AND candidate_name = $5
	`, sub.Score, sub.TotalQuestions, sub.TimeTakenSeconds, roundID, candidateName)
	if err != nil {
		return 0, fmt.Errorf("failed to record submission: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to record submission: %w", err)
	}
	return n, nil
}
