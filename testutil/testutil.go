// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/quizhost/auth"
	"github.com/danielhkuo/quizhost/cliparse"
	"github.com/danielhkuo/quizhost/db"
	"github.com/danielhkuo/quizhost/models"
	"github.com/danielhkuo/quizhost/store"
)

// TestOrganizerKey is the organizer key in GetTestConfig
const TestOrganizerKey = "test-organizer-key"

// SetupTestDB creates a fresh SQLite database with the full schema.
// The file lives in the test's temp dir and is closed on cleanup.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(models.DatabaseSQLite, filepath.Join(t.TempDir(), "quizhost.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestStore returns a store over a fresh test database
func SetupTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(SetupTestDB(t), models.DatabaseSQLite)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:              3318,
		DatabaseURL:       ":memory:",
		DatabaseType:      models.DatabaseSQLite,
		OrganizerKey:      TestOrganizerKey,
		ActiveWindow:      90 * time.Second,
		WaitingTimeout:    45 * time.Second,
		GraceWindow:       time.Second,
		StrictTransitions: true,
		NotifyTimeout:     time.Second,
	}
}

// OrganizerHeaders returns the headers organizer routes require
func OrganizerHeaders() map[string]string {
	return map[string]string{"X-Organizer-Key": TestOrganizerKey}
}

// CreateTestEvent creates an event with the given number of rounds and returns its ID
func CreateTestEvent(t *testing.T, st *store.Store, rounds int) string {
	t.Helper()

	event, err := st.CreateEvent(context.Background(), "Test Event", "2025-01-01", rounds, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test event: %v", err)
	}
	return event.ID
}

// CreateTestRound sets a round's phase directly. A hosting round gets code.
func CreateTestRound(t *testing.T, st *store.Store, eventID string, number int, hosting, started bool, code string) models.Round {
	t.Helper()

	ctx := context.Background()
	round, err := st.EnsureRound(ctx, eventID, number, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test round: %v", err)
	}

	round, err = st.UpdateRound(ctx, round.ID, func(r *models.Round) error {
		r.IsHosting = hosting
		r.IsStarted = started
		r.AccessCode = nil
		if hosting {
			r.AccessCode = &code
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to update test round: %v", err)
	}
	return round
}

// AddTestQuestion adds a question with the given options and returns it.
// correct is 1-indexed.
func AddTestQuestion(t *testing.T, st *store.Store, roundID string, options []string, correct int) models.Question {
	t.Helper()

	q, err := st.AddQuestion(context.Background(), roundID, "Test question?", options, correct, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}
	return q
}

// CreateTestCandidate inserts a candidate entry with explicit timestamps
func CreateTestCandidate(t *testing.T, st *store.Store, round models.Round, name string, waiting bool, entered, lastActive time.Time) models.CandidateEntry {
	t.Helper()

	e, _, err := st.UpsertCandidate(context.Background(), models.CandidateEntry{
		ID:             auth.NewID(),
		EventID:        round.EventID,
		RoundID:        round.ID,
		CandidateName:  name,
		AccessCodeUsed: round.Code(),
		IsWaiting:      true,
		EntryTime:      entered,
		LastActive:     lastActive,
	})
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	if !waiting {
		_, err = st.DB().Exec("UPDATE candidate_entry SET is_waiting = FALSE WHERE id = $1", e.ID)
		if err != nil {
			t.Fatalf("Failed to update test candidate: %v", err)
		}
		e.IsWaiting = false
	}
	return e
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
