// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lobby_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quizhost/lobby"
	"github.com/danielhkuo/quizhost/models"
	"github.com/danielhkuo/quizhost/store"
	"github.com/danielhkuo/quizhost/testutil"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// testClock is a manually advanced clock shared by the service under test
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	svc     *lobby.Service
	st      *store.Store
	clock   *testClock
	eventID string
}

// newFixture builds a service over a fresh database with one three-round event
func newFixture(t *testing.T, opts ...func(*lobby.Config)) *fixture {
	t.Helper()

	st := testutil.SetupTestStore(t)
	clock := &testClock{now: t0}
	cfg := lobby.Config{
		Windows:           lobby.DefaultWindows(),
		StrictTransitions: true,
		Now:               clock.Now,
		Logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	svc := lobby.New(st, cfg)
	t.Cleanup(svc.Close)

	return &fixture{
		svc:     svc,
		st:      st,
		clock:   clock,
		eventID: testutil.CreateTestEvent(t, st, 3),
	}
}

// host starts hosting round n and returns the round
func (f *fixture) host(t *testing.T, n int) models.Round {
	t.Helper()
	round, err := f.svc.StartHosting(context.Background(), f.eventID, n)
	require.NoError(t, err)
	return round
}

// join admits name with the round's current code
func (f *fixture) join(t *testing.T, round models.Round, name string) models.CandidateEntry {
	t.Helper()
	entry, _, _, err := f.svc.Join(context.Background(), round.Code(), name)
	require.NoError(t, err)
	return entry
}

func (f *fixture) entry(t *testing.T, id string) models.CandidateEntry {
	t.Helper()
	e, err := f.st.GetCandidate(context.Background(), id)
	require.NoError(t, err)
	return e
}

func (f *fixture) snapshot(t *testing.T, n int) models.Snapshot {
	t.Helper()
	snap, err := f.svc.Candidates(context.Background(), f.eventID, n)
	require.NoError(t, err)
	return snap
}

func withoutLazySweep(cfg *lobby.Config) {
	cfg.DisableLazySweep = true
}

func lenient(cfg *lobby.Config) {
	cfg.StrictTransitions = false
}
