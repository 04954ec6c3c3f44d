// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lobby_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quizhost/lobby"
	"github.com/danielhkuo/quizhost/models"
)

func TestJoinRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	round := f.host(t, 1)

	tests := []struct {
		name string
		code string
		cand string
		kind lobby.Kind
		err  error
	}{
		{"blank name", round.Code(), "   ", lobby.KindInvalidInput, nil},
		{"name too long", round.Code(), strings.Repeat("x", lobby.MaxCandidateNameLength+1), lobby.KindInvalidInput, nil},
		{"blank code", "", "Alice", lobby.KindInvalidInput, nil},
		{"malformed code", "ab-12", "Alice", lobby.KindNotFound, lobby.ErrInvalidCode},
		{"unknown code", "ZZZZZZ", "Alice", lobby.KindNotFound, lobby.ErrInvalidCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := f.svc.Join(context.Background(), tt.code, tt.cand)
			require.Error(t, err)
			assert.Equal(t, tt.kind, lobby.KindOf(err))
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestJoinCreatesWaitingEntry(t *testing.T) {
	f := newFixture(t)
	round := f.host(t, 1)

	// Codes are matched case-insensitively and names are trimmed
	entry, _, created, err := f.svc.Join(context.Background(), strings.ToLower(round.Code()), "  Alice ")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Alice", entry.CandidateName)
	assert.Equal(t, round.ID, entry.RoundID)
	assert.Equal(t, f.eventID, entry.EventID)
	assert.True(t, entry.IsWaiting)
	assert.False(t, entry.IsSubmitted)
	assert.True(t, entry.EntryTime.Equal(t0))
	assert.True(t, entry.LastActive.Equal(t0))
}

func TestJoinResumesExistingEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	round := f.host(t, 1)

	first := f.join(t, round, "Alice")
	_, err := f.svc.MarkExited(ctx, first.ID)
	require.NoError(t, err)

	f.clock.Advance(20 * time.Second)
	again, _, created, err := f.svc.Join(ctx, round.Code(), "Alice")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
	assert.True(t, again.IsWaiting, "rejoin should put the candidate back in the waiting room")
	assert.True(t, again.EntryTime.Equal(t0), "rejoin must keep the original entry time")
	assert.True(t, again.LastActive.Equal(t0.Add(20*time.Second)))

	// A different name is a different candidate
	other := f.join(t, round, "Bob")
	assert.NotEqual(t, first.ID, other.ID)
}

func TestJoinNewHostingGenerationCreatesNewEntry(t *testing.T) {
	f := newFixture(t)

	firstRound := f.host(t, 1)
	first := f.join(t, firstRound, "Alice")

	secondRound := f.host(t, 1)
	second, _, created, err := f.svc.Join(context.Background(), secondRound.Code(), "Alice")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestJoinPhaseChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	round := f.host(t, 1)

	_, err := f.svc.StartTest(ctx, f.eventID, 1)
	require.NoError(t, err)
	_, _, _, err = f.svc.Join(ctx, round.Code(), "Late")
	assert.ErrorIs(t, err, lobby.ErrRoundAlreadyStarted)
	assert.Equal(t, lobby.KindInvalidState, lobby.KindOf(err))

	// A code left on a round whose hosting flag is off does not admit
	stray := "STRAY1"
	_, err = f.st.UpdateRound(ctx, round.ID, func(r *models.Round) error {
		r.IsHosting = false
		r.IsStarted = false
		r.AccessCode = &stray
		return nil
	})
	require.NoError(t, err)
	_, _, _, err = f.svc.Join(ctx, stray, "Alice")
	assert.ErrorIs(t, err, lobby.ErrHostingNotActive)
}

func TestJoinAfterEndHosting(t *testing.T) {
	f := newFixture(t)
	round := f.host(t, 1)

	_, err := f.svc.EndHosting(context.Background(), f.eventID, 1)
	require.NoError(t, err)

	_, _, _, err = f.svc.Join(context.Background(), round.Code(), "Alice")
	assert.ErrorIs(t, err, lobby.ErrInvalidCode)
}

// A join carrying a code that was rotated away by a hosting restart fails.
// The candidate has to use the newly distributed code.
func TestJoinWithRotatedCode(t *testing.T) {
	f := newFixture(t)
	stale := f.host(t, 1).Code()
	fresh := f.host(t, 1).Code()

	_, _, _, err := f.svc.Join(context.Background(), stale, "Alice")
	assert.ErrorIs(t, err, lobby.ErrInvalidCode)

	_, _, created, err := f.svc.Join(context.Background(), fresh, "Alice")
	require.NoError(t, err)
	assert.True(t, created)
}
