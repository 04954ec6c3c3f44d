// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielhkuo/quizhost/auth"
	"github.com/danielhkuo/quizhost/lobby"
	"github.com/danielhkuo/quizhost/models"
	"github.com/danielhkuo/quizhost/testutil"
)

var base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestEnsureRound(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()
	eventID := testutil.CreateTestEvent(t, st, 2)

	first, err := st.EnsureRound(ctx, eventID, 1, base)
	if err != nil {
		t.Fatalf("EnsureRound() error = %v", err)
	}
	if first.DurationMinutes != 60 {
		t.Errorf("DurationMinutes = %d, want 60", first.DurationMinutes)
	}
	if first.IsHosting || first.IsStarted || first.AccessCode != nil {
		t.Errorf("new round should be idle, got %+v", first)
	}

	again, err := st.EnsureRound(ctx, eventID, 1, base.Add(time.Minute))
	if err != nil {
		t.Fatalf("EnsureRound() second call error = %v", err)
	}
	if again.ID != first.ID {
		t.Errorf("EnsureRound() created a second round: %s != %s", again.ID, first.ID)
	}

	tests := []struct {
		name    string
		eventID string
		number  int
		kind    lobby.Kind
	}{
		{"round above event rounds", eventID, 3, lobby.KindInvalidInput},
		{"round zero", eventID, 0, lobby.KindInvalidInput},
		{"unknown event", auth.NewID(), 1, lobby.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := st.EnsureRound(ctx, tt.eventID, tt.number, base)
			if got := lobby.KindOf(err); got != tt.kind {
				t.Errorf("kind = %s, want %s (err = %v)", got, tt.kind, err)
			}
		})
	}
}

func TestListRoundNumbers(t *testing.T) {
	st := testutil.SetupTestStore(t)
	eventID := testutil.CreateTestEvent(t, st, 3)

	rounds, err := st.ListRoundNumbers(context.Background(), eventID)
	if err != nil {
		t.Fatalf("ListRoundNumbers() error = %v", err)
	}
	if len(rounds) != 3 || rounds[0] != 1 || rounds[2] != 3 {
		t.Errorf("rounds = %v, want [1 2 3]", rounds)
	}
}

func TestUpdateRoundAbortsOnError(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()
	eventID := testutil.CreateTestEvent(t, st, 1)
	round := testutil.CreateTestRound(t, st, eventID, 1, true, false, "ABC123")

	boom := errors.New("boom")
	_, err := st.UpdateRound(ctx, round.ID, func(r *models.Round) error {
		r.IsStarted = true
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("UpdateRound() error = %v, want boom", err)
	}

	got, err := st.GetRound(ctx, eventID, 1)
	if err != nil {
		t.Fatalf("GetRound() error = %v", err)
	}
	if got.IsStarted {
		t.Error("aborted update was written")
	}
	if got.Code() != "ABC123" {
		t.Errorf("Code() = %q, want ABC123", got.Code())
	}
}

func TestFindRoundByCode(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()
	eventID := testutil.CreateTestEvent(t, st, 2)
	round := testutil.CreateTestRound(t, st, eventID, 2, true, false, "ZX81AB")

	got, err := st.FindRoundByCode(ctx, "ZX81AB")
	if err != nil {
		t.Fatalf("FindRoundByCode() error = %v", err)
	}
	if got.ID != round.ID {
		t.Errorf("FindRoundByCode() = %s, want %s", got.ID, round.ID)
	}

	_, err = st.FindRoundByCode(ctx, "NOPE00")
	if !errors.Is(err, lobby.ErrInvalidCode) {
		t.Errorf("unknown code error = %v, want ErrInvalidCode", err)
	}
}

func TestUpsertCandidate(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()
	eventID := testutil.CreateTestEvent(t, st, 1)
	round := testutil.CreateTestRound(t, st, eventID, 1, true, false, "ABC123")

	entry := models.CandidateEntry{
		ID:             auth.NewID(),
		EventID:        eventID,
		RoundID:        round.ID,
		CandidateName:  "Alice",
		AccessCodeUsed: "ABC123",
		EntryTime:      base,
		LastActive:     base.Add(time.Minute),
	}
	first, created, err := st.UpsertCandidate(ctx, entry)
	if err != nil {
		t.Fatalf("UpsertCandidate() error = %v", err)
	}
	if !created || first.ID != entry.ID {
		t.Fatalf("first upsert should create %s, got created=%v id=%s", entry.ID, created, first.ID)
	}

	// An older timestamp must not move last_active back
	retry := entry
	retry.ID = auth.NewID()
	retry.EntryTime = base
	retry.LastActive = base
	second, created, err := st.UpsertCandidate(ctx, retry)
	if err != nil {
		t.Fatalf("UpsertCandidate() retry error = %v", err)
	}
	if created {
		t.Error("retry with the same name and code created a new entry")
	}
	if second.ID != entry.ID {
		t.Errorf("retry returned %s, want %s", second.ID, entry.ID)
	}
	if !second.LastActive.Equal(base.Add(time.Minute)) {
		t.Errorf("LastActive = %v, want %v", second.LastActive, base.Add(time.Minute))
	}
	if !second.EntryTime.Equal(base) {
		t.Errorf("EntryTime = %v, want %v", second.EntryTime, base)
	}
}

func TestUpdateCandidateNotFound(t *testing.T) {
	st := testutil.SetupTestStore(t)

	_, err := st.UpdateCandidate(context.Background(), auth.NewID(), func(models.Round, *models.CandidateEntry) error {
		t.Fatal("fn called for a missing entry")
		return nil
	})
	if !errors.Is(err, lobby.ErrCandidateNotFound) {
		t.Errorf("error = %v, want ErrCandidateNotFound", err)
	}
}

func TestSweepWaiting(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()
	eventID := testutil.CreateTestEvent(t, st, 2)
	waitingRound := testutil.CreateTestRound(t, st, eventID, 1, true, false, "AAAAAA")
	startedRound := testutil.CreateTestRound(t, st, eventID, 2, true, true, "BBBBBB")

	stale := testutil.CreateTestCandidate(t, st, waitingRound, "Stale", true, base, base)
	fresh := testutil.CreateTestCandidate(t, st, waitingRound, "Fresh", true, base, base.Add(time.Minute))
	started := testutil.CreateTestCandidate(t, st, startedRound, "Started", true, base, base)

	cutoff := base.Add(30 * time.Second)

	list, err := st.ListStaleWaiting(ctx, cutoff)
	if err != nil {
		t.Fatalf("ListStaleWaiting() error = %v", err)
	}
	if len(list) != 1 || list[0].EntryID != stale.ID {
		t.Fatalf("ListStaleWaiting() = %+v, want only %s", list, stale.ID)
	}
	if list[0].EventName != "Test Event" || list[0].RoundNumber != 1 {
		t.Errorf("stale row = %+v", list[0])
	}

	n, err := st.SweepWaiting(ctx, "", cutoff)
	if err != nil {
		t.Fatalf("SweepWaiting() error = %v", err)
	}
	if n != 1 {
		t.Errorf("SweepWaiting() = %d, want 1", n)
	}

	for _, tc := range []struct {
		id      string
		waiting bool
	}{
		{stale.ID, false},
		{fresh.ID, true},
		{started.ID, true},
	} {
		e, err := st.GetCandidate(ctx, tc.id)
		if err != nil {
			t.Fatalf("GetCandidate() error = %v", err)
		}
		if e.IsWaiting != tc.waiting {
			t.Errorf("%s IsWaiting = %v, want %v", e.CandidateName, e.IsWaiting, tc.waiting)
		}
	}

	// Scoped to another round nothing changes
	n, err = st.SweepWaiting(ctx, startedRound.ID, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("SweepWaiting() scoped error = %v", err)
	}
	if n != 0 {
		t.Errorf("SweepWaiting() on a started round = %d, want 0", n)
	}
}

func TestListCandidatesFiltersAndOrders(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()
	eventID := testutil.CreateTestEvent(t, st, 1)
	old := testutil.CreateTestRound(t, st, eventID, 1, true, false, "OLD111")
	testutil.CreateTestCandidate(t, st, old, "Previous", true, base, base)

	current := testutil.CreateTestRound(t, st, eventID, 1, true, false, "NEW222")
	first := testutil.CreateTestCandidate(t, st, current, "First", true, base.Add(time.Second), base.Add(time.Second))
	second := testutil.CreateTestCandidate(t, st, current, "Second", true, base.Add(2*time.Second), base.Add(2*time.Second))

	if _, err := st.MarkSubmitted(ctx, current.ID, "Second", models.Submission{Score: 1, TotalQuestions: 1}); err != nil {
		t.Fatalf("MarkSubmitted() error = %v", err)
	}

	entries, err := st.ListCandidates(ctx, current.ID, "NEW222")
	if err != nil {
		t.Fatalf("ListCandidates() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ListCandidates() returned %d entries, want 2", len(entries))
	}
	if entries[0].ID != second.ID || entries[1].ID != first.ID {
		t.Errorf("order = [%s %s], want submitted first", entries[0].CandidateName, entries[1].CandidateName)
	}
}

func TestQuestionsAndAnswerKey(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()
	eventID := testutil.CreateTestEvent(t, st, 1)
	round, err := st.EnsureRound(ctx, eventID, 1, base)
	if err != nil {
		t.Fatalf("EnsureRound() error = %v", err)
	}

	q1, err := st.AddQuestion(ctx, round.ID, "2 + 2?", []string{"3", "4", "5", "22"}, 2, base)
	if err != nil {
		t.Fatalf("AddQuestion() error = %v", err)
	}
	q2, err := st.AddQuestion(ctx, round.ID, "Sky?", []string{"Blue", "Green"}, 1, base.Add(time.Second))
	if err != nil {
		t.Fatalf("AddQuestion() error = %v", err)
	}

	invalid := []struct {
		name    string
		text    string
		options []string
		correct int
	}{
		{"no text", "", []string{"a"}, 1},
		{"no options", "q", nil, 1},
		{"too many options", "q", []string{"a", "b", "c", "d", "e"}, 1},
		{"correct out of range", "q", []string{"a", "b"}, 3},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := st.AddQuestion(ctx, round.ID, tt.text, tt.options, tt.correct, base)
			if lobby.KindOf(err) != lobby.KindInvalidInput {
				t.Errorf("error = %v, want invalid input", err)
			}
		})
	}

	key, err := st.AnswerKey(ctx, round.ID)
	if err != nil {
		t.Fatalf("AnswerKey() error = %v", err)
	}
	if len(key.Questions) != 2 {
		t.Fatalf("AnswerKey() has %d questions, want 2", len(key.Questions))
	}
	if key.Questions[0].ID != q1.ID || len(key.Questions[0].Options) != 4 {
		t.Errorf("first question = %+v", key.Questions[0])
	}
	if !key.Questions[0].Options[1].IsCorrect || key.Questions[0].Options[0].IsCorrect {
		t.Error("correct flag not stored on option 2")
	}

	if err := st.DeleteQuestion(ctx, round.ID, q2.ID); err != nil {
		t.Fatalf("DeleteQuestion() error = %v", err)
	}
	if err := st.DeleteQuestion(ctx, round.ID, q2.ID); !errors.Is(err, lobby.ErrQuestionNotFound) {
		t.Errorf("second DeleteQuestion() error = %v, want ErrQuestionNotFound", err)
	}

	count, err := st.CountQuestions(ctx, round.ID)
	if err != nil {
		t.Fatalf("CountQuestions() error = %v", err)
	}
	if count != 1 {
		t.Errorf("CountQuestions() = %d, want 1", count)
	}
}

func TestListAndDeleteEvents(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()

	older, err := st.CreateEvent(ctx, "Spring Quiz", "2025-03-01", 1, base)
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}
	newer, err := st.CreateEvent(ctx, "Summer Quiz", "2025-06-01", 2, base)
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	events, err := st.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if len(events) != 2 || events[0].ID != newer.ID || events[1].ID != older.ID {
		t.Fatalf("ListEvents() = %+v, want newest date first", events)
	}

	round := testutil.CreateTestRound(t, st, newer.ID, 1, true, false, "ABC123")
	q := testutil.AddTestQuestion(t, st, round.ID, []string{"a", "b"}, 1)
	entry := testutil.CreateTestCandidate(t, st, round, "Alice", true, base, base)

	if err := st.DeleteEvent(ctx, newer.ID); err != nil {
		t.Fatalf("DeleteEvent() error = %v", err)
	}
	if err := st.DeleteEvent(ctx, newer.ID); !errors.Is(err, lobby.ErrEventNotFound) {
		t.Errorf("second DeleteEvent() error = %v, want ErrEventNotFound", err)
	}

	if _, err := st.GetRound(ctx, newer.ID, 1); !errors.Is(err, lobby.ErrRoundNotFound) {
		t.Errorf("GetRound() after delete error = %v, want ErrRoundNotFound", err)
	}
	if _, err := st.GetCandidate(ctx, entry.ID); !errors.Is(err, lobby.ErrCandidateNotFound) {
		t.Errorf("GetCandidate() after delete error = %v, want ErrCandidateNotFound", err)
	}
	if err := st.DeleteQuestion(ctx, round.ID, q.ID); !errors.Is(err, lobby.ErrQuestionNotFound) {
		t.Errorf("DeleteQuestion() after delete error = %v, want ErrQuestionNotFound", err)
	}

	events, err = st.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if len(events) != 1 || events[0].ID != older.ID {
		t.Errorf("ListEvents() after delete = %+v", events)
	}
}
