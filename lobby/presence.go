// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lobby

import (
	"context"
	"time"

	"github.com/danielhkuo/quizhost/auth"
	"github.com/danielhkuo/quizhost/models"
)

// Classify derives a candidate's dashboard status from its flags, the
// round phase and the time elapsed since its last heartbeat.
func Classify(e models.CandidateEntry, roundStarted bool, now time.Time, w Windows) string {
	if e.IsSubmitted {
		return models.StatusSubmitted
	}

	if roundStarted {
		// A ghost entry never heartbeated after admission and must not look active
		if !e.IsWaiting && now.Sub(e.LastActive) < w.Active && e.LastActive.Sub(e.EntryTime) > w.Grace {
			return models.StatusGivingTest
		}
		return models.StatusLeft
	}

	if !e.IsWaiting {
		return models.StatusLeft
	}
	if now.Sub(e.LastActive) < w.WaitingTimeout {
		return models.StatusWaiting
	}
	return models.StatusInactive
}

// Heartbeat refreshes last_active. Before the test starts, a candidate who
// timed out or left is treated as back.
func (s *Service) Heartbeat(ctx context.Context, entryID string) (models.CandidateEntry, error) {
	now := s.clock()
	return s.updateEntry(ctx, entryID, func(r models.Round, e *models.CandidateEntry) error {
		touch(e, now)
		if !r.IsStarted && !e.IsWaiting && !e.IsSubmitted {
			e.IsWaiting = true
			s.log.Info("candidate heartbeat resumed, marked as waiting", "entry_id", e.ID, "candidate", e.CandidateName)
		}
		return nil
	})
}

// MarkExited records an explicit departure from the waiting room. It has no
// effect once the test has started.
func (s *Service) MarkExited(ctx context.Context, entryID string) (models.CandidateEntry, error) {
	return s.updateEntry(ctx, entryID, func(r models.Round, e *models.CandidateEntry) error {
		if !r.IsStarted {
			e.IsWaiting = false
			s.log.Info("candidate exited waiting room", "entry_id", e.ID, "candidate", e.CandidateName)
		}
		return nil
	})
}

// ReinitOnLoad runs on every page (re)load. Before the test starts an
// unsubmitted candidate is put back into the waiting room.
func (s *Service) ReinitOnLoad(ctx context.Context, entryID string) (models.CandidateEntry, error) {
	now := s.clock()
	return s.updateEntry(ctx, entryID, func(r models.Round, e *models.CandidateEntry) error {
		touch(e, now)
		if !r.IsStarted && !e.IsSubmitted {
			e.IsWaiting = true
		}
		return nil
	})
}

// EnterTest moves a candidate from the waiting room into the running test.
// Each entry may enter once; a reload of the test page does not reopen it.
func (s *Service) EnterTest(ctx context.Context, entryID string) (models.CandidateEntry, error) {
	now := s.clock()
	return s.updateEntry(ctx, entryID, func(r models.Round, e *models.CandidateEntry) error {
		if !r.IsStarted {
			return ErrRoundNotStarted
		}
		if e.IsSubmitted {
			return ErrAlreadySubmitted
		}
		if e.HasEnteredTest {
			return ErrAlreadyEntered
		}
		e.HasEnteredTest = true
		e.IsWaiting = false
		touch(e, now)
		s.log.Info("candidate entered test", "entry_id", e.ID, "candidate", e.CandidateName)
		return nil
	})
}

// MarkTabSwitched flags that the candidate's page lost focus
func (s *Service) MarkTabSwitched(ctx context.Context, entryID string) (models.CandidateEntry, error) {
	return s.updateEntry(ctx, entryID, func(_ models.Round, e *models.CandidateEntry) error {
		if !e.HasSwitchedTabs {
			e.HasSwitchedTabs = true
			s.log.Info("candidate switched tabs", "entry_id", e.ID, "candidate", e.CandidateName)
		}
		return nil
	})
}

// SweepStale marks every waiting candidate of a not-started round as no
// longer waiting once its heartbeat is older than the waiting timeout.
func (s *Service) SweepStale(ctx context.Context) (int64, error) {
	return s.Cleanup(ctx, s.windows.WaitingTimeout)
}

// Cleanup is SweepStale with an explicit inactivity timeout
func (s *Service) Cleanup(ctx context.Context, inactivity time.Duration) (int64, error) {
	if inactivity <= 0 {
		return 0, InvalidInput("inactivity timeout must be positive")
	}
	n, err := s.store.SweepWaiting(ctx, "", s.clock().Add(-inactivity))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("marked inactive candidates as not waiting", "count", n, "timeout", inactivity)
	}
	return n, nil
}

// StaleCandidates lists what Cleanup would change, for dry runs
func (s *Service) StaleCandidates(ctx context.Context, inactivity time.Duration) ([]models.StaleCandidate, error) {
	if inactivity <= 0 {
		return nil, InvalidInput("inactivity timeout must be positive")
	}
	return s.store.ListStaleWaiting(ctx, s.clock().Add(-inactivity))
}

// RunSweeper calls SweepStale every interval until ctx is done
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.SweepStale(ctx); err != nil && ctx.Err() == nil {
				s.log.Error("waiting room sweep failed", "error", err)
			}
		}
	}
}

func (s *Service) updateEntry(ctx context.Context, entryID string, fn func(models.Round, *models.CandidateEntry) error) (models.CandidateEntry, error) {
	id, err := auth.ParseID(entryID)
	if err != nil {
		return models.CandidateEntry{}, InvalidInput("invalid candidate entry id")
	}
	return s.store.UpdateCandidate(ctx, id, fn)
}

// touch moves last_active forward, never back
func touch(e *models.CandidateEntry, now time.Time) {
	if now.After(e.LastActive) {
		e.LastActive = now
	}
}
