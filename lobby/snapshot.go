// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lobby

import (
	"context"
	"fmt"
	"sort"

	"github.com/danielhkuo/quizhost/models"
)

// Candidates builds the organizer's view of a round. Only entries admitted
// under the round's current access code are listed. Once the test has
// started, only candidates who submitted or are actively giving the test
// are shown.
func (s *Service) Candidates(ctx context.Context, eventID string, number int) (models.Snapshot, error) {
	round, err := s.store.GetRound(ctx, eventID, number)
	if err != nil {
		return models.Snapshot{}, err
	}

	snap := models.Snapshot{
		IsHosting:  round.IsHosting,
		IsStarted:  round.IsStarted,
		Candidates: []models.CandidateView{},
	}

	code := round.Code()
	if code != "" {
		if !round.IsStarted && s.lazy {
			cutoff := s.clock().Add(-s.windows.WaitingTimeout)
			if n, err := s.store.SweepWaiting(ctx, round.ID, cutoff); err != nil {
				return models.Snapshot{}, err
			} else if n > 0 {
				s.log.Info("marked stale candidates as not waiting", "round_id", round.ID, "count", n)
			}
		}

		entries, err := s.store.ListCandidates(ctx, round.ID, code)
		if err != nil {
			return models.Snapshot{}, err
		}
		sortEntries(entries)

		now := s.clock()
		snap.TotalCount = len(entries)
		for _, e := range entries {
			status := Classify(e, round.IsStarted, now, s.windows)
			if e.IsSubmitted {
				snap.SubmittedCount++
			}
			if round.IsStarted && status != models.StatusSubmitted && status != models.StatusGivingTest {
				continue
			}
			snap.Candidates = append(snap.Candidates, models.CandidateView{
				ID:              e.ID,
				Name:            e.CandidateName,
				Status:          status,
				IsSubmitted:     e.IsSubmitted,
				Score:           e.Score,
				TotalQuestions:  e.TotalQuestions,
				TimeTaken:       formatTimeTaken(e.TimeTakenSeconds),
				HasSwitchedTabs: e.HasSwitchedTabs,
			})
		}
	}

	switch {
	case len(snap.Candidates) == 0:
		snap.Label = models.LabelNoCandidates
	case round.IsStarted:
		snap.Label = models.LabelAllStatus
	default:
		snap.Label = models.LabelJoined
	}
	return snap, nil
}

// sortEntries orders submitted entries first, then by entry time
func sortEntries(entries []models.CandidateEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsSubmitted != entries[j].IsSubmitted {
			return entries[i].IsSubmitted
		}
		return entries[i].EntryTime.Before(entries[j].EntryTime)
	})
}

// formatTimeTaken renders seconds as "Xm Ys", or "" when nothing was recorded
func formatTimeTaken(seconds int) string {
	if seconds <= 0 {
		return ""
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}
