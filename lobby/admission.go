// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lobby

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/danielhkuo/quizhost/auth"
	"github.com/danielhkuo/quizhost/models"
)

// MaxCandidateNameLength is the longest accepted display name, in characters
const MaxCandidateNameLength = 255

// Join admits a candidate into the waiting room of the round whose live
// access code matches. Joining again with the same name and code resumes the
// existing entry instead of creating a new one; the returned bool is true
// when a new entry was created.
func (s *Service) Join(ctx context.Context, accessCode, candidateName string) (models.CandidateEntry, models.Round, bool, error) {
	name := strings.TrimSpace(candidateName)
	code := auth.NormalizeAccessCode(accessCode)
	if name == "" {
		return models.CandidateEntry{}, models.Round{}, false, InvalidInput("Please enter your name or team name!")
	}
	if utf8.RuneCountInString(name) > MaxCandidateNameLength {
		return models.CandidateEntry{}, models.Round{}, false, InvalidInput("candidate_name must be at most %d characters", MaxCandidateNameLength)
	}
	if code == "" {
		return models.CandidateEntry{}, models.Round{}, false, InvalidInput("Please enter the access code!")
	}
	// Malformed codes can never match a round
	if !auth.IsAccessCode(code) {
		return models.CandidateEntry{}, models.Round{}, false, ErrInvalidCode
	}

	round, err := s.store.FindRoundByCode(ctx, code)
	if err != nil {
		return models.CandidateEntry{}, models.Round{}, false, err
	}
	if !round.IsHosting {
		return models.CandidateEntry{}, models.Round{}, false, ErrHostingNotActive
	}
	if round.IsStarted {
		return models.CandidateEntry{}, models.Round{}, false, ErrRoundAlreadyStarted
	}

	now := s.clock()
	entry, created, err := s.store.UpsertCandidate(ctx, models.CandidateEntry{
		ID:             auth.NewID(),
		EventID:        round.EventID,
		RoundID:        round.ID,
		CandidateName:  name,
		AccessCodeUsed: code,
		IsWaiting:      true,
		EntryTime:      now,
		LastActive:     now,
	})
	if err != nil {
		return models.CandidateEntry{}, models.Round{}, false, err
	}

	if created {
		s.log.Info("candidate joined", "round_id", round.ID, "entry_id", entry.ID, "candidate", name)
	} else {
		s.log.Info("candidate rejoined", "round_id", round.ID, "entry_id", entry.ID, "candidate", name)
	}
	return entry, round, created, nil
}
