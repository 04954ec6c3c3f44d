// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lobby

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielhkuo/quizhost/models"
)

// maxCodeAttempts bounds the retries for a code that differs from the previous one
const maxCodeAttempts = 8

// OpenRound returns the round, creating it on the organizer's first reference
func (s *Service) OpenRound(ctx context.Context, eventID string, number int) (models.Round, int, error) {
	if number < 1 {
		return models.Round{}, 0, InvalidInput("round number must be positive")
	}
	round, err := s.store.EnsureRound(ctx, eventID, number, s.clock())
	if err != nil {
		return models.Round{}, 0, err
	}
	count, err := s.store.CountQuestions(ctx, round.ID)
	if err != nil {
		return models.Round{}, 0, err
	}
	return round, count, nil
}

// SetDuration changes the round's duration in minutes
func (s *Service) SetDuration(ctx context.Context, eventID string, number, minutes int) (models.Round, error) {
	if minutes <= 0 {
		return models.Round{}, InvalidInput("duration_minutes must be positive")
	}
	return s.transition(ctx, eventID, number, func(r *models.Round) error {
		r.DurationMinutes = minutes
		return nil
	})
}

// StartHosting issues a fresh access code and opens the waiting room.
// Any previously distributed code stops matching.
func (s *Service) StartHosting(ctx context.Context, eventID string, number int) (models.Round, error) {
	if number < 1 {
		return models.Round{}, InvalidInput("round number must be positive")
	}
	round, err := s.store.EnsureRound(ctx, eventID, number, s.clock())
	if err != nil {
		return models.Round{}, err
	}

	round, err = s.store.UpdateRound(ctx, round.ID, func(r *models.Round) error {
		code, err := s.issueCode(r.Code())
		if err != nil {
			return err
		}
		r.AccessCode = &code
		r.IsHosting = true
		r.IsStarted = false
		return nil
	})
	if err != nil {
		return models.Round{}, err
	}

	s.log.Info("hosting started", "round_id", round.ID, "round", number, "access_code", round.Code())
	return round, nil
}

// StartTest closes admission and starts the timed test
func (s *Service) StartTest(ctx context.Context, eventID string, number int) (models.Round, error) {
	round, err := s.transition(ctx, eventID, number, func(r *models.Round) error {
		if s.strict && !r.IsHosting {
			return ErrHostingNotActive
		}
		r.IsStarted = true
		return nil
	})
	if err != nil {
		return models.Round{}, err
	}

	s.log.Info("test started", "round_id", round.ID, "round", number)
	return round, nil
}

// EndHosting returns the round to idle and clears its access code
func (s *Service) EndHosting(ctx context.Context, eventID string, number int) (models.Round, error) {
	round, err := s.transition(ctx, eventID, number, func(r *models.Round) error {
		r.IsHosting = false
		r.IsStarted = false
		r.AccessCode = nil
		return nil
	})
	if err != nil {
		return models.Round{}, err
	}

	s.log.Info("hosting ended", "round_id", round.ID, "round", number)
	return round, nil
}

// EndTest stops the test but leaves hosting as it is
func (s *Service) EndTest(ctx context.Context, eventID string, number int) (models.Round, error) {
	round, err := s.transition(ctx, eventID, number, func(r *models.Round) error {
		r.IsStarted = false
		return nil
	})
	if err != nil {
		return models.Round{}, err
	}

	s.log.Info("test ended", "round_id", round.ID, "round", number)
	return round, nil
}

// RoundStarted reports whether the test is running. A round that does not
// exist yet reads as not started.
func (s *Service) RoundStarted(ctx context.Context, eventID string, number int) (bool, error) {
	round, err := s.store.GetRound(ctx, eventID, number)
	if errors.Is(err, ErrRoundNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return round.IsStarted, nil
}

// HostingStatus returns the round's phase flags
func (s *Service) HostingStatus(ctx context.Context, eventID string, number int) (models.HostingStatusResponse, error) {
	round, err := s.store.GetRound(ctx, eventID, number)
	if err != nil {
		return models.HostingStatusResponse{}, err
	}
	return models.HostingStatusResponse{IsHosting: round.IsHosting, IsStarted: round.IsStarted}, nil
}

func (s *Service) transition(ctx context.Context, eventID string, number int, fn func(*models.Round) error) (models.Round, error) {
	round, err := s.store.GetRound(ctx, eventID, number)
	if err != nil {
		return models.Round{}, err
	}
	return s.store.UpdateRound(ctx, round.ID, fn)
}

// issueCode draws codes until one differs from previous
func (s *Service) issueCode(previous string) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := s.newCode()
		if err != nil {
			return "", fmt.Errorf("failed to issue access code: %w", err)
		}
		if code != previous {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to issue access code: %d draws repeated %q", maxCodeAttempts, previous)
}
