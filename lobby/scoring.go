// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lobby

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/danielhkuo/quizhost/models"
)

// questionPrefix is accepted in front of question IDs in answer maps
const questionPrefix = "question_"

// Result is the outcome of scoring one submission
type Result struct {
	Score      int
	Total      int
	Attended   int
	Percentage float64
}

// ScoreAnswers matches answers (question ID -> option ID) against the key.
// Answers naming a question outside the round, or an option outside the
// question, are logged and skipped. Total counts every question of the
// round, so unanswered questions count against the candidate. A question
// counts once even when it is named both with and without the prefix.
func ScoreAnswers(key models.AnswerKey, answers map[string]string, log *slog.Logger) Result {
	if log == nil {
		log = slog.Default()
	}

	// question ID -> option ID -> correct
	options := make(map[string]map[string]bool, len(key.Questions))
	for _, q := range key.Questions {
		byID := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			byID[o.ID] = o.IsCorrect
		}
		options[q.ID] = byID
	}

	// Prefixed keys first, each group in key order, so the answer kept
	// for a question named twice does not depend on map iteration
	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		ap, bp := strings.HasPrefix(strings.TrimSpace(a), questionPrefix), strings.HasPrefix(strings.TrimSpace(b), questionPrefix)
		if ap != bp {
			if ap {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	})

	var res Result
	seen := make(map[string]bool, len(answers))
	for _, rawQuestion := range keys {
		rawOption := answers[rawQuestion]
		questionID := strings.TrimPrefix(strings.TrimSpace(rawQuestion), questionPrefix)
		optionID := strings.TrimSpace(rawOption)

		byID, ok := options[questionID]
		if !ok {
			log.Warn("question not found in round", "round_id", key.RoundID, "question_id", rawQuestion)
			continue
		}
		if seen[questionID] {
			log.Warn("duplicate answer for question", "round_id", key.RoundID, "question_id", questionID, "key", rawQuestion)
			continue
		}
		correct, ok := byID[optionID]
		if !ok {
			log.Warn("option not found for question", "round_id", key.RoundID, "question_id", questionID, "option_id", rawOption)
			continue
		}

		seen[questionID] = true
		res.Attended++
		if correct {
			res.Score++
		}
	}

	res.Total = len(key.Questions)
	if res.Total > 0 {
		res.Percentage = float64(res.Score) / float64(res.Total) * 100
	}
	return res
}

// Submit scores a candidate's answers and records the result on every entry
// of the round carrying that candidate name. Repeated submissions overwrite
// each other; the last write wins.
func (s *Service) Submit(ctx context.Context, req models.SubmitRequest) (Result, error) {
	if strings.TrimSpace(req.EventID) == "" {
		return Result{}, InvalidInput("event_id is required")
	}
	if req.RoundNumber < 1 {
		return Result{}, InvalidInput("round_number must be positive")
	}
	if req.TimeTakenSeconds < 0 {
		return Result{}, InvalidInput("time_taken_seconds cannot be negative")
	}
	name := strings.TrimSpace(req.CandidateName)
	if name == "" {
		name = models.AnonymousCandidate
	}

	event, err := s.store.GetEvent(ctx, req.EventID)
	if err != nil {
		return Result{}, err
	}
	round, err := s.store.GetRound(ctx, event.ID, req.RoundNumber)
	if err != nil {
		return Result{}, err
	}

	s.log.Info("submitting quiz", "candidate", name, "event", event.Name, "round", round.RoundNumber)

	key, err := s.store.AnswerKey(ctx, round.ID)
	if err != nil {
		return Result{}, err
	}
	res := ScoreAnswers(key, req.Answers, s.log)

	updated, err := s.store.MarkSubmitted(ctx, round.ID, name, models.Submission{
		Score:            res.Score,
		TotalQuestions:   res.Total,
		TimeTakenSeconds: req.TimeTakenSeconds,
	})
	if err != nil {
		return Result{}, err
	}
	if updated == 0 {
		s.log.Warn("no candidate entry matched submission", "round_id", round.ID, "candidate", name)
	}

	s.log.Info("quiz submission completed",
		"candidate", name,
		"round_id", round.ID,
		"score", res.Score,
		"total", res.Total,
		"time_taken_seconds", req.TimeTakenSeconds,
		"entries_updated", updated,
	)

	s.notify(models.SubmissionNotice{
		EventName:        event.Name,
		RoundNumber:      round.RoundNumber,
		CandidateName:    name,
		Score:            res.Score,
		TotalQuestions:   res.Total,
		Attended:         res.Attended,
		Percentage:       res.Percentage,
		TimeTakenSeconds: req.TimeTakenSeconds,
	})

	return res, nil
}

// notify hands the notice to the notifier in the background
func (s *Service) notify(notice models.SubmissionNotice) {
	if s.notifier == nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.notifier.Notify(ctx, notice); err != nil {
			err = upstream("organizer notification failed", err)
			s.log.Warn("notification not delivered", "candidate", notice.CandidateName, "kind", KindOf(err), "error", err)
			return
		}
		s.log.Info("organizer notified", "candidate", notice.CandidateName)
	}()
}
