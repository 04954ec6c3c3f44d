// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lobby

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/quizhost/auth"
	"github.com/danielhkuo/quizhost/models"
)

// Default presence windows
const (
	DefaultActiveWindow   = 90 * time.Second
	DefaultWaitingTimeout = 45 * time.Second
	DefaultGraceWindow    = time.Second
	DefaultNotifyTimeout  = 5 * time.Second
)

// Store is the persistence the coordinator runs on. Update* calls run fn
// inside one transaction holding the record, so a whole read-modify-write
// is atomic. Lookups of missing records return an error wrapping the
// matching Err*NotFound sentinel; FindRoundByCode returns ErrInvalidCode
// when no round carries the code.
type Store interface {
	GetEvent(ctx context.Context, eventID string) (models.Event, error)
	EnsureRound(ctx context.Context, eventID string, number int, now time.Time) (models.Round, error)
	GetRound(ctx context.Context, eventID string, number int) (models.Round, error)
	FindRoundByCode(ctx context.Context, code string) (models.Round, error)
	UpdateRound(ctx context.Context, roundID string, fn func(*models.Round) error) (models.Round, error)
	CountQuestions(ctx context.Context, roundID string) (int, error)

	UpsertCandidate(ctx context.Context, entry models.CandidateEntry) (models.CandidateEntry, bool, error)
	UpdateCandidate(ctx context.Context, entryID string, fn func(models.Round, *models.CandidateEntry) error) (models.CandidateEntry, error)
	ListCandidates(ctx context.Context, roundID, accessCode string) ([]models.CandidateEntry, error)
	SweepWaiting(ctx context.Context, roundID string, cutoff time.Time) (int64, error)
	ListStaleWaiting(ctx context.Context, cutoff time.Time) ([]models.StaleCandidate, error)

	AnswerKey(ctx context.Context, roundID string) (models.AnswerKey, error)
	MarkSubmitted(ctx context.Context, roundID, candidateName string, sub models.Submission) (int64, error)
}

// Notifier tells the organizer about a submission. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, notice models.SubmissionNotice) error
}

// Windows are the elapsed-time thresholds used to classify presence
type Windows struct {
	// Heartbeat age under which a started candidate is "Giving Test"
	Active time.Duration
	// Heartbeat age after which a waiting candidate is "Inactive"
	WaitingTimeout time.Duration
	// Minimum gap between entry and last heartbeat for a real session
	Grace time.Duration
}

// DefaultWindows returns the 90s / 45s / 1s windows
func DefaultWindows() Windows {
	return Windows{
		Active:         DefaultActiveWindow,
		WaitingTimeout: DefaultWaitingTimeout,
		Grace:          DefaultGraceWindow,
	}
}

type Config struct {
	Windows Windows

	// Reject StartTest on a round that is not hosting
	StrictTransitions bool

	// Skip the sweep run by the pre-start snapshot
	DisableLazySweep bool

	Notifier      Notifier
	NotifyTimeout time.Duration

	// Overridable for tests
	Now     func() time.Time
	NewCode func() (string, error)
	Logger  *slog.Logger
}

// Service coordinates round lifecycle, admission, presence and scoring
type Service struct {
	store    Store
	windows  Windows
	strict   bool
	lazy     bool
	notifier Notifier
	timeout  time.Duration
	now      func() time.Time
	newCode  func() (string, error)
	log      *slog.Logger

	// in-flight notifications
	wg sync.WaitGroup
}

func New(store Store, cfg Config) *Service {
	s := &Service{
		store:    store,
		windows:  cfg.Windows,
		strict:   cfg.StrictTransitions,
		lazy:     !cfg.DisableLazySweep,
		notifier: cfg.Notifier,
		timeout:  cfg.NotifyTimeout,
		now:      cfg.Now,
		newCode:  cfg.NewCode,
		log:      cfg.Logger,
	}
	if s.windows == (Windows{}) {
		s.windows = DefaultWindows()
	}
	if s.timeout <= 0 {
		s.timeout = DefaultNotifyTimeout
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newCode == nil {
		s.newCode = auth.GenerateAccessCode
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// Windows returns the presence windows in use
func (s *Service) Windows() Windows {
	return s.windows
}

// Close waits for in-flight notifications
func (s *Service) Close() {
	s.wg.Wait()
}

// clock returns the current time truncated to the store's millisecond precision
func (s *Service) clock() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}
