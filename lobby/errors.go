// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lobby

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers that translate it (HTTP status, CLI exit)
type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindInvalidState        Kind = "invalid_state"
	KindInvalidInput        Kind = "invalid_input"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindInternal            Kind = "internal"
)

// Error is a classified failure. Code is a stable machine-readable reason.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Lookup failures
var (
	ErrEventNotFound     = &Error{Kind: KindNotFound, Code: "event_not_found", Message: "Event not found"}
	ErrRoundNotFound     = &Error{Kind: KindNotFound, Code: "round_not_found", Message: "Round not found"}
	ErrCandidateNotFound = &Error{Kind: KindNotFound, Code: "candidate_not_found", Message: "Candidate not found"}
	ErrQuestionNotFound  = &Error{Kind: KindNotFound, Code: "question_not_found", Message: "Question not found"}
)

// Admission and lifecycle failures
var (
	ErrInvalidCode         = &Error{Kind: KindNotFound, Code: "invalid_code", Message: "Invalid access code! Please check and try again."}
	ErrHostingNotActive    = &Error{Kind: KindInvalidState, Code: "hosting_not_active", Message: "Hosting has not started yet or has ended! Please ask the host to start hosting."}
	ErrRoundAlreadyStarted = &Error{Kind: KindInvalidState, Code: "round_already_started", Message: "This round has already started! No new candidates can join."}
	ErrRoundNotStarted     = &Error{Kind: KindInvalidState, Code: "round_not_started", Message: "The round has not started yet."}
	ErrAlreadySubmitted    = &Error{Kind: KindInvalidState, Code: "already_submitted", Message: "Your attempt has already been recorded."}
	ErrAlreadyEntered      = &Error{Kind: KindInvalidState, Code: "already_entered", Message: "You have already entered this test."}
)

// ErrUpstreamUnavailable marks a failed call to an outside collaborator
var ErrUpstreamUnavailable = &Error{Kind: KindUpstreamUnavailable, Code: "upstream_unavailable", Message: "Upstream service unavailable"}

// InvalidInput returns a classified error for a malformed request field
func InvalidInput(format string, args ...any) error {
	return &Error{Kind: KindInvalidInput, Code: "invalid_input", Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// AsError returns the first *Error in err's chain
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// upstream wraps a collaborator failure
func upstream(op string, err error) error {
	return &Error{
		Kind:    KindUpstreamUnavailable,
		Code:    ErrUpstreamUnavailable.Code,
		Message: op,
		Err:     errors.Join(ErrUpstreamUnavailable, err),
	}
}
