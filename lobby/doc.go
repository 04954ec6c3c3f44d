// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package lobby coordinates quiz rounds and the candidates waiting in them.

# Round Lifecycle

A round moves through three phases driven by the organizer:

	idle ── StartHosting ──▶ hosting ── StartTest ──▶ started
	  ▲                         │                         │
	  └──────── EndHosting ─────┴───────── EndHosting ────┘

StartHosting always issues a fresh access code, different from the one
before it, so a code handed out earlier stops admitting anyone. EndHosting
clears the code. A round without hosting never carries a code.

EndTest stops a running test and leaves hosting on. With StrictTransitions
set, StartTest is refused on a round that is not hosting.

# Admission

Join resolves the access code to a round and creates or resumes the
candidate's entry. Entries are unique per (round, name, code), so a
candidate reconnecting with the same name and code keeps one record, while
a new hosting generation produces a new one.

# Presence

Candidates send heartbeats while their page is open. Status is derived from
the entry's flags and the age of its last heartbeat:

	Submitted    submission recorded
	Giving Test  started, entered the test, heartbeat within ActiveWindow
	Left         exited, swept, or silent after the test started
	Waiting      not started, heartbeat within WaitingTimeout
	Inactive     not started, heartbeat older than WaitingTimeout

A waiting entry whose heartbeats stopped is swept to "not waiting" lazily
when the organizer reads the candidate list, periodically by RunSweeper,
and on demand by Cleanup.

# Scoring

Submit scores answers against the round's answer key, records the result on
the candidate's entries and notifies the organizer in the background. A
failed notification is logged and never fails the submission.

# Errors

Every expected failure is an *Error carrying a Kind. Use KindOf to map an
error to a transport status:

	switch lobby.KindOf(err) {
	case lobby.KindNotFound:     // 404
	case lobby.KindInvalidState: // 409
	case lobby.KindInvalidInput: // 400
	}
*/
package lobby
