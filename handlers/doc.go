// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the quizhost API.

# Handler Types

Each handler is a struct over the lobby service, plus the store where the
organizer edits quiz content directly:

  - EventHandler: event listing, creation and deletion, round listing and question editing
  - RoundHandler: round lifecycle and the organizer dashboard
  - CandidateHandler: joining, presence updates and submission

Handlers are created via constructor functions:

	roundHandler := handlers.NewRoundHandler(svc)

Handlers decode the request, call one lobby operation, and hand any error
to middleware.WriteError, which maps its kind to a status code.

# Round Lifecycle

A round moves between idle, hosting and started:

	POST /events/{event}/rounds/{round}/start-hosting → StartHosting (returns access_code)
	POST /events/{event}/rounds/{round}/start-test    → StartTest
	POST /events/{event}/rounds/{round}/end-test      → EndTest
	POST /events/{event}/rounds/{round}/end-hosting   → EndHosting
	GET  /events/{event}/rounds/{round}/candidates    → Candidates

Organizer operations require the X-Organizer-Key header.

# Candidate Flow

Candidates join with the access code and then identify by entry id:

	POST /join                         → Join (returns entry_id)
	POST /candidates/{id}/heartbeat    → Heartbeat
	POST /candidates/{id}/init         → Init
	POST /candidates/{id}/enter        → Enter
	POST /candidates/{id}/exit         → Exit
	POST /candidates/{id}/tab-switch   → TabSwitch
	POST /submit                       → Submit

The waiting room polls GET /events/{event}/rounds/{round}/started to learn
when to move into the test.
*/
package handlers
