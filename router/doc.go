// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the quizhost API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(st, svc, cfg)

# Endpoints

Health:

	GET /health

Candidates (public):

	POST /join                       - Join a hosting round with its access code
	POST /candidates/{id}/heartbeat  - Keep presence alive
	POST /candidates/{id}/init       - Page (re)load
	POST /candidates/{id}/enter      - Move from waiting room into the test
	POST /candidates/{id}/exit       - Leave the waiting room
	POST /candidates/{id}/tab-switch - Flag a lost focus
	POST /submit                     - Score and record answers

Round status (public, polled by the waiting room):

	GET /events/{event}/rounds
	GET /events/{event}/rounds/{round}/started
	GET /events/{event}/rounds/{round}/hosting-status

Organizer (requires X-Organizer-Key):

	POST   /events                                         - Create event
	GET    /events                                         - List events
	DELETE /events/{event}                                 - Delete event and everything under it
	GET    /events/{event}/rounds/{round}                  - Open round
	POST   /events/{event}/rounds/{round}/settings         - Set duration
	POST   /events/{event}/rounds/{round}/questions        - Add question
	DELETE /events/{event}/rounds/{round}/questions/{question}
	POST   /events/{event}/rounds/{round}/start-hosting
	POST   /events/{event}/rounds/{round}/end-hosting
	POST   /events/{event}/rounds/{round}/start-test
	POST   /events/{event}/rounds/{round}/end-test
	GET    /events/{event}/rounds/{round}/candidates       - Dashboard snapshot

# Handler Initialization

The router creates handler instances with dependency injection:

	eventHandler := handlers.NewEventHandler(st, svc)
	roundHandler := handlers.NewRoundHandler(svc)
	candidateHandler := handlers.NewCandidateHandler(svc)

Every route is wrapped in middleware.WithLogging.
*/
package router
