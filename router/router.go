// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quizhost/cliparse"
	"github.com/danielhkuo/quizhost/handlers"
	"github.com/danielhkuo/quizhost/lobby"
	"github.com/danielhkuo/quizhost/middleware"
	"github.com/danielhkuo/quizhost/store"
)

func NewRouter(st *store.Store, svc *lobby.Service, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	eventHandler := handlers.NewEventHandler(st, svc)
	roundHandler := handlers.NewRoundHandler(svc)
	candidateHandler := handlers.NewCandidateHandler(svc)

	public := middleware.WithLogging
	organizer := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireOrganizer(cfg.OrganizerKey, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Candidate operations (public)
	mux.HandleFunc("POST /join", public(candidateHandler.Join))
	mux.HandleFunc("POST /candidates/{id}/heartbeat", public(candidateHandler.Heartbeat))
	mux.HandleFunc("POST /candidates/{id}/init", public(candidateHandler.Init))
	mux.HandleFunc("POST /candidates/{id}/enter", public(candidateHandler.Enter))
	mux.HandleFunc("POST /candidates/{id}/exit", public(candidateHandler.Exit))
	mux.HandleFunc("POST /candidates/{id}/tab-switch", public(candidateHandler.TabSwitch))
	mux.HandleFunc("POST /submit", public(candidateHandler.Submit))

	// Round status polled by candidate pages (public)
	mux.HandleFunc("GET /events/{event}/rounds", public(eventHandler.ListRounds))
	mux.HandleFunc("GET /events/{event}/rounds/{round}/started", public(roundHandler.RoundStarted))
	mux.HandleFunc("GET /events/{event}/rounds/{round}/hosting-status", public(roundHandler.HostingStatus))

	// Event and question management (organizer)
	mux.HandleFunc("POST /events", organizer(eventHandler.CreateEvent))
	mux.HandleFunc("GET /events", organizer(eventHandler.ListEvents))
	mux.HandleFunc("DELETE /events/{event}", organizer(eventHandler.DeleteEvent))
	mux.HandleFunc("POST /events/{event}/rounds/{round}/questions", organizer(eventHandler.AddQuestion))
	mux.HandleFunc("DELETE /events/{event}/rounds/{round}/questions/{question}", organizer(eventHandler.DeleteQuestion))

	// Round lifecycle (organizer)
	mux.HandleFunc("GET /events/{event}/rounds/{round}", organizer(roundHandler.OpenRound))
	mux.HandleFunc("POST /events/{event}/rounds/{round}/settings", organizer(roundHandler.UpdateSettings))
	mux.HandleFunc("POST /events/{event}/rounds/{round}/start-hosting", organizer(roundHandler.StartHosting))
	mux.HandleFunc("POST /events/{event}/rounds/{round}/end-hosting", organizer(roundHandler.EndHosting))
	mux.HandleFunc("POST /events/{event}/rounds/{round}/start-test", organizer(roundHandler.StartTest))
	mux.HandleFunc("POST /events/{event}/rounds/{round}/end-test", organizer(roundHandler.EndTest))
	mux.HandleFunc("GET /events/{event}/rounds/{round}/candidates", organizer(roundHandler.Candidates))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quizhost API v1"))
	})

	return mux
}
