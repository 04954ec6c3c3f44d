// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"

	"github.com/danielhkuo/quizhost/lobby"
	"github.com/danielhkuo/quizhost/middleware"
	"github.com/danielhkuo/quizhost/models"
)

type RoundHandler struct {
	svc *lobby.Service
}

func NewRoundHandler(svc *lobby.Service) *RoundHandler {
	return &RoundHandler{svc: svc}
}

// OpenRound handles GET /events/{event}/rounds/{round}
func (h *RoundHandler) OpenRound(w http.ResponseWriter, r *http.Request) {
	number, ok := roundNumber(w, r)
	if !ok {
		return
	}

	round, count, err := h.svc.OpenRound(r.Context(), r.PathValue("event"), number)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RoundDetailsResponse{Round: round, QuestionCount: count})
}

// UpdateSettings handles POST /events/{event}/rounds/{round}/settings
func (h *RoundHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	number, ok := roundNumber(w, r)
	if !ok {
		return
	}

	var req models.UpdateRoundRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.WriteError(w, r, lobby.InvalidInput("Invalid JSON"))
		return
	}

	round, err := h.svc.SetDuration(r.Context(), r.PathValue("event"), number, req.DurationMinutes)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RoundDetailsResponse{Round: round})
}

// StartHosting handles POST /events/{event}/rounds/{round}/start-hosting
func (h *RoundHandler) StartHosting(w http.ResponseWriter, r *http.Request) {
	number, ok := roundNumber(w, r)
	if !ok {
		return
	}

	round, err := h.svc.StartHosting(r.Context(), r.PathValue("event"), number)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.StartHostingResponse{
		AccessCode: round.Code(),
		Message:    "Hosting started. Share the access code with candidates.",
	})
}

// EndHosting handles POST /events/{event}/rounds/{round}/end-hosting
func (h *RoundHandler) EndHosting(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.EndHosting, "Hosting ended")
}

// StartTest handles POST /events/{event}/rounds/{round}/start-test
func (h *RoundHandler) StartTest(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.StartTest, "Test started")
}

// EndTest handles POST /events/{event}/rounds/{round}/end-test
func (h *RoundHandler) EndTest(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.EndTest, "Test ended")
}

// RoundStarted handles GET /events/{event}/rounds/{round}/started
func (h *RoundHandler) RoundStarted(w http.ResponseWriter, r *http.Request) {
	number, ok := roundNumber(w, r)
	if !ok {
		return
	}

	started, err := h.svc.RoundStarted(r.Context(), r.PathValue("event"), number)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RoundStartedResponse{Started: started})
}

// HostingStatus handles GET /events/{event}/rounds/{round}/hosting-status
func (h *RoundHandler) HostingStatus(w http.ResponseWriter, r *http.Request) {
	number, ok := roundNumber(w, r)
	if !ok {
		return
	}

	status, err := h.svc.HostingStatus(r.Context(), r.PathValue("event"), number)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, status)
}

// Candidates handles GET /events/{event}/rounds/{round}/candidates
func (h *RoundHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	number, ok := roundNumber(w, r)
	if !ok {
		return
	}

	snap, err := h.svc.Candidates(r.Context(), r.PathValue("event"), number)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, snap)
}

type transitionFunc func(ctx context.Context, eventID string, number int) (models.Round, error)

func (h *RoundHandler) transition(w http.ResponseWriter, r *http.Request, fn transitionFunc, message string) {
	number, ok := roundNumber(w, r)
	if !ok {
		return
	}

	if _, err := fn(r.Context(), r.PathValue("event"), number); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: message})
}
