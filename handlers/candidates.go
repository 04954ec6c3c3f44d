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

type CandidateHandler struct {
	svc *lobby.Service
}

func NewCandidateHandler(svc *lobby.Service) *CandidateHandler {
	return &CandidateHandler{svc: svc}
}

// Join handles POST /join
func (h *CandidateHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req models.JoinRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.WriteError(w, r, lobby.InvalidInput("Invalid JSON"))
		return
	}

	entry, round, created, err := h.svc.Join(r.Context(), req.AccessCode, req.CandidateName)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.JoinResponse{
		EntryID:     entry.ID,
		EventID:     entry.EventID,
		RoundNumber: round.RoundNumber,
		IsNew:       created,
	})
}

// Heartbeat handles POST /candidates/{id}/heartbeat
func (h *CandidateHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	h.presence(w, r, h.svc.Heartbeat)
}

// Init handles POST /candidates/{id}/init, sent on every page load
func (h *CandidateHandler) Init(w http.ResponseWriter, r *http.Request) {
	h.presence(w, r, h.svc.ReinitOnLoad)
}

// Enter handles POST /candidates/{id}/enter
func (h *CandidateHandler) Enter(w http.ResponseWriter, r *http.Request) {
	h.presence(w, r, h.svc.EnterTest)
}

// Exit handles POST /candidates/{id}/exit
func (h *CandidateHandler) Exit(w http.ResponseWriter, r *http.Request) {
	h.presence(w, r, h.svc.MarkExited)
}

// TabSwitch handles POST /candidates/{id}/tab-switch
func (h *CandidateHandler) TabSwitch(w http.ResponseWriter, r *http.Request) {
	h.presence(w, r, h.svc.MarkTabSwitched)
}

// Submit handles POST /submit
func (h *CandidateHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.WriteError(w, r, lobby.InvalidInput("Invalid JSON"))
		return
	}

	res, err := h.svc.Submit(r.Context(), req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SubmitResponse{
		Score:          res.Score,
		TotalQuestions: res.Total,
		Attended:       res.Attended,
		Percentage:     res.Percentage,
	})
}

type presenceFunc func(ctx context.Context, entryID string) (models.CandidateEntry, error)

// presence runs one presence update for the {id} entry and answers with its last_active
func (h *CandidateHandler) presence(w http.ResponseWriter, r *http.Request, fn presenceFunc) {
	entry, err := fn(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.HeartbeatResponse{LastActive: entry.LastActive})
}
