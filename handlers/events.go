// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/quizhost/lobby"
	"github.com/danielhkuo/quizhost/middleware"
	"github.com/danielhkuo/quizhost/models"
	"github.com/danielhkuo/quizhost/store"
)

// maxRounds caps number_of_rounds on event creation
const maxRounds = 50

type EventHandler struct {
	st  *store.Store
	svc *lobby.Service
}

func NewEventHandler(st *store.Store, svc *lobby.Service) *EventHandler {
	return &EventHandler{st: st, svc: svc}
}

// CreateEvent handles POST /events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEventRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.WriteError(w, r, lobby.InvalidInput("Invalid JSON"))
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		middleware.WriteError(w, r, lobby.InvalidInput("name is required"))
		return
	}

	rounds := req.NumberOfRounds
	if rounds == 0 {
		rounds = 1
	}
	if rounds < 1 || rounds > maxRounds {
		middleware.WriteError(w, r, lobby.InvalidInput("number_of_rounds must be between 1 and %d", maxRounds))
		return
	}

	now := time.Now().UTC()
	date := req.Date
	if date == "" {
		date = now.Format(time.DateOnly)
	} else if _, err := time.Parse(time.DateOnly, date); err != nil {
		middleware.WriteError(w, r, lobby.InvalidInput("date must be YYYY-MM-DD"))
		return
	}

	event, err := h.st.CreateEvent(r.Context(), name, date, rounds, now)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("event created", "event_id", event.ID, "name", event.Name, "rounds", event.NumberOfRounds)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateEventResponse{EventID: event.ID})
}

// ListEvents handles GET /events
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.st.ListEvents(r.Context())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.EventsResponse{Events: events})
}

// DeleteEvent handles DELETE /events/{event}
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("event")
	if err := h.st.DeleteEvent(r.Context(), eventID); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("event deleted", "event_id", eventID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Event deleted"})
}

// ListRounds handles GET /events/{event}/rounds
func (h *EventHandler) ListRounds(w http.ResponseWriter, r *http.Request) {
	rounds, err := h.st.ListRoundNumbers(r.Context(), r.PathValue("event"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RoundsResponse{Rounds: rounds})
}

// AddQuestion handles POST /events/{event}/rounds/{round}/questions
func (h *EventHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	number, ok := roundNumber(w, r)
	if !ok {
		return
	}

	var req models.AddQuestionRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.WriteError(w, r, lobby.InvalidInput("Invalid JSON"))
		return
	}

	options := make([]string, 0, len(req.Options))
	for _, o := range req.Options {
		if o = strings.TrimSpace(o); o != "" {
			options = append(options, o)
		}
	}
	if len(options) != len(req.Options) {
		middleware.WriteError(w, r, lobby.InvalidInput("options must not be blank"))
		return
	}

	round, _, err := h.svc.OpenRound(r.Context(), r.PathValue("event"), number)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	q, err := h.st.AddQuestion(r.Context(), round.ID, strings.TrimSpace(req.QuestionText), options, req.CorrectOption, time.Now())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("question added", "round_id", round.ID, "question_id", q.ID, "options", len(q.Options))

	resp := models.AddQuestionResponse{QuestionID: q.ID}
	for _, o := range q.Options {
		resp.OptionIDs = append(resp.OptionIDs, o.ID)
	}
	middleware.JSONResponse(w, http.StatusCreated, resp)
}

// DeleteQuestion handles DELETE /events/{event}/rounds/{round}/questions/{question}
func (h *EventHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	number, ok := roundNumber(w, r)
	if !ok {
		return
	}

	round, err := h.st.GetRound(r.Context(), r.PathValue("event"), number)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	questionID := r.PathValue("question")
	if err := h.st.DeleteQuestion(r.Context(), round.ID, questionID); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("question deleted", "round_id", round.ID, "question_id", questionID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Question deleted"})
}

// roundNumber parses the {round} path value, writing a 400 when it is not a positive integer
func roundNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	n, err := strconv.Atoi(r.PathValue("round"))
	if err != nil || n < 1 {
		middleware.WriteError(w, r, lobby.InvalidInput("round must be a positive integer"))
		return 0, false
	}
	return n, true
}
