// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"testing"

	"github.com/danielhkuo/quizhost/lobby"
	"github.com/danielhkuo/quizhost/store"
	"github.com/danielhkuo/quizhost/testutil"
)

// testEnv wires handlers over a fresh database with one two-round event
type testEnv struct {
	st         *store.Store
	svc        *lobby.Service
	events     *EventHandler
	rounds     *RoundHandler
	candidates *CandidateHandler
	eventID    string
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	st := testutil.SetupTestStore(t)
	svc := lobby.New(st, lobby.Config{
		StrictTransitions: true,
		Logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	t.Cleanup(svc.Close)

	return &testEnv{
		st:         st,
		svc:        svc,
		events:     NewEventHandler(st, svc),
		rounds:     NewRoundHandler(svc),
		candidates: NewCandidateHandler(svc),
		eventID:    testutil.CreateTestEvent(t, st, 2),
	}
}

// roundRequest builds a request for a round route with path values set
func (e *testEnv) roundRequest(method string, round int, body interface{}) *http.Request {
	req := testutil.MakeRequest(method, "/events/"+e.eventID+"/rounds/"+strconv.Itoa(round), body, testutil.OrganizerHeaders())
	req.SetPathValue("event", e.eventID)
	req.SetPathValue("round", strconv.Itoa(round))
	return req
}

func candidateRequest(id string) *http.Request {
	req := testutil.MakeRequest("POST", "/candidates/"+id, nil, nil)
	req.SetPathValue("id", id)
	return req
}
