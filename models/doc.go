// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateEventRequest: name, date, number_of_rounds
  - UpdateRoundRequest: duration_minutes
  - AddQuestionRequest: question_text, options, correct_option
  - JoinRequest: candidate_name, access_code
  - SubmitRequest: event_id, round_number, candidate_name, answers, time_taken_seconds

# Response Types

Types for JSON responses:

  - EventsResponse: events
  - JoinResponse: entry_id, event_id, round_number, is_new
  - RoundStartedResponse: started
  - HostingStatusResponse: is_hosting, is_started
  - HeartbeatResponse: last_active
  - SubmitResponse: score, total_questions, attended, percentage
  - StartHostingResponse: access_code, message
  - Snapshot: organizer dashboard candidate list
  - ErrorResponse: error, message, kind, code

# Domain Types

Internal data structures:

  - Event: a quiz event with a fixed number of rounds
  - Round: one timed slot, its access code and phase flags
  - CandidateEntry: one candidate's presence and result in one round
  - Question / QuestionOption: the answer key
  - AnswerKey: all questions of a round, loaded once for scoring

# Constants

Candidate status values:

	StatusWaiting    = "Waiting"
	StatusInactive   = "Inactive"
	StatusLeft       = "Left"
	StatusGivingTest = "Giving Test"
	StatusSubmitted  = "Submitted"

Database types:

	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
*/
package models
