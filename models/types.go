package models

import "time"

// Candidate status values shown on the organizer dashboard
const (
	StatusWaiting    = "Waiting"
	StatusInactive   = "Inactive"
	StatusLeft       = "Left"
	StatusGivingTest = "Giving Test"
	StatusSubmitted  = "Submitted"
)

// Dashboard labels
const (
	LabelAllStatus    = "Candidates - All Status"
	LabelJoined       = "Candidates Joined"
	LabelNoCandidates = "No candidates yet"
)

// Database types
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

// AnonymousCandidate is recorded when a submission carries no name
const AnonymousCandidate = "Anonymous"

// Request types

type CreateEventRequest struct {
	Name           string `json:"name"`
	Date           string `json:"date"` // YYYY-MM-DD, defaults to today
	NumberOfRounds int    `json:"number_of_rounds"`
}

type UpdateRoundRequest struct {
	DurationMinutes int `json:"duration_minutes"`
}

type AddQuestionRequest struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"` // 1-indexed
}

type JoinRequest struct {
	CandidateName string `json:"candidate_name"`
	AccessCode    string `json:"access_code"`
}

// question_id -> option_id
type SubmitRequest struct {
	EventID          string            `json:"event_id"`
	RoundNumber      int               `json:"round_number"`
	CandidateName    string            `json:"candidate_name"`
	Answers          map[string]string `json:"answers"`
	TimeTakenSeconds int               `json:"time_taken_seconds"`
}

// Response types

type CreateEventResponse struct {
	EventID string `json:"event_id"`
}

type EventsResponse struct {
	Events []Event `json:"events"`
}

type RoundsResponse struct {
	Rounds []int `json:"rounds"`
}

type RoundDetailsResponse struct {
	Round         Round `json:"round"`
	QuestionCount int   `json:"question_count"`
}

type AddQuestionResponse struct {
	QuestionID string   `json:"question_id"`
	OptionIDs  []string `json:"option_ids"`
}

type StartHostingResponse struct {
	AccessCode string `json:"access_code"`
	Message    string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type JoinResponse struct {
	EntryID     string `json:"entry_id"`
	EventID     string `json:"event_id"`
	RoundNumber int    `json:"round_number"`
	IsNew       bool   `json:"is_new"`
}

type RoundStartedResponse struct {
	Started bool `json:"started"`
}

type HostingStatusResponse struct {
	IsHosting bool `json:"is_hosting"`
	IsStarted bool `json:"is_started"`
}

type HeartbeatResponse struct {
	LastActive time.Time `json:"last_active"`
}

type SubmitResponse struct {
	Score          int     `json:"score"`
	TotalQuestions int     `json:"total_questions"`
	Attended       int     `json:"attended"`
	Percentage     float64 `json:"percentage"`
}

// Domain types

type Event struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Date           string    `json:"date"`
	NumberOfRounds int       `json:"number_of_rounds"`
	CreatedAt      time.Time `json:"created_at"`
}

type Round struct {
	ID              string    `json:"id"`
	EventID         string    `json:"event_id"`
	RoundNumber     int       `json:"round_number"`
	DurationMinutes int       `json:"duration_minutes"`
	AccessCode      *string   `json:"access_code,omitempty"`
	IsHosting       bool      `json:"is_hosting"`
	IsStarted       bool      `json:"is_started"`
	CreatedAt       time.Time `json:"created_at"`
}

// Code returns the live access code, or "" when hosting is off
func (r Round) Code() string {
	if r.AccessCode == nil {
		return ""
	}
	return *r.AccessCode
}

type CandidateEntry struct {
	ID               string    `json:"id"`
	EventID          string    `json:"event_id"`
	RoundID          string    `json:"round_id"`
	CandidateName    string    `json:"candidate_name"`
	AccessCodeUsed   string    `json:"-"`
	IsWaiting        bool      `json:"is_waiting"`
	IsSubmitted      bool      `json:"is_submitted"`
	Score            int       `json:"score"`
	TotalQuestions   int       `json:"total_questions"`
	TimeTakenSeconds int       `json:"time_taken_seconds"`
	EntryTime        time.Time `json:"entry_time"`
	LastActive       time.Time `json:"last_active"`
	HasSwitchedTabs  bool      `json:"has_switched_tabs"`
	HasEnteredTest   bool      `json:"has_entered_test"`
}

type Question struct {
	ID           string           `json:"id"`
	RoundID      string           `json:"round_id"`
	QuestionText string           `json:"question_text"`
	Options      []QuestionOption `json:"options"`
	CreatedAt    time.Time        `json:"created_at"`
}

type QuestionOption struct {
	ID           string `json:"id"`
	QuestionID   string `json:"question_id"`
	OptionText   string `json:"option_text"`
	OptionNumber int    `json:"option_number"`
	IsCorrect    bool   `json:"-"` // Never expose in JSON
}

// AnswerKey is every question of a round with its options, loaded in one query
type AnswerKey struct {
	RoundID   string
	Questions []Question
}

// Submission is what scoring writes back to candidate entries
type Submission struct {
	Score            int
	TotalQuestions   int
	TimeTakenSeconds int
}

// SubmissionNotice is handed to the organizer notifier after a submit
type SubmissionNotice struct {
	EventName        string
	RoundNumber      int
	CandidateName    string
	Score            int
	TotalQuestions   int
	Attended         int
	Percentage       float64
	TimeTakenSeconds int
}

// StaleCandidate is a waiting entry that stopped sending heartbeats
type StaleCandidate struct {
	EntryID       string
	EventName     string
	RoundNumber   int
	CandidateName string
	LastActive    time.Time
}

// Snapshot types

type CandidateView struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Status          string `json:"status"`
	IsSubmitted     bool   `json:"is_submitted"`
	Score           int    `json:"score"`
	TotalQuestions  int    `json:"total_questions"`
	TimeTaken       string `json:"time_taken"`
	HasSwitchedTabs bool   `json:"has_switched_tabs"`
}

type Snapshot struct {
	IsHosting      bool            `json:"is_hosting"`
	IsStarted      bool            `json:"is_started"`
	Label          string          `json:"label"`
	SubmittedCount int             `json:"submitted_count"`
	TotalCount     int             `json:"total_count"`
	Candidates     []CandidateView `json:"candidates"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Code    string `json:"code,omitempty"`
}
