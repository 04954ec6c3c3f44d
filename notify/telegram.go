// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/danielhkuo/quizhost/models"
)

// DefaultAPIURL is the public Telegram Bot API
const DefaultAPIURL = "https://api.telegram.org"

// Telegram posts submission notices to one chat through the Bot API
type Telegram struct {
	apiURL string
	token  string
	chatID string
	client *http.Client
}

// NewTelegram creates a notifier for chatID. An empty apiURL uses
// DefaultAPIURL and a nil client uses http.DefaultClient.
func NewTelegram(apiURL, token, chatID string, client *http.Client) *Telegram {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Telegram{
		apiURL: strings.TrimRight(apiURL, "/"),
		token:  token,
		chatID: chatID,
		client: client,
	}
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Notify sends the notice as a plain text message
func (t *Telegram) Notify(ctx context.Context, notice models.SubmissionNotice) error {
	body, err := json.Marshal(sendMessageRequest{ChatID: t.chatID, Text: FormatNotice(notice)})
	if err != nil {
		return fmt.Errorf("encode telegram message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		// The URL carries the bot token; keep it out of logs
		return fmt.Errorf("telegram request failed: %w", redact(err, t.token))
	}
	defer resp.Body.Close()

	var result sendMessageResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&result); err != nil && resp.StatusCode == http.StatusOK {
		return fmt.Errorf("decode telegram response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !result.OK {
		if result.Description != "" {
			return fmt.Errorf("telegram returned %s: %s", resp.Status, result.Description)
		}
		return fmt.Errorf("telegram returned %s", resp.Status)
	}
	return nil
}

// FormatNotice renders a submission for the organizer chat
func FormatNotice(n models.SubmissionNotice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Quiz submitted\n")
	fmt.Fprintf(&b, "Event: %s\n", n.EventName)
	fmt.Fprintf(&b, "Round: %d\n", n.RoundNumber)
	fmt.Fprintf(&b, "Candidate: %s\n", n.CandidateName)
	fmt.Fprintf(&b, "Score: %d/%d (%.1f%%)\n", n.Score, n.TotalQuestions, n.Percentage)
	fmt.Fprintf(&b, "Attended: %d\n", n.Attended)
	fmt.Fprintf(&b, "Time taken: %dm %ds", n.TimeTakenSeconds/60, n.TimeTakenSeconds%60)
	return b.String()
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

// redact removes secret from err's message while keeping it unwrappable
func redact(err error, secret string) error {
	if secret == "" || !strings.Contains(err.Error(), secret) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), secret, "REDACTED"), err: err}
}
