// Package webhook defines domain types for inbound webhook events.
package webhook

import (
	"encoding/json"
	"fmt"

	"github.com/flxlfx/websocket-tutorials/internal/domain"
)

// ActionCreated is the only Sentry feedback action that produces
// notifications; every other action is acknowledged and dropped.
const ActionCreated = "created"

// FeedbackEvent is a validated Sentry user-feedback webhook event.
type FeedbackEvent struct {
	Action      string
	Name        string
	Email       string
	Comments    string
	IssueTitle  string
	IssueURL    string
	ProjectSlug string
}

// ParseFeedback decodes and validates a Sentry user-feedback payload.
// Validation failures wrap domain.ErrMalformedPayload.
func ParseFeedback(body []byte) (*FeedbackEvent, error) {
	var p struct {
		Action string `json:"action"`
		Data   struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Comments string `json:"comments"`
			Issue    *struct {
				Title string `json:"title"`
				URL   string `json:"url"`
			} `json:"issue"`
		} `json:"data"`
		Project *struct {
			Slug string `json:"slug"`
		} `json:"project"`
	}

	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	if p.Action == "" {
		return nil, fmt.Errorf("%w: missing action", domain.ErrMalformedPayload)
	}

	ev := &FeedbackEvent{
		Action:   p.Action,
		Name:     p.Data.Name,
		Email:    p.Data.Email,
		Comments: p.Data.Comments,
	}
	if p.Data.Issue != nil {
		ev.IssueTitle = p.Data.Issue.Title
		ev.IssueURL = p.Data.Issue.URL
	}
	if p.Project != nil {
		ev.ProjectSlug = p.Project.Slug
	}

	if ev.Created() && ev.Comments == "" {
		return nil, fmt.Errorf("%w: missing data.comments", domain.ErrMalformedPayload)
	}

	return ev, nil
}

// Created reports whether the event is a new feedback submission.
func (e *FeedbackEvent) Created() bool {
	return e.Action == ActionCreated
}

// Author returns the best available identification of who left the
// feedback.
func (e *FeedbackEvent) Author() string {
	switch {
	case e.Name != "":
		return e.Name
	case e.Email != "":
		return e.Email
	default:
		return "anônimo"
	}
}

// BroadcastText renders the event as the system message pushed to every
// connected dashboard client.
func (e *FeedbackEvent) BroadcastText() string {
	text := fmt.Sprintf("🔔 Novo feedback de %s: %s", e.Author(), e.Comments)
	if e.IssueTitle != "" {
		text += fmt.Sprintf(" (issue: %s)", e.IssueTitle)
	}
	return text
}
