// Package shortcut implements the tracker port against a Shortcut
// story-intake endpoint: every created feedback event is forwarded as a
// story payload.
package shortcut

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/flxlfx/websocket-tutorials/internal/domain"
	"github.com/flxlfx/websocket-tutorials/internal/domain/webhook"
)

// Client forwards feedback events to a Shortcut endpoint.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
}

// NewClient creates a Shortcut client. token is optional; when set it is
// sent as the Shortcut-Token header.
func NewClient(url, token string) *Client {
	return &Client{
		url:        url,
		token:      token,
		httpClient: http.DefaultClient,
	}
}

// storyPayload matches the intake shape consumed downstream.
type storyPayload struct {
	User      string `json:"user"`
	Email     string `json:"email"`
	Comments  string `json:"comments"`
	Issue     string `json:"issue,omitempty"`
	Project   string `json:"project,omitempty"`
	SentryURL string `json:"sentryUrl,omitempty"`
}

// CreateStory posts the feedback event as a story.
func (c *Client) CreateStory(ctx context.Context, ev *webhook.FeedbackEvent) error {
	if c.url == "" {
		return fmt.Errorf("shortcut: %w: url is required", domain.ErrNotConfigured)
	}

	body, err := json.Marshal(storyPayload{
		User:      ev.Name,
		Email:     ev.Email,
		Comments:  ev.Comments,
		Issue:     ev.IssueTitle,
		Project:   ev.ProjectSlug,
		SentryURL: ev.IssueURL,
	})
	if err != nil {
		return fmt.Errorf("shortcut marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("shortcut request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Shortcut-Token", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("shortcut send: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("shortcut API %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
