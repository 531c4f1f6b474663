// Package telegram implements a notifier.Notifier for the Telegram Bot
// API, used by deployments that want feedback pushed to a chat instead
// of (or alongside) the live dashboard.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/flxlfx/websocket-tutorials/internal/domain"
	"github.com/flxlfx/websocket-tutorials/internal/port/notifier"
)

const (
	providerName   = "telegram"
	defaultBaseURL = "https://api.telegram.org"
)

// Register makes the telegram provider available to the notifier
// factory registry. Called once from main.
func Register() {
	notifier.Register(providerName, func(config map[string]string) (notifier.Notifier, error) {
		token := config["token"]
		chatID := config["chat_id"]
		if token == "" || chatID == "" {
			return nil, fmt.Errorf("telegram: %w: token and chat_id are required", domain.ErrNotConfigured)
		}
		return New(token, chatID), nil
	})
}

// Notifier sends messages to a Telegram chat via the Bot API.
type Notifier struct {
	token      string
	chatID     string
	baseURL    string
	httpClient *http.Client
}

// New creates a Telegram notifier for the given bot token and chat.
func New(token, chatID string) *Notifier {
	return &Notifier{
		token:      token,
		chatID:     chatID,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
}

func (n *Notifier) Name() string { return providerName }

// sendMessageRequest is the Bot API sendMessage payload.
type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// Send delivers a notification as one chat message.
func (n *Notifier) Send(ctx context.Context, notification notifier.Notification) error {
	text := notification.Message
	if notification.Title != "" {
		text = notification.Title + "\n" + text
	}

	body, err := json.Marshal(sendMessageRequest{ChatID: n.chatID, Text: text})
	if err != nil {
		return fmt.Errorf("telegram marshal: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
