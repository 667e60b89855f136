// Package slack posts alert messages to a Slack channel via chat.postMessage.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIURL = "https://slack.com/api/chat.postMessage"

// Option configures a Notifier.
type Option func(*Notifier)

// WithAPIURL overrides the Slack API endpoint. Used by tests.
func WithAPIURL(u string) Option {
	return func(n *Notifier) { n.apiURL = u }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(n *Notifier) { n.client = c }
}

// Notifier sends messages to one Slack channel with a bot token.
type Notifier struct {
	client    *http.Client
	apiURL    string
	token     string
	channelID string
}

// New creates a Slack notifier for the given channel.
func New(token, channelID string, opts ...Option) *Notifier {
	n := &Notifier{
		client:    &http.Client{Timeout: 30 * time.Second},
		apiURL:    defaultAPIURL,
		token:     token,
		channelID: channelID,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Name returns the channel identifier.
func (n *Notifier) Name() string {
	return "slack"
}

type postMessageRequest struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

type postMessageResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Send posts the message. Slack reports API-level failures with HTTP 200 and
// ok=false, so both the status code and the body are checked.
func (n *Notifier) Send(ctx context.Context, message string) error {
	body, err := json.Marshal(postMessageRequest{Channel: n.channelID, Text: message})
	if err != nil {
		return fmt.Errorf("slack: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+n.token)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("slack: HTTP %d", resp.StatusCode)
	}

	var parsed postMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("slack: decode response: %w", err)
	}
	if !parsed.OK {
		return fmt.Errorf("slack: API error: %s", parsed.Error)
	}
	return nil
}
