// Package twilio sends alert messages as SMS via the Twilio Messages API.
package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.twilio.com"

// Option configures a Notifier.
type Option func(*Notifier)

// WithBaseURL overrides the Twilio API base URL. Used by tests.
func WithBaseURL(u string) Option {
	return func(n *Notifier) { n.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(n *Notifier) { n.client = c }
}

// Notifier sends SMS from one number to one number.
type Notifier struct {
	client     *http.Client
	baseURL    string
	accountSID string
	authToken  string
	from       string
	to         string
}

// New creates a Twilio SMS notifier.
func New(accountSID, authToken, from, to string, opts ...Option) *Notifier {
	n := &Notifier{
		client:     &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		to:         to,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Name returns the channel identifier.
func (n *Notifier) Name() string {
	return "sms"
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Send creates one outbound message via a form-encoded POST.
func (n *Notifier) Send(ctx context.Context, message string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", n.baseURL, n.accountSID)

	form := url.Values{}
	form.Set("To", n.to)
	form.Set("From", n.from)
	form.Set("Body", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("twilio: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(n.accountSID, n.authToken)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("twilio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	var apiErr apiError
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("twilio: HTTP %d: %s (code %d)", resp.StatusCode, apiErr.Message, apiErr.Code)
	}
	return fmt.Errorf("twilio: HTTP %d", resp.StatusCode)
}
