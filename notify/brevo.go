package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const brevoAPIURL = "https://api.brevo.com/v3/smtp/email"

// Brevo sends transactional mail through the Brevo SMTP API.
type Brevo struct {
	apiKey     string
	fromEmail  string
	fromName   string
	httpClient *http.Client
}

// NewBrevo creates a Brevo notifier. An error is returned when any of the
// sender credentials is missing.
func NewBrevo(apiKey, fromEmail, fromName string) (*Brevo, error) {
	if apiKey == "" || fromEmail == "" || fromName == "" {
		return nil, errors.New("brevo requires api key, sender email, and sender name")
	}

	return &Brevo{
		apiKey:     apiKey,
		fromEmail:  fromEmail,
		fromName:   fromName,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type brevoSendRequest struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

// Send renders msg and posts it to the Brevo API.
func (b *Brevo) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return errors.New("message has no recipient")
	}

	subject := Subject(msg.Kind, msg.Language)
	if subject == "" {
		return fmt.Errorf("unknown message kind %q", msg.Kind)
	}

	body := brevoSendRequest{
		Sender:      map[string]string{"email": b.fromEmail, "name": b.fromName},
		To:          []map[string]string{{"email": msg.To}},
		Subject:     subject,
		HTMLContent: RenderHTML(msg),
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal brevo request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoAPIURL, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("build brevo request: %w", err)
	}
	req.Header.Set("api-key", b.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("brevo send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorBody map[string]any
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errorBody); decodeErr != nil {
			return fmt.Errorf("brevo api error: status %d", resp.StatusCode)
		}
		return fmt.Errorf("brevo api error: status %d, body: %v", resp.StatusCode, errorBody)
	}

	return nil
}
