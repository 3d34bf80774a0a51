// Package notification implements outbound mail notifications for workflow
// events: application decisions and payment receipts.
//
// Delivery is always best-effort. Triggers enqueue a delivery job when the
// queue is available and otherwise hand the send to a detached worker; in
// both paths a failure is logged and never surfaced to the caller, because
// the workflow write has already committed.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"jalsetu.io/jalsetu/internal/config"
	"jalsetu.io/jalsetu/internal/pkg/logger"
)

// Sender delivers one rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// MailClient sends mail through the provider's v3 REST API.
type MailClient struct {
	cfg        config.MailConfig
	httpClient *http.Client
}

// NewMailClient creates a provider-backed sender.
func NewMailClient(cfg config.MailConfig) *MailClient {
	return &MailClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type mailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type mailRequest struct {
	Personalizations []struct {
		To []mailAddress `json:"to"`
	} `json:"personalizations"`
	From    mailAddress `json:"from"`
	Subject string      `json:"subject"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

// Send posts a single message. Any non-2xx response is an error so the job
// queue can retry it.
func (c *MailClient) Send(ctx context.Context, to, subject, htmlBody string) error {
	payload := mailRequest{
		From:    mailAddress{Email: c.cfg.FromEmail, Name: c.cfg.FromName},
		Subject: subject,
	}
	payload.Personalizations = append(payload.Personalizations, struct {
		To []mailAddress `json:"to"`
	}{To: []mailAddress{{Email: to}}})
	payload.Content = append(payload.Content, struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}{Type: "text/html", Value: htmlBody})

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal mail request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail provider returned %d: %s", resp.StatusCode, detail)
	}
	return nil
}

// LogSender logs messages instead of delivering them. Used when no mail
// API key is configured, and in tests.
type LogSender struct{}

// Send logs the message and succeeds.
func (LogSender) Send(_ context.Context, to, subject, _ string) error {
	logger.L().Info("mail delivery disabled; notification logged only",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}

// NewSenderFromConfig picks the provider client when an API key is present
// and the log sender otherwise.
func NewSenderFromConfig(cfg config.MailConfig) Sender {
	if cfg.APIKey == "" {
		return LogSender{}
	}
	return NewMailClient(cfg)
}

var (
	_ Sender = (*MailClient)(nil)
	_ Sender = LogSender{}
)
