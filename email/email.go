// Package email sends transactional mail through the Resend API.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/resend/resend-go/v2"
)

type Email struct {
	From    string
	To      []string
	Subject string
	HTML    string
	ReplyTo string
}

type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

// ResendMailer sends through the Resend API.
type ResendMailer struct {
	client *resend.Client
}

// NewResendMailer builds a mailer for apiKey. A non-empty baseURL replaces
// the default API endpoint.
func NewResendMailer(apiKey, baseURL string) (*ResendMailer, error) {
	client := resend.NewClient(apiKey)
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid email API URL: %w", err)
		}
		if u.Path == "" || u.Path[len(u.Path)-1] != '/' {
			u.Path += "/"
		}
		client.BaseURL = u
	}
	return &ResendMailer{client: client}, nil
}

func (m *ResendMailer) Send(ctx context.Context, msg Email) error {
	_, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		ReplyTo: msg.ReplyTo,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// NopMailer is used when no email API is configured.
type NopMailer struct {
	logger *slog.Logger
}

func NewNopMailer(logger *slog.Logger) *NopMailer {
	return &NopMailer{logger: logger}
}

func (m *NopMailer) Send(ctx context.Context, msg Email) error {
	m.logger.Debug("email disabled, dropping message", "to", msg.To, "subject", msg.Subject)
	return nil
}
