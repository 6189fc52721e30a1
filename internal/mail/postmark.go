package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"

	"github.com/yshchur/contacts-api/internal/logging"
)

var ErrInvalidConfig = errors.New("mail: invalid configuration")

type Config struct {
	ServerToken  string
	AccountToken string
	From         string
	BaseURL      string
}

// PostmarkMailer sends confirmation mail through Postmark's transactional API.
type PostmarkMailer struct {
	client *postmark.Client
	from   string
	base   string
}

func NewPostmarkMailer(cfg Config) (*PostmarkMailer, error) {
	if cfg.ServerToken == "" || cfg.AccountToken == "" {
		return nil, fmt.Errorf("%w: postmark tokens are required", ErrInvalidConfig)
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("%w: sender address is required", ErrInvalidConfig)
	}
	return &PostmarkMailer{
		client: postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		from:   cfg.From,
		base:   cfg.BaseURL,
	}, nil
}

func (m *PostmarkMailer) SendConfirmation(ctx context.Context, to, token string) error {
	link := fmt.Sprintf("%s/api/auth/confirmed_email/%s", m.base, token)
	body := fmt.Sprintf(
		`<p>Welcome to Contacts App!</p><p>Please <a href="%s">confirm your email</a>. The link is valid for 24 hours.</p>`,
		link,
	)

	resp, err := m.client.SendEmail(ctx, postmark.Email{
		From:     m.from,
		To:       to,
		Subject:  "Confirm your email",
		HTMLBody: body,
		Tag:      "email-confirmation",
	})
	if err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("mail: postmark error %d: %s", resp.ErrorCode, resp.Message)
	}
	return nil
}

// LogMailer is a development fallback used when Postmark is not configured.
// It logs the confirmation link instead of delivering it.
type LogMailer struct {
	logger logging.Logger
	base   string
}

func NewLogMailer(logger logging.Logger, baseURL string) *LogMailer {
	return &LogMailer{logger: logger, base: baseURL}
}

func (m *LogMailer) SendConfirmation(ctx context.Context, to, token string) error {
	m.logger.Info(ctx, "confirmation mail (dev mode, not delivered)",
		"to", to,
		"link", fmt.Sprintf("%s/api/auth/confirmed_email/%s", m.base, token),
	)
	return nil
}
