// Package mail sends transactional email. AuthService treats it as
// fire-and-forget: delivery failures are logged, never surfaced as auth
// failures.
package mail

import "context"

type Mailer interface {
	// SendConfirmation mails the email-verification link carrying token.
	SendConfirmation(ctx context.Context, to, token string) error
}
