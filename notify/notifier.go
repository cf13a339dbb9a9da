// Package notify delivers the transactional emails of the credential
// lifecycle: verification links, welcome mail, reset links, and password
// change confirmations.
package notify

import "context"

// Kind identifies a transactional message template.
type Kind string

const (
	KindVerifyEmail     Kind = "verify_email"
	KindWelcome         Kind = "welcome"
	KindResetPassword   Kind = "reset_password"
	KindPasswordChanged Kind = "password_changed"
)

// Message is a rendered-or-renderable notification for one recipient.
// Language selects the localized template; unknown languages fall back to
// English. Params carries template values such as "name" and "link".
type Message struct {
	Kind     Kind
	To       string
	Name     string
	Language string
	Params   map[string]string
}

// Notifier sends transactional messages. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Discard is a Notifier that drops every message. Useful in tests and in
// deployments that handle mail elsewhere.
type Discard struct{}

func (Discard) Send(context.Context, Message) error { return nil }
