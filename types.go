package ftauth

import (
	"context"
	"io"
	"time"

	"github.com/mrra1yan/FootballTalento/internal/audit"
)

// AccountType classifies who is behind an account. The set is fixed; the
// frontend signup form offers exactly these choices.
type AccountType string

const (
	// AccountPlayer is a registering footballer.
	AccountPlayer AccountType = "player"
	// AccountClub is a club or academy.
	AccountClub AccountType = "club"
	// AccountScout is a talent scout.
	AccountScout AccountType = "scout"
	// AccountCoach is a coach.
	AccountCoach AccountType = "coach"
	// AccountParent is a parent managing a minor player's presence.
	AccountParent AccountType = "parent"
	// AccountAgent is a player agent.
	AccountAgent AccountType = "agent"
	// AccountSponsor is a sponsor.
	AccountSponsor AccountType = "sponsor"
	// AccountFan is a spectator account.
	AccountFan AccountType = "fan"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountPlayer, AccountClub, AccountScout, AccountCoach,
		AccountParent, AccountAgent, AccountSponsor, AccountFan:
		return true
	}
	return false
}

// Account is the full record held by a [CredentialStore]. Everything except
// PasswordHash and EmailVerified is fixed at creation; profile editing lives
// outside this engine.
type Account struct {
	ID            string
	Email         string
	Username      string
	PasswordHash  string
	DisplayName   string
	Type          AccountType
	Country       string
	Currency      string
	Language      string
	ParentConsent bool
	EmailVerified bool
	CreatedAt     time.Time
}

// PublicAccount is the subset of [Account] safe to return to callers.
type PublicAccount struct {
	ID          string      `json:"user_id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	DisplayName string      `json:"display_name"`
	Type        AccountType `json:"account_type"`
	Country     string      `json:"country"`
	Currency    string      `json:"currency"`
}

// Public projects the account's caller-visible fields.
func (a Account) Public() PublicAccount {
	return PublicAccount{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		Type:        a.Type,
		Country:     a.Country,
		Currency:    a.Currency,
	}
}

// CreateAccountInput is the input for [CredentialStore.Create].
type CreateAccountInput struct {
	Email         string
	Username      string
	PasswordHash  string
	DisplayName   string
	Type          AccountType
	Country       string
	Currency      string
	Language      string
	ParentConsent bool
}

// CredentialStore is the interface integrators implement to connect the
// engine to their account database. Email lookups are case-insensitive;
// implementations must return [ErrAccountNotFound] for missing records and
// [ErrDuplicateEmail] / [ErrDuplicateUsername] on unique-constraint hits.
type CredentialStore interface {
	GetByID(ctx context.Context, id string) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	GetByUsername(ctx context.Context, username string) (Account, error)
	Create(ctx context.Context, input CreateAccountInput) (Account, error)
	UpdatePasswordHash(ctx context.Context, id, newHash string) error
	SetEmailVerified(ctx context.Context, id string) error
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// RegisterInput carries the signup form fields. Honeypot is the hidden
// websiteURL field; humans leave it empty.
type RegisterInput struct {
	FullName      string
	Email         string
	Password      string
	AccountType   string
	Country       string
	Currency      string
	Language      string
	ParentConsent bool
	Honeypot      string
}

// RegisterResult is returned on successful registration. No token is issued:
// login stays blocked until the email is verified.
type RegisterResult struct {
	Account    PublicAccount
	Unverified bool
}

// LoginInput carries the login form fields. Identifier is an email address
// or a username; Remember stretches the token lifetime from one day to
// thirty.
type LoginInput struct {
	Identifier string
	Password   string
	Remember   bool
	Honeypot   string
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Account PublicAccount
	Token   string
}

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = audit.Event

// AuditSink receives [AuditEvent] values from the engine's audit dispatcher.
type AuditSink = audit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = audit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = audit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer], one object per line.
type JSONWriterSink = audit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}
