package ftauth

import (
	"errors"
	"time"

	"github.com/mrra1yan/FootballTalento/password"
)

// Config drives every tunable in the engine. Instances are set up before
// Build and treated as immutable afterwards.
type Config struct {
	Registration      RegistrationConfig
	Login             LoginConfig
	Token             TokenConfig
	PasswordReset     PasswordResetConfig
	EmailVerification EmailVerificationConfig
	Password          password.Config
	Frontend          FrontendConfig
	Audit             AuditConfig
	Metrics           MetricsConfig
}

// RatePolicy is one fixed-window budget: Limit allowed calls per Window,
// keyed by client IP.
type RatePolicy struct {
	Limit  int
	Window time.Duration
}

// RegistrationConfig controls the signup flow.
type RegistrationConfig struct {
	RateLimit RatePolicy
	// UsernameSuffixLength is how many random characters are appended to
	// the email local-part when the derived username collides.
	UsernameSuffixLength int
}

// LoginConfig controls the login flow and issued-token lifetimes.
type LoginConfig struct {
	RateLimit   RatePolicy
	TokenTTL    time.Duration
	RememberTTL time.Duration
}

// TokenConfig controls the bearer-token store.
type TokenConfig struct {
	RedisPrefix string
}

// PasswordResetConfig controls the forgot/reset flow.
type PasswordResetConfig struct {
	ResetTTL time.Duration
	// EnumerationDelay is the upper bound of the randomized sleep applied
	// when the requested email has no account, so the unknown-email path
	// does not answer measurably faster than the known-email path.
	EnumerationDelay time.Duration
}

// EmailVerificationConfig controls the verify-email flow. TokenTTL of zero
// means verification links do not expire, which matches production behavior;
// whether they should is an open product question.
type EmailVerificationConfig struct {
	TokenTTL time.Duration
}

// FrontendConfig locates the pages that token-bearing email links point at.
type FrontendConfig struct {
	BaseURL    string
	VerifyPath string
	ResetPath  string
}

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull makes Emit non-blocking: events beyond the buffer are
	// counted and discarded instead of applying backpressure.
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the production defaults: signup limited to 3 per IP
// per hour, login to 5 per IP per 15 minutes, day-long tokens (30 days with
// remember), 15-minute reset tokens, and non-expiring verification links.
func DefaultConfig() Config {
	return Config{
		Registration: RegistrationConfig{
			RateLimit:            RatePolicy{Limit: 3, Window: time.Hour},
			UsernameSuffixLength: 4,
		},
		Login: LoginConfig{
			RateLimit:   RatePolicy{Limit: 5, Window: 15 * time.Minute},
			TokenTTL:    24 * time.Hour,
			RememberTTL: 30 * 24 * time.Hour,
		},
		Token: TokenConfig{
			RedisPrefix: "ft",
		},
		PasswordReset: PasswordResetConfig{
			ResetTTL:         15 * time.Minute,
			EnumerationDelay: 120 * time.Millisecond,
		},
		EmailVerification: EmailVerificationConfig{
			TokenTTL: 0,
		},
		Password: password.DefaultConfig(),
		Frontend: FrontendConfig{
			BaseURL:    "https://footballtalento.com",
			VerifyPath: "/auth/verify-email",
			ResetPath:  "/auth/reset-password",
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if c.Registration.RateLimit.Limit <= 0 || c.Registration.RateLimit.Window <= 0 {
		return errors.New("registration rate limit requires a positive limit and window")
	}
	if c.Login.RateLimit.Limit <= 0 || c.Login.RateLimit.Window <= 0 {
		return errors.New("login rate limit requires a positive limit and window")
	}
	if c.Login.TokenTTL <= 0 {
		return errors.New("login token TTL must be positive")
	}
	if c.Login.RememberTTL < c.Login.TokenTTL {
		return errors.New("remember token TTL must not be shorter than the base TTL")
	}
	if c.PasswordReset.ResetTTL <= 0 {
		return errors.New("password reset TTL must be positive")
	}
	if c.EmailVerification.TokenTTL < 0 {
		return errors.New("email verification TTL must not be negative")
	}
	if c.Registration.UsernameSuffixLength < 2 {
		return errors.New("username suffix length must be at least 2")
	}
	if c.Token.RedisPrefix == "" {
		return errors.New("token redis prefix must not be empty")
	}
	if err := c.Password.Validate(); err != nil {
		return err
	}
	return nil
}

func cloneConfig(c Config) Config {
	// Config holds no reference types today; a value copy is a deep copy.
	return c
}
