package ftauth

import "errors"

var (
	// ErrEngineNotReady is returned when the engine is used before Build
	// wired all of its dependencies.
	ErrEngineNotReady = errors.New("engine not ready")
	// ErrBotDetected is returned when the honeypot field is non-empty.
	ErrBotDetected = errors.New("bot detected")
	// ErrRegistrationRateLimited is returned when the signup window for the
	// caller's IP is exhausted.
	ErrRegistrationRateLimited = errors.New("too many registration attempts")
	// ErrLoginRateLimited is returned when the login window for the
	// caller's IP is exhausted.
	ErrLoginRateLimited = errors.New("too many login attempts")
	// ErrMissingField is returned when a required registration field is
	// empty. The wrapping error names the field.
	ErrMissingField = errors.New("missing required field")
	// ErrMissingCredentials is returned when login is attempted without an
	// identifier or without a password.
	ErrMissingCredentials = errors.New("email/username and password are required")
	// ErrMissingEmail is returned when forgot-password is called without an
	// email address.
	ErrMissingEmail = errors.New("email is required")
	// ErrMissingToken is returned when a token-consuming operation is
	// called with an empty token.
	ErrMissingToken = errors.New("token is required")
	// ErrMissingFields is returned when reset-password is called without a
	// token or without a new password.
	ErrMissingFields = errors.New("token and new password are required")
	// ErrInvalidEmail is returned for syntactically invalid email input.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrEmailExists is returned when registering an already-registered email.
	ErrEmailExists = errors.New("this email is already registered")
	// ErrWeakPassword is returned when a password fails the strength
	// policy. The wrapping error carries the first unmet rule.
	ErrWeakPassword = errors.New("weak password")
	// ErrInvalidCredentials covers both unknown identifiers and wrong
	// passwords; callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid email/username or password")
	// ErrEmailNotVerified is returned when logging in before the
	// verification link has been used.
	ErrEmailNotVerified = errors.New("email address not verified")
	// ErrTokenInvalid is returned for unknown, expired, or already-consumed
	// tokens of any kind.
	ErrTokenInvalid = errors.New("invalid or expired token")
	// ErrTokenExpired is returned when a password-reset token exists but
	// its 15-minute window has passed. Distinct from ErrTokenInvalid so
	// the client can prompt for a fresh link.
	ErrTokenExpired = errors.New("reset token has expired")
	// ErrAccountNotFound is returned by CredentialStore implementations
	// when no account matches the lookup.
	ErrAccountNotFound = errors.New("account not found")
	// ErrDuplicateEmail is returned by CredentialStore implementations when
	// an insert collides on the email unique constraint.
	ErrDuplicateEmail = errors.New("duplicate email")
	// ErrDuplicateUsername is returned by CredentialStore implementations
	// when an insert collides on the username unique constraint.
	ErrDuplicateUsername = errors.New("duplicate username")
	// ErrBackendUnavailable is returned when the credential store or the
	// token backend cannot be reached. Details are kept out of the error.
	ErrBackendUnavailable = errors.New("backend unavailable")
)
