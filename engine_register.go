package ftauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mrra1yan/FootballTalento/internal"
	"github.com/mrra1yan/FootballTalento/password"
)

const rateActionSignup = "signup"

// usernameAttempts bounds the collision-retry loop when deriving a
// username from the email local-part.
const usernameAttempts = 5

// Register creates an unverified account from the signup form and sends the
// verification email. Checks run in a fixed order: honeypot, rate limit,
// required fields, email format, duplicate email, password strength. No
// session token is issued; login stays blocked until the email is verified.
func (e *Engine) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	if input.Honeypot != "" {
		e.metricInc(MetricBotRejected)
		e.emitAudit(ctx, auditEventBotRejected, false, "", ErrBotDetected, func() map[string]string {
			return map[string]string{"flow": "register"}
		})
		return nil, ErrBotDetected
	}

	allowed, err := e.allowAction(ctx, rateActionSignup, e.config.Registration.RateLimit)
	if err != nil {
		return nil, err
	}
	if !allowed {
		e.metricInc(MetricRegisterRateLimited)
		e.emitRateLimit(ctx, rateActionSignup)
		e.emitAudit(ctx, auditEventRegisterRateLimited, false, "", ErrRegistrationRateLimited, nil)
		return nil, ErrRegistrationRateLimited
	}

	if err := validateRegisterInput(input); err != nil {
		e.metricInc(MetricRegisterRejected)
		e.emitAudit(ctx, auditEventRegisterRejected, false, "", err, nil)
		return nil, err
	}

	email := normalizeEmail(input.Email)

	exists, err := e.store.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if exists {
		e.metricInc(MetricRegisterRejected)
		e.emitAudit(ctx, auditEventRegisterRejected, false, "", ErrEmailExists, nil)
		return nil, ErrEmailExists
	}

	if err := password.CheckStrength(input.Password); err != nil {
		e.metricInc(MetricRegisterRejected)
		e.emitAudit(ctx, auditEventRegisterRejected, false, "", ErrWeakPassword, nil)
		return nil, fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}

	language := input.Language
	if language == "" {
		language = LanguageForCountry(input.Country)
	}

	username, err := e.deriveUsername(ctx, email)
	if err != nil {
		return nil, err
	}

	hash, err := e.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	account, err := e.store.Create(ctx, CreateAccountInput{
		Email:         email,
		Username:      username,
		PasswordHash:  hash,
		DisplayName:   strings.TrimSpace(input.FullName),
		Type:          AccountType(input.AccountType),
		Country:       input.Country,
		Currency:      input.Currency,
		Language:      language,
		ParentConsent: input.ParentConsent,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			e.metricInc(MetricRegisterRejected)
			e.emitAudit(ctx, auditEventRegisterRejected, false, "", ErrEmailExists, nil)
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	if err := e.startVerification(ctx, account); err != nil {
		// The account exists; the client can request a fresh link later.
		e.emitAudit(ctx, auditEventVerificationRequested, false, account.ID, err, nil)
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegisterSuccess, true, account.ID, nil, func() map[string]string {
		return map[string]string{
			"account_type": string(account.Type),
			"country":      account.Country,
		}
	})

	return &RegisterResult{
		Account:    account.Public(),
		Unverified: true,
	}, nil
}

func validateRegisterInput(input RegisterInput) error {
	required := []struct {
		name  string
		value string
	}{
		{"fullName", input.FullName},
		{"email", input.Email},
		{"password", input.Password},
		{"accountType", input.AccountType},
		{"country", input.Country},
		{"currency", input.Currency},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, field.name)
		}
	}

	if !validEmail(normalizeEmail(input.Email)) {
		return ErrInvalidEmail
	}

	if !AccountType(input.AccountType).Valid() {
		return fmt.Errorf("%w: accountType", ErrMissingField)
	}

	return nil
}

// deriveUsername takes the email local-part and, while taken, retries with
// a fresh random suffix.
func (e *Engine) deriveUsername(ctx context.Context, email string) (string, error) {
	base := sanitizeUsername(emailLocalPart(email))
	if base == "" {
		base = "user"
	}

	candidate := base
	for i := 0; i < usernameAttempts; i++ {
		taken, err := e.store.UsernameExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
		if !taken {
			return candidate, nil
		}

		suffix, err := internal.NewUsernameSuffix(e.config.Registration.UsernameSuffixLength)
		if err != nil {
			return "", err
		}
		candidate = base + "_" + suffix
	}

	return "", fmt.Errorf("%w: could not derive a unique username", ErrBackendUnavailable)
}

// sanitizeUsername keeps lowercase letters, digits, and the separators
// dot, dash, underscore.
func sanitizeUsername(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}
