package ftauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const rateActionLogin = "login"

// fakeVerifyHash is a throwaway argon2id hash compared against when the
// identifier resolves to no account, so the unknown-identifier path costs
// roughly the same as a real password check.
const fakeVerifyHash = "$argon2id$v=19$m=65536,t=2,p=2$" +
	"AAAAAAAAAAAAAAAAAAAAAA==$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA="

// Login authenticates by email or username and returns a bearer token.
// Checks run in a fixed order: honeypot, rate limit, required credentials.
// Unknown identifiers and wrong passwords fail identically with
// [ErrInvalidCredentials]; an unverified email is reported as such before
// the password is even checked.
func (e *Engine) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	if input.Honeypot != "" {
		e.metricInc(MetricBotRejected)
		e.emitAudit(ctx, auditEventBotRejected, false, "", ErrBotDetected, func() map[string]string {
			return map[string]string{"flow": "login"}
		})
		return nil, ErrBotDetected
	}

	allowed, err := e.allowAction(ctx, rateActionLogin, e.config.Login.RateLimit)
	if err != nil {
		return nil, err
	}
	if !allowed {
		e.metricInc(MetricLoginRateLimited)
		e.emitRateLimit(ctx, rateActionLogin)
		e.emitAudit(ctx, auditEventLoginRateLimited, false, "", ErrLoginRateLimited, nil)
		return nil, ErrLoginRateLimited
	}

	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" || input.Password == "" {
		return nil, ErrMissingCredentials
	}

	account, err := e.resolveIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			// Burn a hash comparison so this path is not measurably
			// faster than a wrong password.
			_, _ = e.hasher.Verify(input.Password, fakeVerifyHash)
			e.metricInc(MetricLoginFailure)
			e.emitAudit(ctx, auditEventLoginFailure, false, "", ErrInvalidCredentials, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	if !account.EmailVerified {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, account.ID, ErrEmailNotVerified, nil)
		return nil, ErrEmailNotVerified
	}

	match, err := e.hasher.Verify(input.Password, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if !match {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, account.ID, ErrInvalidCredentials, nil)
		return nil, ErrInvalidCredentials
	}

	ttl := e.config.Login.TokenTTL
	if input.Remember {
		ttl = e.config.Login.RememberTTL
	}

	bearer, err := e.tokens.Issue(ctx, account.ID, ttl, input.Remember)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	e.metricInc(MetricLoginSuccess)
	e.metricInc(MetricTokenIssued)
	e.emitAudit(ctx, auditEventLoginSuccess, true, account.ID, nil, func() map[string]string {
		return map[string]string{"remember": fmt.Sprintf("%t", input.Remember)}
	})

	return &LoginResult{
		Account: account.Public(),
		Token:   bearer,
	}, nil
}

// resolveIdentifier treats a syntactically valid email as an email lookup
// and anything else as a username.
func (e *Engine) resolveIdentifier(ctx context.Context, identifier string) (Account, error) {
	if validEmail(normalizeEmail(identifier)) {
		return e.store.GetByEmail(ctx, normalizeEmail(identifier))
	}
	return e.store.GetByUsername(ctx, identifier)
}
