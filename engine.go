package ftauth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"time"

	"github.com/mrra1yan/FootballTalento/internal/rate"
	"github.com/mrra1yan/FootballTalento/internal/stores"
	"github.com/mrra1yan/FootballTalento/notify"
	"github.com/mrra1yan/FootballTalento/password"
	"github.com/mrra1yan/FootballTalento/token"
)

// Engine is the credential-lifecycle core: registration, email
// verification, login, logout, token validation, and password reset.
// Construct one through [New] and treat it as immutable afterwards.
type Engine struct {
	config        Config
	store         CredentialStore
	limiter       *rate.Limiter
	tokens        *token.Manager
	verifications *stores.ChallengeStore
	resets        *stores.ChallengeStore
	hasher        *password.Hasher
	notifier      notify.Notifier
	audit         *auditDispatcher
	metrics       *Metrics
}

// Close stops the audit dispatcher and flushes buffered events. The engine
// must not be used after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were discarded because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// ValidateToken resolves a bearer token to its account. Expired tokens are
// revoked on sight; callers cannot tell an expired token from an unknown or
// revoked one, all three return [ErrTokenInvalid].
func (e *Engine) ValidateToken(ctx context.Context, cleartext string) (PublicAccount, error) {
	if e == nil {
		return PublicAccount{}, ErrEngineNotReady
	}
	if cleartext == "" {
		return PublicAccount{}, ErrMissingToken
	}

	record, err := e.tokens.Validate(ctx, cleartext)
	if err != nil {
		mapped := mapTokenError(err)
		e.metricInc(MetricTokenRejected)
		e.emitAudit(ctx, auditEventTokenRejected, false, "", mapped, nil)
		return PublicAccount{}, mapped
	}

	account, err := e.store.GetByID(ctx, record.AccountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			// Account deleted since issuance; drop the orphaned token.
			_ = e.tokens.Invalidate(ctx, cleartext)
			e.metricInc(MetricTokenRejected)
			e.emitAudit(ctx, auditEventTokenRejected, false, record.AccountID, ErrTokenInvalid, nil)
			return PublicAccount{}, ErrTokenInvalid
		}
		return PublicAccount{}, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	e.metricInc(MetricTokenValidated)
	e.emitAudit(ctx, auditEventTokenValidated, true, account.ID, nil, nil)

	return account.Public(), nil
}

// Logout revokes the presented token. Logout always succeeds: a missing or
// already-revoked token is a no-op, not an error.
func (e *Engine) Logout(ctx context.Context, cleartext string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if cleartext == "" {
		return nil
	}

	if err := e.tokens.Invalidate(ctx, cleartext); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, "", nil, nil)

	return nil
}

func (e *Engine) allowAction(ctx context.Context, action string, policy RatePolicy) (bool, error) {
	ip := clientIPFromContext(ctx)
	if ip == "" {
		return true, nil
	}

	ok, err := e.limiter.Allow(ctx, action, ip, policy.Limit, policy.Window)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return ok, nil
}

// notifyAsync delivers a notification on a background goroutine so mail
// provider latency never blocks the request path.
func (e *Engine) notifyAsync(msg notify.Message) {
	if e.notifier == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := e.notifier.Send(ctx, msg); err != nil {
			e.metricInc(MetricNotificationFailed)
			e.emitAudit(ctx, auditEventNotificationFailed, false, "", nil, func() map[string]string {
				return map[string]string{
					"kind":  string(msg.Kind),
					"error": err.Error(),
				}
			})
			return
		}
		e.metricInc(MetricNotificationSent)
	}()
}

func (e *Engine) frontendLink(path, tokenValue string) string {
	return e.config.Frontend.BaseURL + path + "?token=" + url.QueryEscape(tokenValue)
}

// enumerationDelay sleeps a random fraction of the configured bound. The
// not-found paths of forgot-password call it so they do not answer
// measurably faster than the found paths.
func (e *Engine) enumerationDelay(ctx context.Context) {
	bound := e.config.PasswordReset.EnumerationDelay
	if bound <= 0 {
		return
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(bound)))
	if err != nil {
		return
	}

	select {
	case <-time.After(time.Duration(n.Int64())):
	case <-ctx.Done():
	}
}

// mapTokenError folds expiry into the invalid case: bearer-token callers
// get no signal whether a dead token once existed.
func mapTokenError(err error) error {
	switch {
	case errors.Is(err, token.ErrNotFound), errors.Is(err, token.ErrExpired):
		return ErrTokenInvalid
	default:
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
}

// mapChallengeError converts store errors to flow sentinels. expired is the
// sentinel for a past-deadline record: the reset flow reports expiry as its
// own outcome, the verification flow folds it into the invalid case.
func mapChallengeError(err, expired error) error {
	switch {
	case errors.Is(err, stores.ErrChallengeNotFound):
		return ErrTokenInvalid
	case errors.Is(err, stores.ErrChallengeExpired):
		return expired
	default:
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
}
