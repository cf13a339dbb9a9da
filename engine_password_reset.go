package ftauth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mrra1yan/FootballTalento/internal"
	"github.com/mrra1yan/FootballTalento/internal/stores"
	"github.com/mrra1yan/FootballTalento/notify"
	"github.com/mrra1yan/FootballTalento/password"
)

// ForgotPassword starts the reset flow. Whether or not the email belongs to
// an account the call succeeds with the same outcome, so the endpoint
// cannot be used to probe for registered addresses; the unknown-email path
// additionally sleeps a random interval to blur the timing difference.
func (e *Engine) ForgotPassword(ctx context.Context, email string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	if email == "" {
		return ErrMissingEmail
	}

	email = normalizeEmail(email)
	if !validEmail(email) {
		return ErrInvalidEmail
	}

	account, err := e.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			e.enumerationDelay(ctx)
			e.metricInc(MetricResetRequest)
			e.emitAudit(ctx, auditEventResetRequested, true, "", nil, func() map[string]string {
				return map[string]string{"known_account": "false"}
			})
			return nil
		}
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	cleartext, err := internal.NewResetToken()
	if err != nil {
		return err
	}

	ttl := e.config.PasswordReset.ResetTTL
	record := &stores.ChallengeRecord{
		AccountID: account.ID,
		ExpiresAt: time.Now().Add(ttl).UnixNano(),
	}

	if err := e.resets.Save(ctx, internal.HashToken(cleartext), record, ttl); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	e.metricInc(MetricResetRequest)
	e.emitAudit(ctx, auditEventResetRequested, true, account.ID, nil, func() map[string]string {
		return map[string]string{"known_account": "true"}
	})

	e.notifyAsync(notify.Message{
		Kind:     notify.KindResetPassword,
		To:       account.Email,
		Name:     account.DisplayName,
		Language: account.Language,
		Params: map[string]string{
			"link": e.frontendLink(e.config.Frontend.ResetPath, cleartext),
		},
	})

	return nil
}

// ResetPassword redeems a reset token and installs the new password. Every
// live bearer token of the account is revoked, so a stolen session dies
// with the old password. The confirmation email goes out on success.
func (e *Engine) ResetPassword(ctx context.Context, cleartext, newPassword string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	if cleartext == "" || newPassword == "" {
		return ErrMissingFields
	}

	if err := password.CheckStrength(newPassword); err != nil {
		e.metricInc(MetricResetFailure)
		e.emitAudit(ctx, auditEventResetConfirmed, false, "", ErrWeakPassword, nil)
		return fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}

	record, err := e.resets.Consume(ctx, internal.HashToken(cleartext))
	if err != nil {
		mapped := mapChallengeError(err, ErrTokenExpired)
		e.metricInc(MetricResetFailure)
		e.emitAudit(ctx, auditEventResetConfirmed, false, "", mapped, nil)
		return mapped
	}

	account, err := e.store.GetByID(ctx, record.AccountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			e.metricInc(MetricResetFailure)
			e.emitAudit(ctx, auditEventResetConfirmed, false, record.AccountID, ErrTokenInvalid, nil)
			return ErrTokenInvalid
		}
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	if err := e.store.UpdatePasswordHash(ctx, account.ID, hash); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	revoked, err := e.tokens.InvalidateAll(ctx, account.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if revoked > 0 {
		e.metrics.Add(MetricTokensInvalidated, uint64(revoked))
		e.emitAudit(ctx, auditEventTokensInvalidated, true, account.ID, nil, func() map[string]string {
			return map[string]string{"revoked": strconv.Itoa(revoked)}
		})
	}

	e.metricInc(MetricResetSuccess)
	e.emitAudit(ctx, auditEventResetConfirmed, true, account.ID, nil, nil)

	e.notifyAsync(notify.Message{
		Kind:     notify.KindPasswordChanged,
		To:       account.Email,
		Name:     account.DisplayName,
		Language: account.Language,
	})

	return nil
}
