package ftauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mrra1yan/FootballTalento/internal"
	"github.com/mrra1yan/FootballTalento/internal/stores"
	"github.com/mrra1yan/FootballTalento/notify"
)

// startVerification mints a verification token for the account and mails
// the activation link. A previous unconsumed token is discarded, so only
// the latest link works.
func (e *Engine) startVerification(ctx context.Context, account Account) error {
	cleartext, err := internal.NewVerificationToken()
	if err != nil {
		return err
	}

	record := &stores.ChallengeRecord{AccountID: account.ID}
	ttl := e.config.EmailVerification.TokenTTL
	if ttl > 0 {
		record.ExpiresAt = time.Now().Add(ttl).UnixNano()
	}

	if err := e.verifications.Save(ctx, internal.HashToken(cleartext), record, ttl); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	e.metricInc(MetricVerificationRequest)
	e.emitAudit(ctx, auditEventVerificationRequested, true, account.ID, nil, nil)

	e.notifyAsync(notify.Message{
		Kind:     notify.KindVerifyEmail,
		To:       account.Email,
		Name:     account.DisplayName,
		Language: account.Language,
		Params: map[string]string{
			"link": e.frontendLink(e.config.Frontend.VerifyPath, cleartext),
		},
	})

	return nil
}

// VerifyEmail consumes a verification token and marks the account verified.
// Tokens are single use; a second redemption of the same link fails with
// [ErrTokenInvalid]. On success the welcome email goes out.
func (e *Engine) VerifyEmail(ctx context.Context, cleartext string) (PublicAccount, error) {
	if e == nil {
		return PublicAccount{}, ErrEngineNotReady
	}
	if cleartext == "" {
		return PublicAccount{}, ErrMissingToken
	}

	record, err := e.verifications.Consume(ctx, internal.HashToken(cleartext))
	if err != nil {
		mapped := mapChallengeError(err, ErrTokenInvalid)
		e.metricInc(MetricVerificationFailure)
		e.emitAudit(ctx, auditEventVerificationConfirmed, false, "", mapped, nil)
		return PublicAccount{}, mapped
	}

	account, err := e.store.GetByID(ctx, record.AccountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			e.metricInc(MetricVerificationFailure)
			e.emitAudit(ctx, auditEventVerificationConfirmed, false, record.AccountID, ErrTokenInvalid, nil)
			return PublicAccount{}, ErrTokenInvalid
		}
		return PublicAccount{}, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	if !account.EmailVerified {
		if err := e.store.SetEmailVerified(ctx, account.ID); err != nil {
			return PublicAccount{}, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
		account.EmailVerified = true
	}

	e.metricInc(MetricVerificationSuccess)
	e.emitAudit(ctx, auditEventVerificationConfirmed, true, account.ID, nil, nil)

	e.notifyAsync(notify.Message{
		Kind:     notify.KindWelcome,
		To:       account.Email,
		Name:     account.DisplayName,
		Language: account.Language,
		Params: map[string]string{
			"email":        account.Email,
			"account_type": string(account.Type),
			"country":      account.Country,
			"currency":     account.Currency,
		},
	})

	return account.Public(), nil
}
