package ftauth

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventRegisterSuccess       = "register_success"
	auditEventRegisterRejected      = "register_rejected"
	auditEventRegisterRateLimited   = "register_rate_limited"
	auditEventLoginSuccess          = "login_success"
	auditEventLoginFailure          = "login_failure"
	auditEventLoginRateLimited      = "login_rate_limited"
	auditEventLogout                = "logout"
	auditEventTokenValidated        = "token_validated"
	auditEventTokenRejected         = "token_rejected"
	auditEventTokensInvalidated     = "tokens_invalidated"
	auditEventVerificationRequested = "email_verification_request"
	auditEventVerificationConfirmed = "email_verification_confirm"
	auditEventResetRequested        = "password_reset_request"
	auditEventResetConfirmed        = "password_reset_confirm"
	auditEventBotRejected           = "bot_rejected"
	auditEventRateLimitTriggered    = "rate_limit_triggered"
	auditEventNotificationFailed    = "notification_failed"
)

// AuditErrorCode is the stable machine-readable failure code stamped on
// audit events.
type AuditErrorCode string

const (
	auditErrBotDetected        AuditErrorCode = "bot_detected"
	auditErrRateLimited        AuditErrorCode = "rate_limited"
	auditErrMissingInput       AuditErrorCode = "missing_input"
	auditErrInvalidEmail       AuditErrorCode = "invalid_email"
	auditErrDuplicate          AuditErrorCode = "duplicate"
	auditErrPasswordPolicy     AuditErrorCode = "password_policy"
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrUnverified         AuditErrorCode = "email_unverified"
	auditErrInvalidToken       AuditErrorCode = "invalid_token"
	auditErrExpiredToken       AuditErrorCode = "expired_token"
	auditErrUnavailable        AuditErrorCode = "backend_unavailable"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	accountID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    accountID,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func (e *Engine) emitRateLimit(ctx context.Context, scope string) {
	e.metricInc(MetricRateLimitHit)
	e.emitAudit(ctx, auditEventRateLimitTriggered, false, "", nil, func() map[string]string {
		return map[string]string{"scope": scope}
	})
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrBotDetected):
		return auditErrBotDetected
	case errors.Is(err, ErrRegistrationRateLimited),
		errors.Is(err, ErrLoginRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrMissingField),
		errors.Is(err, ErrMissingCredentials),
		errors.Is(err, ErrMissingEmail),
		errors.Is(err, ErrMissingToken),
		errors.Is(err, ErrMissingFields):
		return auditErrMissingInput
	case errors.Is(err, ErrInvalidEmail):
		return auditErrInvalidEmail
	case errors.Is(err, ErrEmailExists),
		errors.Is(err, ErrDuplicateEmail),
		errors.Is(err, ErrDuplicateUsername):
		return auditErrDuplicate
	case errors.Is(err, ErrWeakPassword):
		return auditErrPasswordPolicy
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrEmailNotVerified):
		return auditErrUnverified
	case errors.Is(err, ErrTokenInvalid):
		return auditErrInvalidToken
	case errors.Is(err, ErrTokenExpired):
		return auditErrExpiredToken
	case errors.Is(err, ErrBackendUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
