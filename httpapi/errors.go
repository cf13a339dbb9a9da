package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	ftauth "github.com/mrra1yan/FootballTalento"
)

type apiError struct {
	status  int
	code    string
	message string
}

var errorTable = []struct {
	sentinel error
	apiError apiError
}{
	{ftauth.ErrBotDetected, apiError{http.StatusForbidden, "honeypot_caught", "Bot detected"}},
	{ftauth.ErrRegistrationRateLimited, apiError{http.StatusTooManyRequests, "rate_limit", "Too many registration attempts. Please try again after an hour."}},
	{ftauth.ErrLoginRateLimited, apiError{http.StatusTooManyRequests, "rate_limit", "Too many login attempts. Please try again after 15 minutes."}},
	{ftauth.ErrMissingField, apiError{http.StatusBadRequest, "missing_field", "Missing required field"}},
	{ftauth.ErrInvalidEmail, apiError{http.StatusBadRequest, "invalid_email", "Invalid email address"}},
	{ftauth.ErrEmailExists, apiError{http.StatusConflict, "email_exists", "This email is already registered"}},
	{ftauth.ErrWeakPassword, apiError{http.StatusBadRequest, "weak_password", "Password does not meet the strength requirements"}},
	{ftauth.ErrMissingCredentials, apiError{http.StatusBadRequest, "missing_credentials", "Email/Username and password are required"}},
	{ftauth.ErrInvalidCredentials, apiError{http.StatusUnauthorized, "invalid_credentials", "Invalid email/username or password"}},
	{ftauth.ErrEmailNotVerified, apiError{http.StatusForbidden, "email_not_verified", "Please verify your email address before logging in."}},
	{ftauth.ErrMissingToken, apiError{http.StatusBadRequest, "missing_token", "Token is required"}},
	{ftauth.ErrMissingEmail, apiError{http.StatusBadRequest, "missing_email", "Email is required"}},
	{ftauth.ErrMissingFields, apiError{http.StatusBadRequest, "missing_fields", "Token and new password are required"}},
	{ftauth.ErrTokenExpired, apiError{http.StatusBadRequest, "expired_token", "Reset token has expired. Please request a new one."}},
	{ftauth.ErrTokenInvalid, apiError{http.StatusUnauthorized, "invalid_token", "Invalid or expired token"}},
}

// mapError resolves an engine error to its wire representation. Wrapped
// sentinels carry flow detail (which field is missing, which password rule
// failed); that detail replaces the generic message.
func mapError(err error) apiError {
	for _, entry := range errorTable {
		if errors.Is(err, entry.sentinel) {
			mapped := entry.apiError
			if detail := errorDetail(err, entry.sentinel); detail != "" {
				switch entry.apiError.code {
				case "missing_field":
					mapped.message = "Missing required field: " + detail
				case "weak_password":
					mapped.message = detail
				}
			}
			return mapped
		}
	}
	return apiError{http.StatusInternalServerError, "internal_error", "Internal server error"}
}

// errorDetail returns the wrapped suffix of "sentinel: detail" errors.
func errorDetail(err, sentinel error) string {
	full := err.Error()
	prefix := sentinel.Error() + ": "
	if strings.HasPrefix(full, prefix) {
		return strings.TrimPrefix(full, prefix)
	}
	return ""
}

type envelope struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, envelope{
		Success: false,
		Code:    code,
		Message: message,
	})
}

func writeEngineError(w http.ResponseWriter, err error) {
	mapped := mapError(err)
	writeError(w, mapped.status, mapped.code, mapped.message)
}

func writeSuccess(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}
