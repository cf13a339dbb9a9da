// Package ftauth implements the authentication and credential-lifecycle
// engine behind the FootballTalento platform: registration with email
// verification, token-based login, password reset, and per-IP rate limiting.
//
// The engine is transport-agnostic. Integrators supply a [CredentialStore]
// (the account database) and a [notify.Notifier] (transactional email) and
// expose the engine's operations however they like; the httpapi package in
// this module provides the REST surface the FootballTalento frontend uses.
//
// Bearer tokens are opaque, high-entropy strings stored server-side with a
// reverse index, so every token is individually revocable and a password
// reset can force re-authentication on all devices at once.
package ftauth
