// Package token issues and validates the opaque bearer tokens that
// represent an authenticated account.
//
// A token is 32 bytes from crypto/rand in base64url. Redis stores a record
// under the token's sha256 digest, so validation is a single keyed lookup
// and the cleartext never touches the backend. A per-account set of digests
// makes revoking every session one call.
package token
