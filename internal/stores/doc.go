// Package stores holds the Redis-backed store for single-use challenge
// tokens: email verification links and password reset links.
//
// Tokens are keyed by their sha256 digest, never by cleartext. Each account
// holds at most one live challenge per namespace; saving a new one discards
// the previous. Consuming is destructive, a token can be redeemed once.
package stores
