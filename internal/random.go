package internal

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"math/big"
	"strings"
)

const (
	authSecretSize         = 32
	verificationSecretSize = 32
	resetSecretSize        = 16
)

// NewAuthToken returns an opaque bearer token: 32 bytes from crypto/rand,
// base64url without padding. Callers store only its digest.
func NewAuthToken() (string, error) {
	var secret [authSecretSize]byte
	if _, err := rand.Read(secret[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(secret[:]), nil
}

// NewVerificationToken returns a 64 character hex token for email
// verification links.
func NewVerificationToken() (string, error) {
	var secret [verificationSecretSize]byte
	if _, err := rand.Read(secret[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(secret[:]), nil
}

// NewResetToken returns a 32 character hex token for password reset links.
func NewResetToken() (string, error) {
	var secret [resetSecretSize]byte
	if _, err := rand.Read(secret[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(secret[:]), nil
}

// HashToken derives the storage key digest for a presented token. Tokens are
// never persisted in cleartext; lookups go through this digest.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewUsernameSuffix returns n random lowercase alphanumeric characters, used
// to disambiguate a derived username that is already taken.
func NewUsernameSuffix(n int) (string, error) {
	var b strings.Builder
	b.Grow(n)

	max := big.NewInt(int64(len(suffixAlphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(suffixAlphabet[idx.Int64()])
	}
	return b.String(), nil
}
