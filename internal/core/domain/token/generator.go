package token

import "errors"

var ErrInvalidOTPLength = errors.New("otp length must be at least 1")

// Generator produces and verifies the secrets a repository persists. All
// randomness must come from a cryptographically secure source.
type Generator interface {
	// NewToken returns a high-entropy random token, independent of any user
	// input and not derived from predictable sources.
	NewToken() Token

	// OneTimePassword returns a uniformly random numeric code of exactly
	// length digits, zero-padded. Returns ErrInvalidOTPLength if length < 1.
	OneTimePassword(length int) (OneTimePassword, error)

	// Hash returns the keyed hash of a token for storage.
	Hash(t Token) string

	// Check compares a raw token against a stored hash in constant time.
	Check(t Token, hash string) bool
}
