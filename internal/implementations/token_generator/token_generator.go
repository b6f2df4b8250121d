package tokengenerator

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"

	"phonereset/internal/core/domain/token"
)

const tokenEntropyBytes = 40

// HMAC generates reset tokens and OTPs and hashes tokens with a
// deployment-wide secret key. All randomness comes from crypto/rand; this is
// a correctness requirement, not a performance one.
type HMAC struct {
	secretKey []byte
}

func NewHMAC(secretKey string) *HMAC {
	return &HMAC{secretKey: []byte(secretKey)}
}

func (g *HMAC) NewToken() token.Token {
	entropy := make([]byte, tokenEntropyBytes)
	if _, err := rand.Read(entropy); err != nil {
		panic(fmt.Sprintf("could not read random bytes for token: %v", err))
	}
	return token.Token(g.mac(entropy))
}

func (g *HMAC) OneTimePassword(length int) (otp token.OneTimePassword, err error) {
	if length < 1 {
		return otp, token.ErrInvalidOTPLength
	}

	// Uniform in [10^(length-1), 10^length - 1], so the code always has
	// exactly `length` digits once zero-padded.
	min := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length-1)), nil)
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, new(big.Int).Sub(max, min))
	if err != nil {
		return otp, err
	}
	n.Add(n, min)
	return token.OneTimePassword(fmt.Sprintf("%0*d", length, n)), nil
}

func (g *HMAC) Hash(t token.Token) string {
	return g.mac([]byte(t))
}

func (g *HMAC) Check(t token.Token, hash string) bool {
	return hmac.Equal([]byte(g.mac([]byte(t))), []byte(hash))
}

func (g *HMAC) mac(data []byte) string {
	hasher := hmac.New(sha256.New, g.secretKey)
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}
