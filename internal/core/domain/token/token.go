package token

import (
	"time"

	"phonereset/internal/core/domain/common"

	"github.com/golang-module/carbon/v2"
)

// Token is the high-entropy secret issued per reset cycle. Only its keyed
// hash is ever persisted; the raw value must never be logged, so the type
// stringifies as "***".
type Token string

func (t Token) String() string {
	return "***"
}

// OneTimePassword is the short numeric code paired with a token. It is
// stored in clear (single-use, short-lived) but must never be logged.
type OneTimePassword string

func (p OneTimePassword) String() string {
	return "***"
}

const DefaultOTPLength = 4

// Record is the persisted state of one reset cycle. At most one live record
// exists per phone number.
type Record struct {
	Phone     common.Phone
	TokenHash string
	OTP       OneTimePassword
	CreatedAt time.Time
}

// Expired reports whether the record is too old for verification. A record
// is valid while now - CreatedAt < expiresSeconds.
func (r Record) Expired(expiresSeconds int, now time.Time) bool {
	return carbon.Time2Carbon(r.CreatedAt).AddSeconds(expiresSeconds).Lte(carbon.Time2Carbon(now))
}

// RecentlyCreated reports whether the record falls inside the throttle
// window. throttleSeconds <= 0 disables throttling.
func (r Record) RecentlyCreated(throttleSeconds int, now time.Time) bool {
	if throttleSeconds <= 0 {
		return false
	}
	return carbon.Time2Carbon(r.CreatedAt).AddSeconds(throttleSeconds).Gt(carbon.Time2Carbon(now))
}
