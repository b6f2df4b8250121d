package token

import (
	"context"

	"phonereset/internal/core/domain/common"
)

// Repository manages reset token records keyed by phone number. Expiry and
// throttle policy decisions belong to the repository, not its callers.
type Repository interface {
	// Create deletes any existing record for the phone number, generates a
	// fresh token and OTP and inserts the new record. The returned values are
	// the only place the raw secrets are observable outside storage.
	Create(ctx context.Context, phone common.Phone) (Token, OneTimePassword, error)

	// Exists reports whether a valid, unexpired record matches the given
	// token and OTP. It fails closed on any mismatch.
	Exists(ctx context.Context, phone common.Phone, t Token, otp OneTimePassword) (bool, error)

	// RecentlyCreatedToken reports whether a record was created within the
	// throttle window. Pure read, no side effects.
	RecentlyCreatedToken(ctx context.Context, phone common.Phone) (bool, error)

	// Delete removes any record for the phone number. Idempotent.
	Delete(ctx context.Context, phone common.Phone) error

	// DeleteExpired removes all records older than the expiry window. Safe to
	// run concurrently and repeatedly.
	DeleteExpired(ctx context.Context) error
}
