package user

import (
	"context"

	"phonereset/internal/core/domain/token"
)

// ResetNotificationSender delivers the OTP (and token, if the transport
// needs it) to the user's phone. Delivery is fire-and-forget from the
// broker's perspective; a failed send is the transport's concern.
type ResetNotificationSender interface {
	SendPhonePasswordResetNotification(ctx context.Context, u User, otp token.OneTimePassword, t token.Token) error
}
