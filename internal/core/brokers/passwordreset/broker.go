package passwordreset

import (
	"context"
	"errors"

	c "phonereset/internal/core/domain/common"
	e "phonereset/internal/core/domain/errors"
	"phonereset/internal/core/domain/logging"
	"phonereset/internal/core/domain/token"
	"phonereset/internal/core/domain/user"
)

// Status is the closed set of workflow outcomes. Callers branch on the
// status; storage and transport failures travel separately as errors.
type Status string

const (
	StatusResetLinkSent  Status = "RESET_LINK_SENT"
	StatusPasswordReset  Status = "PASSWORD_RESET"
	StatusInvalidUser    Status = "INVALID_USER"
	StatusInvalidToken   Status = "INVALID_TOKEN"
	StatusResetThrottled Status = "RESET_THROTTLED"
)

// Credentials carry everything a reset attempt needs. Token and OTP are
// zero-valued on the send-link leg.
type Credentials struct {
	Phone       c.Phone
	Token       token.Token
	OTP         token.OneTimePassword
	NewPassword user.RawPassword
}

// ResetFunc is the caller-supplied side effect that updates the credential
// store once a token has been verified.
type ResetFunc func(ctx context.Context, u user.User, newPassword user.RawPassword) error

// Broker orchestrates the reset workflow. It touches storage only through
// the injected token repository.
type Broker struct {
	log    logging.Logger
	users  user.UserRepository
	tokens token.Repository
	sender user.ResetNotificationSender
}

func NewBroker(
	log logging.Logger,
	users user.UserRepository,
	tokens token.Repository,
	sender user.ResetNotificationSender,
) *Broker {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if users == nil {
		panic(e.NewNilArgumentError("users"))
	}
	if tokens == nil {
		panic(e.NewNilArgumentError("tokens"))
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}
	return &Broker{log: log, users: users, tokens: tokens, sender: sender}
}

// SendResetLink issues a fresh token and OTP for the user behind the
// credentials and dispatches the notification. Throttled attempts leave the
// stored record untouched.
func (b *Broker) SendResetLink(ctx context.Context, credentials Credentials) (status Status, err error) {
	u, err := b.users.GetByPhone(ctx, credentials.Phone)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		b.log.Info(ctx, "User not found for password reset.", logging.Entry("phone", credentials.Phone))
		return StatusInvalidUser, nil
	}
	if err != nil {
		logging.Error(ctx, b.log, err, logging.Entry("phone", credentials.Phone))
		return status, err
	}

	recentlyCreated, err := b.tokens.RecentlyCreatedToken(ctx, u.PhoneForPasswordReset())
	if err != nil {
		logging.Error(ctx, b.log, err, logging.Entry("userID", u.ID))
		return status, err
	}
	if recentlyCreated {
		b.log.Info(ctx, "Password reset throttled.", logging.Entry("userID", u.ID))
		return StatusResetThrottled, nil
	}

	t, otp, err := b.tokens.Create(ctx, u.PhoneForPasswordReset())
	if err != nil {
		logging.Error(ctx, b.log, err, logging.Entry("userID", u.ID))
		return status, err
	}

	// Delivery is fire-and-forget: a failed send is the transport's concern
	// and never downgrades the status.
	if err := b.sender.SendPhonePasswordResetNotification(ctx, u, otp, t); err != nil {
		b.log.Warning(
			ctx,
			"Could not send password reset notification.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
	}

	b.log.Info(ctx, "Password reset token created.", logging.Entry("userID", u.ID))
	return StatusResetLinkSent, nil
}

// Reset verifies the token and OTP, runs the caller-supplied password update
// and consumes the token so it cannot be replayed.
func (b *Broker) Reset(ctx context.Context, credentials Credentials, fn ResetFunc) (status Status, err error) {
	if fn == nil {
		panic(e.NewNilArgumentError("fn"))
	}

	u, err := b.users.GetByPhone(ctx, credentials.Phone)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		b.log.Info(ctx, "User not found for password reset.", logging.Entry("phone", credentials.Phone))
		return StatusInvalidUser, nil
	}
	if err != nil {
		logging.Error(ctx, b.log, err, logging.Entry("phone", credentials.Phone))
		return status, err
	}

	exists, err := b.TokenExists(ctx, u, credentials.Token, credentials.OTP)
	if err != nil {
		logging.Error(ctx, b.log, err, logging.Entry("userID", u.ID))
		return status, err
	}
	if !exists {
		b.log.Info(ctx, "Invalid password reset token.", logging.Entry("userID", u.ID))
		return StatusInvalidToken, nil
	}

	if err := fn(ctx, u, credentials.NewPassword); err != nil {
		logging.Error(ctx, b.log, err, logging.Entry("userID", u.ID))
		return status, err
	}

	if err := b.tokens.Delete(ctx, u.PhoneForPasswordReset()); err != nil {
		logging.Error(ctx, b.log, err, logging.Entry("userID", u.ID))
		return status, err
	}

	b.log.Info(ctx, "Password has been reset.", logging.Entry("userID", u.ID))
	return StatusPasswordReset, nil
}

// TokenExists is a thin pass-through to the token repository.
func (b *Broker) TokenExists(ctx context.Context, u user.User, t token.Token, otp token.OneTimePassword) (bool, error) {
	return b.tokens.Exists(ctx, u.PhoneForPasswordReset(), t, otp)
}

// CreateToken issues a token for a resolved user without dispatching any
// notification, for hosts that deliver out-of-band.
func (b *Broker) CreateToken(ctx context.Context, u user.User) (token.Token, token.OneTimePassword, error) {
	return b.tokens.Create(ctx, u.PhoneForPasswordReset())
}

// DeleteToken removes the user's token record, if any.
func (b *Broker) DeleteToken(ctx context.Context, u user.User) error {
	return b.tokens.Delete(ctx, u.PhoneForPasswordReset())
}

// GetUser resolves the user behind the credentials. Returns
// user.ErrUserDoesNotExist when there is no match.
func (b *Broker) GetUser(ctx context.Context, credentials Credentials) (user.User, error) {
	return b.users.GetByPhone(ctx, credentials.Phone)
}

// Repository exposes the underlying token repository for introspection.
func (b *Broker) Repository() token.Repository {
	return b.tokens
}
