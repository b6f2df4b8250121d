package services

import (
	"phonereset/internal/app/deps"
	"phonereset/internal/core/services"
	deleteexpiredtokens "phonereset/internal/core/services/delete_expired_tokens"
	resetpassword "phonereset/internal/core/services/reset_password"
	sendpasswordresetotp "phonereset/internal/core/services/send_password_reset_otp"
)

type Services struct {
	SendPasswordResetOtp services.Service[sendpasswordresetotp.Input, sendpasswordresetotp.Result]
	ResetPassword        services.Service[resetpassword.Input, resetpassword.Result]
	DeleteExpiredTokens  services.Service[deleteexpiredtokens.Input, deleteexpiredtokens.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.SendPasswordResetOtp = sendpasswordresetotp.New(
		deps.Logger,
		deps.Broker,
	)
	s.ResetPassword = resetpassword.New(
		deps.Logger,
		deps.Broker,
		deps.UserRepository,
		deps.PasswordHasher,
	)
	s.DeleteExpiredTokens = deleteexpiredtokens.New(
		deps.Logger,
		deps.TokenRepository,
	)

	return s
}
