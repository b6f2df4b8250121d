package resetpassword

import (
	"context"

	"phonereset/internal/core/brokers/passwordreset"
	c "phonereset/internal/core/domain/common"
	e "phonereset/internal/core/domain/errors"
	"phonereset/internal/core/domain/logging"
	"phonereset/internal/core/domain/token"
	"phonereset/internal/core/domain/user"
	"phonereset/internal/core/services"
)

type Input struct {
	Phone       c.Phone
	Token       token.Token
	OTP         token.OneTimePassword
	NewPassword user.RawPassword
}

type Result struct {
	Status passwordreset.Status
}

type service struct {
	log            logging.Logger
	broker         *passwordreset.Broker
	userRepository user.UserRepository
	passwordHasher user.PasswordHasher
}

func New(
	log logging.Logger,
	broker *passwordreset.Broker,
	userRepository user.UserRepository,
	passwordHasher user.PasswordHasher,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if broker == nil {
		panic(e.NewNilArgumentError("broker"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	return &service{
		log:            log,
		broker:         broker,
		userRepository: userRepository,
		passwordHasher: passwordHasher,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	credentials := passwordreset.Credentials{
		Phone:       input.Phone,
		Token:       input.Token,
		OTP:         input.OTP,
		NewPassword: input.NewPassword,
	}
	status, err := s.broker.Reset(ctx, credentials, s.setPassword)
	if err != nil {
		return result, err
	}
	result.Status = status
	return result, nil
}

func (s *service) setPassword(ctx context.Context, u user.User, newPassword user.RawPassword) error {
	newPasswordHash, err := s.passwordHasher.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.userRepository.SetPassword(ctx, u.ID, newPasswordHash)
}
