package sendpasswordresetotp

import (
	"context"

	"phonereset/internal/core/brokers/passwordreset"
	c "phonereset/internal/core/domain/common"
	e "phonereset/internal/core/domain/errors"
	"phonereset/internal/core/domain/logging"
	"phonereset/internal/core/services"
)

type Input struct {
	Phone c.Phone
}

type Result struct {
	Status passwordreset.Status
}

type service struct {
	log    logging.Logger
	broker *passwordreset.Broker
}

func New(
	log logging.Logger,
	broker *passwordreset.Broker,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if broker == nil {
		panic(e.NewNilArgumentError("broker"))
	}
	return &service{log: log, broker: broker}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	status, err := s.broker.SendResetLink(ctx, passwordreset.Credentials{Phone: input.Phone})
	if err != nil {
		return result, err
	}
	result.Status = status
	return result, nil
}
