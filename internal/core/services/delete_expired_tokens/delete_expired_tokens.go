package deleteexpiredtokens

import (
	"context"

	e "phonereset/internal/core/domain/errors"
	"phonereset/internal/core/domain/logging"
	"phonereset/internal/core/domain/token"
	"phonereset/internal/core/services"
)

type Input struct{}

type Result struct{}

type service struct {
	log    logging.Logger
	tokens token.Repository
}

// New creates the maintenance sweep. It is caller-triggered; no scheduler
// runs it automatically.
func New(
	log logging.Logger,
	tokens token.Repository,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if tokens == nil {
		panic(e.NewNilArgumentError("tokens"))
	}
	return &service{log: log, tokens: tokens}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if err := s.tokens.DeleteExpired(ctx); err != nil {
		logging.Error(ctx, s.log, err)
		return result, err
	}
	s.log.Info(ctx, "Expired password reset tokens have been deleted.")
	return result, nil
}
