package otpnotification

import (
	"context"

	e "phonereset/internal/core/domain/errors"
	"phonereset/internal/core/domain/logging"
	"phonereset/internal/core/domain/token"
	"phonereset/internal/core/domain/user"
	"phonereset/internal/rabbitmq"
	"phonereset/internal/rabbitmq/schema"

	"github.com/rabbitmq/amqp091-go"
)

// RabbitMQ publishes OTP notifications for a queue-based SMS gateway. It
// implements user.ResetNotificationSender.
type RabbitMQ struct {
	log        logging.Logger
	channel    *rabbitmq.Channel
	exchange   string
	routingKey string
}

func NewRabbitMQ(log logging.Logger, channel *rabbitmq.Channel, exchange string, routingKey string) *RabbitMQ {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	return &RabbitMQ{log: log, channel: channel, exchange: exchange, routingKey: routingKey}
}

func (s *RabbitMQ) SendPhonePasswordResetNotification(
	ctx context.Context,
	u user.User,
	otp token.OneTimePassword,
	t token.Token,
) error {
	message := schema.OTPNotification{
		Phone: string(u.PhoneForPasswordReset()),
		OTP:   string(otp),
		Token: string(t),
	}
	body, err := message.Marshal()
	if err != nil {
		return err
	}

	err = s.channel.PublishWithContext(ctx, s.exchange, s.routingKey, false, false, amqp091.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		logging.Error(ctx, s.log, err)
		return err
	}
	s.log.Info(
		ctx,
		"AMQP message has been successfully published.",
		logging.Entry("exchange", s.exchange),
		logging.Entry("RK", s.routingKey),
		logging.Entry("userID", u.ID),
	)
	return nil
}
