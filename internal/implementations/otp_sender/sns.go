package otpsender

import (
	"context"
	"fmt"

	"phonereset/internal/core/domain/token"
	"phonereset/internal/core/domain/user"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSSender delivers the OTP over SMS through AWS SNS. The message template
// must contain exactly one %s verb for the code.
type SNSSender struct {
	sns             *sns.Client
	senderID        string
	messageTemplate string
}

func NewSNSSender(awsConfig aws.Config, senderID string, messageTemplate string) *SNSSender {
	return &SNSSender{
		sns:             sns.NewFromConfig(awsConfig),
		senderID:        senderID,
		messageTemplate: messageTemplate,
	}
}

func (s *SNSSender) SendPhonePasswordResetNotification(
	ctx context.Context,
	u user.User,
	otp token.OneTimePassword,
	t token.Token,
) error {
	message := fmt.Sprintf(s.messageTemplate, string(otp))
	phone := string(u.PhoneForPasswordReset())

	_, err := s.sns.Publish(
		ctx,
		&sns.PublishInput{
			PhoneNumber: &phone,
			Message:     &message,
			MessageAttributes: map[string]types.MessageAttributeValue{
				"AWS.SNS.SMS.SenderID": {
					DataType:    aws.String("String"),
					StringValue: aws.String(s.senderID),
				},
				"AWS.SNS.SMS.SMSType": {
					DataType:    aws.String("String"),
					StringValue: aws.String("Transactional"),
				},
			},
		},
	)
	return err
}
