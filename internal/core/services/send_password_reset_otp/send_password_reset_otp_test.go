package sendpasswordresetotp

import (
	"context"
	"testing"
	"time"

	"phonereset/internal/core/brokers/passwordreset"
	c "phonereset/internal/core/domain/common"
	"phonereset/internal/core/domain/logging"
	"phonereset/internal/core/domain/token"
	"phonereset/internal/core/domain/user"
	"phonereset/internal/core/services"

	"github.com/stretchr/testify/suite"
)

const (
	PHONE = c.Phone("+15550001")
	TOKEN = token.Token("test-token")
	OTP   = token.OneTimePassword("4821")
)

var NOW time.Time = time.Date(2023, 6, 6, 15, 30, 30, 0, time.UTC)

type testSuite struct {
	suite.Suite
	Logger  *logging.FakeLogger
	Users   *user.FakeUserRepository
	Tokens  *token.FakeRepository
	Sender  *user.FakeResetNotificationSender
	Service services.Service[Input, Result]
}

func (suite *testSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.Users = user.NewFakeUserRepository()
	suite.Tokens = token.NewFakeRepository(TOKEN, OTP, 3600, 60, func() time.Time { return NOW })
	suite.Sender = user.NewFakeResetNotificationSender()
	suite.Service = New(
		suite.Logger,
		passwordreset.NewBroker(suite.Logger, suite.Users, suite.Tokens, suite.Sender),
	)

	_, err := suite.Users.Create(
		context.Background(),
		user.CreateUserInput{Phone: PHONE, CreatedAt: NOW},
	)
	suite.Require().Nil(err)
}

func TestSendPasswordResetOTPService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) TestSuccess() {
	result, err := suite.Service.Run(context.Background(), Input{Phone: PHONE})

	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(passwordreset.StatusResetLinkSent, result.Status)
	assert.Equal(1, suite.Sender.SentCount())
	assert.Equal(OTP, suite.Sender.LastSent().OTP)
}

func (suite *testSuite) TestInvalidUser() {
	result, err := suite.Service.Run(context.Background(), Input{Phone: "+10000000"})

	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(passwordreset.StatusInvalidUser, result.Status)
	assert.Equal(0, suite.Sender.SentCount())
}

func (suite *testSuite) TestThrottled() {
	ctx := context.Background()
	_, err := suite.Service.Run(ctx, Input{Phone: PHONE})
	suite.Require().Nil(err)

	result, err := suite.Service.Run(ctx, Input{Phone: PHONE})

	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(passwordreset.StatusResetThrottled, result.Status)
	assert.Equal(1, suite.Sender.SentCount())
}

func (suite *testSuite) TestRepositoryError() {
	suite.Tokens.ReturnError = true
	_, err := suite.Service.Run(context.Background(), Input{Phone: PHONE})

	suite.Require().NotNil(err)
}
