package deleteexpiredtokens

import (
	"context"
	"testing"
	"time"

	c "phonereset/internal/core/domain/common"
	"phonereset/internal/core/domain/logging"
	"phonereset/internal/core/domain/token"
	"phonereset/internal/core/services"

	"github.com/stretchr/testify/suite"
)

var NOW time.Time = time.Date(2023, 6, 6, 15, 30, 30, 0, time.UTC)

type testSuite struct {
	suite.Suite
	now     time.Time
	Tokens  *token.FakeRepository
	Service services.Service[Input, Result]
}

func (suite *testSuite) SetupTest() {
	suite.now = NOW
	suite.Tokens = token.NewFakeRepository(
		"test-token",
		"4821",
		3600,
		60,
		func() time.Time { return suite.now },
	)
	suite.Service = New(logging.NewFakeLogger(), suite.Tokens)
}

func TestDeleteExpiredTokensService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) TestSweepsOnlyExpiredRecords() {
	ctx := context.Background()
	stalePhone := c.Phone("+15550001")
	freshPhone := c.Phone("+15550002")

	_, _, err := suite.Tokens.Create(ctx, stalePhone)
	suite.Require().Nil(err)

	suite.now = suite.now.Add(45 * time.Minute)
	_, _, err = suite.Tokens.Create(ctx, freshPhone)
	suite.Require().Nil(err)

	suite.now = suite.now.Add(30 * time.Minute)
	_, err = suite.Service.Run(ctx, Input{})

	assert := suite.Require()
	assert.Nil(err)

	_, ok := suite.Tokens.RecordFor(stalePhone)
	assert.False(ok)
	_, ok = suite.Tokens.RecordFor(freshPhone)
	assert.True(ok)
}

func (suite *testSuite) TestSweepIsRepeatable() {
	ctx := context.Background()
	_, err := suite.Service.Run(ctx, Input{})
	suite.Require().Nil(err)
	_, err = suite.Service.Run(ctx, Input{})
	suite.Require().Nil(err)
}

func (suite *testSuite) TestRepositoryError() {
	suite.Tokens.ReturnError = true
	_, err := suite.Service.Run(context.Background(), Input{})
	suite.Require().NotNil(err)
}
