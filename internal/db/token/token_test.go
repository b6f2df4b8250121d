package token

import (
	"context"
	"testing"
	"time"

	c "phonereset/internal/core/domain/common"
	"phonereset/internal/core/domain/token"
	"phonereset/internal/db"
	tokengenerator "phonereset/internal/implementations/token_generator"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

const (
	PHONE       = c.Phone("+15550001")
	OTHER_PHONE = c.Phone("+15550002")
)

type testSuite struct {
	suite.Suite
	pool *pgxpool.Pool
	now  time.Time
	repo *PgxTokenRepository
}

func (suite *testSuite) SetupSuite() {
	suite.pool = db.CreateTestPool()
}

func (suite *testSuite) SetupTest() {
	suite.now = time.Date(2023, 6, 6, 15, 30, 30, 0, time.UTC)
	suite.repo = NewPgxRepository(
		suite.pool,
		tokengenerator.NewHMAC("test-secret-key"),
		Config{ExpiresMinutes: 60, ThrottleSeconds: 60, OTPLength: 4},
		func() time.Time { return suite.now },
	)
}

func (suite *testSuite) TearDownSuite() {
	suite.pool.Close()
}

func (suite *testSuite) TearDownTest() {
	db.TruncateTables(suite.pool)
}

func TestPgxTokenRepository(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) TestCreateReturnsRawSecrets() {
	t, otp, err := suite.repo.Create(context.Background(), PHONE)

	assert := suite.Require()
	assert.Nil(err)
	assert.Len(string(t), 64)
	assert.Len(string(otp), 4)

	// Only the hash is persisted, never the raw token.
	var storedToken string
	err = suite.pool.QueryRow(
		context.Background(),
		`SELECT token FROM password_reset_token WHERE phone_number = $1`,
		string(PHONE),
	).Scan(&storedToken)
	assert.Nil(err)
	assert.NotEqual(string(t), storedToken)
}

func (suite *testSuite) TestCreateLeavesSingleRecord() {
	ctx := context.Background()
	_, _, err := suite.repo.Create(ctx, PHONE)
	suite.Require().Nil(err)
	_, _, err = suite.repo.Create(ctx, PHONE)
	suite.Require().Nil(err)

	var count int
	err = suite.pool.QueryRow(
		ctx,
		`SELECT count(*) FROM password_reset_token WHERE phone_number = $1`,
		string(PHONE),
	).Scan(&count)
	suite.Require().Nil(err)
	suite.Require().Equal(1, count)
}

func (suite *testSuite) TestExists() {
	ctx := context.Background()
	t, otp, err := suite.repo.Create(ctx, PHONE)
	suite.Require().Nil(err)

	assert := suite.Require()

	exists, err := suite.repo.Exists(ctx, PHONE, t, otp)
	assert.Nil(err)
	assert.True(exists)

	exists, err = suite.repo.Exists(ctx, PHONE, "other-token", otp)
	assert.Nil(err)
	assert.False(exists)

	exists, err = suite.repo.Exists(ctx, PHONE, t, "0000")
	assert.Nil(err)
	assert.False(exists)

	exists, err = suite.repo.Exists(ctx, OTHER_PHONE, t, otp)
	assert.Nil(err)
	assert.False(exists)
}

func (suite *testSuite) TestExistsFailsAfterExpiry() {
	ctx := context.Background()
	t, otp, err := suite.repo.Create(ctx, PHONE)
	suite.Require().Nil(err)

	suite.now = suite.now.Add(61 * time.Minute)
	exists, err := suite.repo.Exists(ctx, PHONE, t, otp)

	suite.Require().Nil(err)
	suite.Require().False(exists)
}

func (suite *testSuite) TestRecentlyCreatedToken() {
	ctx := context.Background()
	_, _, err := suite.repo.Create(ctx, PHONE)
	suite.Require().Nil(err)

	assert := suite.Require()

	recent, err := suite.repo.RecentlyCreatedToken(ctx, PHONE)
	assert.Nil(err)
	assert.True(recent)

	suite.now = suite.now.Add(61 * time.Second)
	recent, err = suite.repo.RecentlyCreatedToken(ctx, PHONE)
	assert.Nil(err)
	assert.False(recent)

	recent, err = suite.repo.RecentlyCreatedToken(ctx, OTHER_PHONE)
	assert.Nil(err)
	assert.False(recent)
}

func (suite *testSuite) TestThrottleDisabled() {
	repo := NewPgxRepository(
		suite.pool,
		tokengenerator.NewHMAC("test-secret-key"),
		Config{ExpiresMinutes: 60, ThrottleSeconds: 0, OTPLength: 4},
		func() time.Time { return suite.now },
	)

	ctx := context.Background()
	_, _, err := repo.Create(ctx, PHONE)
	suite.Require().Nil(err)

	recent, err := repo.RecentlyCreatedToken(ctx, PHONE)
	suite.Require().Nil(err)
	suite.Require().False(recent)
}

func (suite *testSuite) TestDelete() {
	ctx := context.Background()
	t, otp, err := suite.repo.Create(ctx, PHONE)
	suite.Require().Nil(err)

	assert := suite.Require()
	assert.Nil(suite.repo.Delete(ctx, PHONE))

	exists, err := suite.repo.Exists(ctx, PHONE, t, otp)
	assert.Nil(err)
	assert.False(exists)

	// Idempotent.
	assert.Nil(suite.repo.Delete(ctx, PHONE))
}

func (suite *testSuite) TestDeleteExpiredSweepsOnlyStaleRecords() {
	ctx := context.Background()
	staleToken, staleOTP, err := suite.repo.Create(ctx, PHONE)
	suite.Require().Nil(err)

	suite.now = suite.now.Add(45 * time.Minute)
	freshToken, freshOTP, err := suite.repo.Create(ctx, OTHER_PHONE)
	suite.Require().Nil(err)

	suite.now = suite.now.Add(30 * time.Minute)
	suite.Require().Nil(suite.repo.DeleteExpired(ctx))

	assert := suite.Require()

	var count int
	err = suite.pool.QueryRow(
		ctx,
		`SELECT count(*) FROM password_reset_token WHERE phone_number = $1`,
		string(PHONE),
	).Scan(&count)
	assert.Nil(err)
	assert.Equal(0, count)

	exists, err := suite.repo.Exists(ctx, PHONE, staleToken, staleOTP)
	assert.Nil(err)
	assert.False(exists)

	exists, err = suite.repo.Exists(ctx, OTHER_PHONE, freshToken, freshOTP)
	assert.Nil(err)
	assert.True(exists)
}

func (suite *testSuite) TestOTPLength() {
	repo := NewPgxRepository(
		suite.pool,
		tokengenerator.NewHMAC("test-secret-key"),
		Config{ExpiresMinutes: 60, ThrottleSeconds: 60, OTPLength: 6},
		func() time.Time { return suite.now },
	)

	_, otp, err := repo.Create(context.Background(), PHONE)
	suite.Require().Nil(err)
	suite.Require().Len(string(otp), 6)
}

var _ token.Repository = (*PgxTokenRepository)(nil)
