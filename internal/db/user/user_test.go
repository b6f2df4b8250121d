package user

import (
	"context"
	"testing"
	"time"

	c "phonereset/internal/core/domain/common"
	"phonereset/internal/core/domain/user"
	"phonereset/internal/db"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

const (
	PHONE         = c.Phone("+15550001")
	PASSWORD_HASH = user.PasswordHash("test-password-hash")
)

var NOW time.Time = time.Date(2023, 6, 6, 15, 30, 30, 0, time.UTC)

type testSuite struct {
	suite.Suite
	pool *pgxpool.Pool
	repo *PgxUserRepository
}

func (suite *testSuite) SetupSuite() {
	suite.pool = db.CreateTestPool()
	suite.repo = NewPgxRepository(suite.pool)
}

func (suite *testSuite) TearDownSuite() {
	suite.pool.Close()
}

func (suite *testSuite) TearDownTest() {
	db.TruncateTables(suite.pool)
}

func TestPgxUserRepository(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) TestCreateSuccess() {
	input := user.CreateUserInput{
		Phone:        PHONE,
		PasswordHash: c.NewOptional(PASSWORD_HASH, true),
		CreatedAt:    NOW,
	}
	u, err := suite.repo.Create(context.Background(), input)

	assert := suite.Require()
	assert.Nil(err)
	assert.NotEqual(user.ID(0), u.ID)
	assert.Equal(PHONE, u.Phone)
	assert.Equal(input.PasswordHash, u.PasswordHash)
	assert.True(input.CreatedAt.Equal(u.CreatedAt))
}

func (suite *testSuite) TestPhoneAlreadyExistsError() {
	input := user.CreateUserInput{
		Phone:        PHONE,
		PasswordHash: c.NewOptional(PASSWORD_HASH, true),
		CreatedAt:    NOW,
	}
	_, err := suite.repo.Create(context.Background(), input)
	suite.Require().Nil(err)

	_, err = suite.repo.Create(context.Background(), input)
	suite.Require().ErrorIs(err, user.ErrPhoneAlreadyExists)
}

func (suite *testSuite) TestGetByPhone() {
	created, err := suite.repo.Create(context.Background(), user.CreateUserInput{
		Phone:        PHONE,
		PasswordHash: c.NewOptional(PASSWORD_HASH, true),
		CreatedAt:    NOW,
	})
	suite.Require().Nil(err)

	u, err := suite.repo.GetByPhone(context.Background(), PHONE)

	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(created.ID, u.ID)
	assert.Equal(PHONE, u.Phone)
	assert.True(u.PasswordHash.IsPresent)
	assert.Equal(PASSWORD_HASH, u.PasswordHash.Value)
}

func (suite *testSuite) TestGetByPhoneNotFound() {
	_, err := suite.repo.GetByPhone(context.Background(), "+10000000")
	suite.Require().ErrorIs(err, user.ErrUserDoesNotExist)
}

func (suite *testSuite) TestSetPassword() {
	created, err := suite.repo.Create(context.Background(), user.CreateUserInput{
		Phone:        PHONE,
		PasswordHash: c.NewOptional(PASSWORD_HASH, true),
		CreatedAt:    NOW,
	})
	suite.Require().Nil(err)

	err = suite.repo.SetPassword(context.Background(), created.ID, user.PasswordHash("new-hash"))
	suite.Require().Nil(err)

	u, err := suite.repo.GetByPhone(context.Background(), PHONE)
	suite.Require().Nil(err)
	suite.Require().Equal(user.PasswordHash("new-hash"), u.PasswordHash.Value)
}

func (suite *testSuite) TestSetPasswordUserDoesNotExist() {
	err := suite.repo.SetPassword(context.Background(), user.ID(111222333), user.PasswordHash("new-hash"))
	suite.Require().ErrorIs(err, user.ErrUserDoesNotExist)
}
