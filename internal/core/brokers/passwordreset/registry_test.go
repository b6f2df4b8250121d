package passwordreset

import (
	"testing"
	"time"

	"phonereset/internal/core/domain/logging"
	"phonereset/internal/core/domain/token"
	"phonereset/internal/core/domain/user"

	"github.com/stretchr/testify/require"
)

func newTestBroker() *Broker {
	now := func() time.Time { return time.Now().UTC() }
	return NewBroker(
		logging.NewFakeLogger(),
		user.NewFakeUserRepository(),
		token.NewFakeRepository("t", "0000", 3600, 60, now),
		user.NewFakeResetNotificationSender(),
	)
}

func TestRegistry(t *testing.T) {
	assert := require.New(t)

	registry := NewRegistry("users")
	defaultBroker := newTestBroker()
	adminBroker := newTestBroker()
	registry.Register("users", defaultBroker)
	registry.Register("admins", adminBroker)

	b, err := registry.Broker("users")
	assert.Nil(err)
	assert.Same(defaultBroker, b)

	b, err = registry.Broker("admins")
	assert.Nil(err)
	assert.Same(adminBroker, b)

	b, err = registry.Broker("")
	assert.Nil(err)
	assert.Same(defaultBroker, b)

	b, err = registry.Default()
	assert.Nil(err)
	assert.Same(defaultBroker, b)

	_, err = registry.Broker("unknown")
	assert.NotNil(err)

	assert.Equal("users", registry.DefaultName())
}
