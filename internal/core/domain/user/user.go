package user

import (
	"time"

	c "phonereset/internal/core/domain/common"
)

type ID int64

type PasswordHash string

func (p PasswordHash) String() string {
	return "***"
}

type RawPassword string

func (p RawPassword) String() string {
	return "***"
}

type User struct {
	ID           ID
	Phone        c.Phone
	PasswordHash c.Optional[PasswordHash]
	CreatedAt    time.Time
}

// PhoneForPasswordReset returns the lookup key the token store is keyed by.
func (u User) PhoneForPasswordReset() c.Phone {
	return u.Phone
}
