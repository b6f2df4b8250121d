package user

import (
	"context"
	"time"

	c "phonereset/internal/core/domain/common"
)

type CreateUserInput struct {
	Phone        c.Phone
	PasswordHash c.Optional[PasswordHash]
	CreatedAt    time.Time
}

type UserRepository interface {
	Create(ctx context.Context, input CreateUserInput) (User, error)
	GetByPhone(ctx context.Context, phone c.Phone) (User, error)
	SetPassword(ctx context.Context, id ID, password PasswordHash) error
}

type PasswordHasher interface {
	HashPassword(password RawPassword) (PasswordHash, error)
	ValidatePassword(password RawPassword, hash PasswordHash) bool
}
