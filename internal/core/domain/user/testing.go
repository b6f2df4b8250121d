package user

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"sync"

	c "phonereset/internal/core/domain/common"
	"phonereset/internal/core/domain/token"
)

type FakeUserRepository struct {
	Users       []User
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make([]User, 0, 10)}
}

func (r *FakeUserRepository) Create(ctx context.Context, input CreateUserInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not create user %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	maxID := ID(0)
	for _, u := range r.Users {
		if u.Phone == input.Phone {
			return u, ErrPhoneAlreadyExists
		}
		maxID = u.ID
	}
	u = User{
		ID:           maxID + 1,
		Phone:        input.Phone,
		PasswordHash: input.PasswordHash,
		CreatedAt:    input.CreatedAt,
	}
	r.Users = append(r.Users, u)
	return u, nil
}

func (r *FakeUserRepository) GetByPhone(ctx context.Context, phone c.Phone) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user by phone %s", phone)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.Phone == phone {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) SetPassword(ctx context.Context, id ID, password PasswordHash) error {
	if r.ReturnError {
		return fmt.Errorf("could not set password for user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == id {
			r.Users[ix].PasswordHash = c.NewOptional(password, true)
			return nil
		}
	}
	return ErrUserDoesNotExist
}

type SentNotification struct {
	User User
	OTP  token.OneTimePassword
	Token token.Token
}

type FakeResetNotificationSender struct {
	Sent        []SentNotification
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeResetNotificationSender() *FakeResetNotificationSender {
	return &FakeResetNotificationSender{}
}

func (s *FakeResetNotificationSender) SendPhonePasswordResetNotification(
	ctx context.Context,
	u User,
	otp token.OneTimePassword,
	t token.Token,
) error {
	if s.ReturnError {
		return fmt.Errorf("could not send reset notification to user %d", u.ID)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sent = append(s.Sent, SentNotification{User: u, OTP: otp, Token: t})
	return nil
}

func (s *FakeResetNotificationSender) SentCount() int {
	return len(s.Sent)
}

func (s *FakeResetNotificationSender) LastSent() SentNotification {
	l := len(s.Sent)
	if l == 0 {
		panic("Sent count is 0.")
	}
	return s.Sent[l-1]
}

type FakePasswordHasher struct{}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(password RawPassword) (PasswordHash, error) {
	hash := md5.New()
	io.WriteString(hash, string(password))
	return PasswordHash(fmt.Sprintf("%x", hash.Sum(nil))), nil
}

func (h *FakePasswordHasher) ValidatePassword(password RawPassword, hash PasswordHash) bool {
	actualHash, err := h.HashPassword(password)
	if err != nil {
		return false
	}
	return actualHash == hash
}
