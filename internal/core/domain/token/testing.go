package token

import (
	"context"
	"fmt"
	"sync"
	"time"

	"phonereset/internal/core/domain/common"
)

type FakeRepository struct {
	Records         map[common.Phone]Record
	Token           Token
	OTP             OneTimePassword
	ExpiresSeconds  int
	ThrottleSeconds int
	Now             func() time.Time
	ReturnError     bool
	lock            sync.Mutex
}

func NewFakeRepository(t Token, otp OneTimePassword, expiresSeconds int, throttleSeconds int, now func() time.Time) *FakeRepository {
	return &FakeRepository{
		Records:         make(map[common.Phone]Record),
		Token:           t,
		OTP:             otp,
		ExpiresSeconds:  expiresSeconds,
		ThrottleSeconds: throttleSeconds,
		Now:             now,
	}
}

func (r *FakeRepository) Create(ctx context.Context, phone common.Phone) (t Token, otp OneTimePassword, err error) {
	if r.ReturnError {
		return t, otp, fmt.Errorf("could not create token for %s", phone)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.Records, phone)
	r.Records[phone] = Record{
		Phone:     phone,
		TokenHash: fakeHash(r.Token),
		OTP:       r.OTP,
		CreatedAt: r.Now(),
	}
	return r.Token, r.OTP, nil
}

func (r *FakeRepository) Exists(ctx context.Context, phone common.Phone, t Token, otp OneTimePassword) (bool, error) {
	if r.ReturnError {
		return false, fmt.Errorf("could not check token for %s", phone)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	record, ok := r.Records[phone]
	if !ok || record.OTP != otp {
		return false, nil
	}
	if record.Expired(r.ExpiresSeconds, r.Now()) {
		return false, nil
	}
	return record.TokenHash == fakeHash(t), nil
}

func (r *FakeRepository) RecentlyCreatedToken(ctx context.Context, phone common.Phone) (bool, error) {
	if r.ReturnError {
		return false, fmt.Errorf("could not check token for %s", phone)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	record, ok := r.Records[phone]
	if !ok {
		return false, nil
	}
	return record.RecentlyCreated(r.ThrottleSeconds, r.Now()), nil
}

func (r *FakeRepository) Delete(ctx context.Context, phone common.Phone) error {
	if r.ReturnError {
		return fmt.Errorf("could not delete token for %s", phone)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.Records, phone)
	return nil
}

func (r *FakeRepository) DeleteExpired(ctx context.Context) error {
	if r.ReturnError {
		return fmt.Errorf("could not delete expired tokens")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for phone, record := range r.Records {
		if record.Expired(r.ExpiresSeconds, r.Now()) {
			delete(r.Records, phone)
		}
	}
	return nil
}

func (r *FakeRepository) RecordFor(phone common.Phone) (Record, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	record, ok := r.Records[phone]
	return record, ok
}

func fakeHash(t Token) string {
	return "fake-hash::" + string(t)
}
