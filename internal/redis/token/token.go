package token

import (
	"context"
	"time"

	c "phonereset/internal/core/domain/common"
	e "phonereset/internal/core/domain/errors"
	"phonereset/internal/core/domain/token"

	"github.com/go-redis/redis/v9"
)

const DefaultKeyPrefix = "password_reset_token"

const (
	fieldToken     = "token"
	fieldOTP       = "otp"
	fieldCreatedAt = "created_at"
)

// Config mirrors the storage policy of the relational repository; KeyPrefix
// takes the place of the table name.
type Config struct {
	KeyPrefix       string
	ExpiresMinutes  int
	ThrottleSeconds int
	OTPLength       int
}

// RedisTokenRepository keeps one hash per phone number. It implements the
// same contract as the pgx repository for hosts without a relational store.
type RedisTokenRepository struct {
	client    *redis.Client
	generator token.Generator
	keyPrefix string
	expires   int // seconds
	throttle  int // seconds
	otpLength int
	now       func() time.Time
}

func NewRedisRepository(
	client *redis.Client,
	generator token.Generator,
	config Config,
	now func() time.Time,
) *RedisTokenRepository {
	if client == nil {
		panic(e.NewNilArgumentError("client"))
	}
	if generator == nil {
		panic(e.NewNilArgumentError("generator"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	keyPrefix := config.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	otpLength := config.OTPLength
	if otpLength == 0 {
		otpLength = token.DefaultOTPLength
	}
	return &RedisTokenRepository{
		client:    client,
		generator: generator,
		keyPrefix: keyPrefix,
		expires:   config.ExpiresMinutes * 60,
		throttle:  config.ThrottleSeconds,
		otpLength: otpLength,
		now:       now,
	}
}

func (r *RedisTokenRepository) Create(ctx context.Context, phone c.Phone) (t token.Token, otp token.OneTimePassword, err error) {
	t = r.generator.NewToken()
	otp, err = r.generator.OneTimePassword(r.otpLength)
	if err != nil {
		return t, otp, err
	}

	key := r.key(phone)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, map[string]interface{}{
			fieldToken:     r.generator.Hash(t),
			fieldOTP:       string(otp),
			fieldCreatedAt: r.now().UTC().Format(time.RFC3339Nano),
		})
		return nil
	})
	return t, otp, err
}

func (r *RedisTokenRepository) Exists(ctx context.Context, phone c.Phone, t token.Token, otp token.OneTimePassword) (bool, error) {
	record, ok, err := r.getRecord(ctx, phone)
	if err != nil || !ok {
		return false, err
	}
	if record.OTP != otp {
		return false, nil
	}
	if record.Expired(r.expires, r.now()) {
		return false, nil
	}
	return r.generator.Check(t, record.TokenHash), nil
}

func (r *RedisTokenRepository) RecentlyCreatedToken(ctx context.Context, phone c.Phone) (bool, error) {
	record, ok, err := r.getRecord(ctx, phone)
	if err != nil || !ok {
		return false, err
	}
	return record.RecentlyCreated(r.throttle, r.now()), nil
}

func (r *RedisTokenRepository) Delete(ctx context.Context, phone c.Phone) error {
	return r.client.Del(ctx, r.key(phone)).Err()
}

func (r *RedisTokenRepository) DeleteExpired(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.keyPrefix+"::*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		rawCreatedAt, err := r.client.HGet(ctx, key, fieldCreatedAt).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return err
		}
		createdAt, err := time.Parse(time.RFC3339Nano, rawCreatedAt)
		if err != nil {
			// Unreadable records are stale by definition.
			createdAt = time.Time{}
		}
		record := token.Record{CreatedAt: createdAt}
		if record.Expired(r.expires, r.now()) {
			if err := r.client.Del(ctx, key).Err(); err != nil {
				return err
			}
		}
	}
	return iter.Err()
}

func (r *RedisTokenRepository) getRecord(ctx context.Context, phone c.Phone) (record token.Record, ok bool, err error) {
	fields, err := r.client.HGetAll(ctx, r.key(phone)).Result()
	if err != nil {
		return record, false, err
	}
	if len(fields) == 0 {
		return record, false, nil
	}
	createdAt, err := time.Parse(time.RFC3339Nano, fields[fieldCreatedAt])
	if err != nil {
		return record, false, err
	}
	return token.Record{
		Phone:     phone,
		TokenHash: fields[fieldToken],
		OTP:       token.OneTimePassword(fields[fieldOTP]),
		CreatedAt: createdAt,
	}, true, nil
}

func (r *RedisTokenRepository) key(phone c.Phone) string {
	return r.keyPrefix + "::" + string(phone)
}
