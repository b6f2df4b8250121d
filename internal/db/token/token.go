package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	c "phonereset/internal/core/domain/common"
	e "phonereset/internal/core/domain/errors"
	"phonereset/internal/core/domain/token"

	"github.com/golang-module/carbon/v2"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const PG_UNIQUE_CONSTRAINT_ERR_CODE = "23505"

const DefaultTable = "password_reset_token"

// Config carries the storage-level policy: where records live, how long they
// stay valid and how often one phone number may request a new one. Expiry is
// configured in minutes, throttle directly in seconds; the asymmetry is
// deliberate and kept from the host configuration contract.
type Config struct {
	Table           string
	ExpiresMinutes  int
	ThrottleSeconds int
	OTPLength       int
}

type PgxTokenRepository struct {
	pool      *pgxpool.Pool
	generator token.Generator
	table     string
	expires   int // seconds
	throttle  int // seconds
	otpLength int
	now       func() time.Time
}

func NewPgxRepository(
	pool *pgxpool.Pool,
	generator token.Generator,
	config Config,
	now func() time.Time,
) *PgxTokenRepository {
	if pool == nil {
		panic(e.NewNilArgumentError("pool"))
	}
	if generator == nil {
		panic(e.NewNilArgumentError("generator"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	table := config.Table
	if table == "" {
		table = DefaultTable
	}
	otpLength := config.OTPLength
	if otpLength == 0 {
		otpLength = token.DefaultOTPLength
	}
	return &PgxTokenRepository{
		pool:      pool,
		generator: generator,
		table:     pgx.Identifier{table}.Sanitize(),
		expires:   config.ExpiresMinutes * 60,
		throttle:  config.ThrottleSeconds,
		otpLength: otpLength,
		now:       now,
	}
}

// Create removes any previous record for the phone number and inserts a
// fresh one inside a single transaction, so two concurrent creates leave
// exactly one live record. Returns the raw token and OTP; only their hash
// and the OTP are persisted.
func (r *PgxTokenRepository) Create(ctx context.Context, phone c.Phone) (t token.Token, otp token.OneTimePassword, err error) {
	t = r.generator.NewToken()
	otp, err = r.generator.OneTimePassword(r.otpLength)
	if err != nil {
		return t, otp, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return t, otp, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(
		ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE phone_number = $1`, r.table),
		string(phone),
	)
	if err != nil {
		return t, otp, err
	}
	_, err = tx.Exec(
		ctx,
		fmt.Sprintf(
			`INSERT INTO %s (phone_number, token, otp, created_at) VALUES ($1, $2, $3, $4)`,
			r.table,
		),
		string(phone),
		r.generator.Hash(t),
		string(otp),
		r.now(),
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == PG_UNIQUE_CONSTRAINT_ERR_CODE {
		// A concurrent create for the same phone number won the race. The
		// whole operation is retryable at phone-number granularity.
		return t, otp, fmt.Errorf("concurrent token create for the same phone number: %w", err)
	}
	if err != nil {
		return t, otp, err
	}
	return t, otp, tx.Commit(ctx)
}

// Exists fails closed: no record, an expired record and a hash mismatch all
// yield false. Expiry is checked before the hash comparison.
func (r *PgxTokenRepository) Exists(ctx context.Context, phone c.Phone, t token.Token, otp token.OneTimePassword) (bool, error) {
	record, err := r.getByPhoneAndOTP(ctx, phone, otp)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if record.Expired(r.expires, r.now()) {
		return false, nil
	}
	return r.generator.Check(t, record.TokenHash), nil
}

func (r *PgxTokenRepository) RecentlyCreatedToken(ctx context.Context, phone c.Phone) (bool, error) {
	var createdAt time.Time
	err := r.pool.QueryRow(
		ctx,
		fmt.Sprintf(`SELECT created_at FROM %s WHERE phone_number = $1`, r.table),
		string(phone),
	).Scan(&createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	record := token.Record{Phone: phone, CreatedAt: createdAt}
	return record.RecentlyCreated(r.throttle, r.now()), nil
}

func (r *PgxTokenRepository) Delete(ctx context.Context, phone c.Phone) error {
	_, err := r.pool.Exec(
		ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE phone_number = $1`, r.table),
		string(phone),
	)
	return err
}

func (r *PgxTokenRepository) DeleteExpired(ctx context.Context) error {
	expiredAt := carbon.Time2Carbon(r.now()).SubSeconds(r.expires).Carbon2Time()
	_, err := r.pool.Exec(
		ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE created_at < $1`, r.table),
		expiredAt,
	)
	return err
}

func (r *PgxTokenRepository) getByPhoneAndOTP(ctx context.Context, phone c.Phone, otp token.OneTimePassword) (record token.Record, err error) {
	var tokenHash string
	var createdAt time.Time
	err = r.pool.QueryRow(
		ctx,
		fmt.Sprintf(
			`SELECT token, created_at FROM %s WHERE phone_number = $1 AND otp = $2`,
			r.table,
		),
		string(phone),
		string(otp),
	).Scan(&tokenHash, &createdAt)
	if err != nil {
		return record, err
	}
	return token.Record{
		Phone:     phone,
		TokenHash: tokenHash,
		OTP:       otp,
		CreatedAt: createdAt,
	}, nil
}
