package user

import (
	"context"
	"database/sql"
	"errors"

	c "phonereset/internal/core/domain/common"
	e "phonereset/internal/core/domain/errors"
	"phonereset/internal/core/domain/user"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const PG_UNIQUE_CONSTRAINT_ERR_CODE = "23505"
const PHONE_CONSTRAINT_NAME = "app_user_phone_number_idx"

type PgxUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) *PgxUserRepository {
	if pool == nil {
		panic(e.NewNilArgumentError("pool"))
	}
	return &PgxUserRepository{pool: pool}
}

func (r *PgxUserRepository) Create(ctx context.Context, input user.CreateUserInput) (u user.User, err error) {
	err = r.pool.QueryRow(
		ctx,
		`INSERT INTO app_user (phone_number, password_hash, created_at)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		string(input.Phone),
		encodePasswordHash(input.PasswordHash),
		input.CreatedAt,
	).Scan(&u.ID)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == PG_UNIQUE_CONSTRAINT_ERR_CODE && pgErr.ConstraintName == PHONE_CONSTRAINT_NAME {
			return u, user.ErrPhoneAlreadyExists
		}
	}
	if err != nil {
		return u, err
	}

	u.Phone = input.Phone
	u.PasswordHash = input.PasswordHash
	u.CreatedAt = input.CreatedAt
	return u, nil
}

func (r *PgxUserRepository) GetByPhone(ctx context.Context, phone c.Phone) (u user.User, err error) {
	var passwordHash sql.NullString
	err = r.pool.QueryRow(
		ctx,
		`SELECT id, phone_number, password_hash, created_at FROM app_user WHERE phone_number = $1`,
		string(phone),
	).Scan(&u.ID, &u.Phone, &passwordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}
	u.PasswordHash = c.NewOptional(user.PasswordHash(passwordHash.String), passwordHash.Valid)
	return u, nil
}

func (r *PgxUserRepository) SetPassword(ctx context.Context, id user.ID, password user.PasswordHash) error {
	commandTag, err := r.pool.Exec(
		ctx,
		`UPDATE app_user SET password_hash = $1 WHERE id = $2`,
		string(password),
		int64(id),
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func encodePasswordHash(ph c.Optional[user.PasswordHash]) sql.NullString {
	return sql.NullString{String: string(ph.Value), Valid: ph.IsPresent}
}
