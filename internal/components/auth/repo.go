package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookswap/internal/shared/apperr"
)

const uniqueViolation = "23505"

type (
	repoer interface {
		Create(ctx context.Context, name, email, passwordHash string) (*User, error)
		GetByEmail(ctx context.Context, email string) (*User, error)
		GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	}

	repo struct {
		pool *pgxpool.Pool
	}
)

func NewRepo(pool *pgxpool.Pool) repoer {
	return &repo{pool: pool}
}

func (r *repo) Create(ctx context.Context, name, email, passwordHash string) (*User, error) {
	user := new(User)

	stmt := `
	INSERT INTO users (name, email, password_hash)
	VALUES ($1, $2, $3)
	RETURNING id, name, email, password_hash, created_at, updated_at`

	err := r.pool.QueryRow(ctx, stmt, name, email, passwordHash).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperr.Conflict("email already registered")
		}
		return nil, err
	}
	return user, nil
}

func (r *repo) GetByEmail(ctx context.Context, email string) (*User, error) {
	stmt := `
	SELECT id, name, email, password_hash, created_at, updated_at
	FROM users
	WHERE email = $1`

	user := new(User)
	err := r.pool.QueryRow(ctx, stmt, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *repo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	stmt := `
	SELECT id, name, email, password_hash, created_at, updated_at
	FROM users
	WHERE id = $1`

	user := new(User)
	err := r.pool.QueryRow(ctx, stmt, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
