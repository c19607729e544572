package request

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

const requestColumns = `
	r.id, r.status, r.created_at,
	b.id, b.title, b.author, b.image, b.owner_id,
	u.id, u.name, u.email`

const requestJoins = `
	FROM requests r
	JOIN books b ON b.id = r.book_id
	JOIN users u ON u.id = r.requester_id`

type (
	repoer interface {
		Create(ctx context.Context, bookID, requesterID uuid.UUID) (*Request, error)
		GetByID(ctx context.Context, id uuid.UUID) (*Request, error)
		BookOwner(ctx context.Context, bookID uuid.UUID) (uuid.UUID, error)
		HasPending(ctx context.Context, bookID, requesterID uuid.UUID) (bool, error)
		ListIncoming(ctx context.Context, ownerID uuid.UUID) ([]Request, error)
		ListOutgoing(ctx context.Context, requesterID uuid.UUID) ([]Request, error)
		ResolveIfPending(ctx context.Context, id uuid.UUID, to Status) (bool, error)
		DeleteIfPending(ctx context.Context, id uuid.UUID) (bool, error)
	}

	repo struct {
		pool *pgxpool.Pool
	}
)

func NewRepo(pool *pgxpool.Pool) repoer {
	return &repo{pool: pool}
}

func scanRequest(row pgx.Row) (*Request, error) {
	r := new(Request)
	err := row.Scan(
		&r.ID,
		&r.Status,
		&r.CreatedAt,
		&r.Book.ID,
		&r.Book.Title,
		&r.Book.Author,
		&r.Book.Image,
		&r.Book.OwnerID,
		&r.Requester.ID,
		&r.Requester.Name,
		&r.Requester.Email,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *repo) Create(ctx context.Context, bookID, requesterID uuid.UUID) (*Request, error) {
	stmt := `
	WITH created AS (
		INSERT INTO requests (book_id, requester_id)
		VALUES ($1, $2)
		RETURNING id, book_id, requester_id, status, created_at
	)
	SELECT r.id, r.status, r.created_at,
	       b.id, b.title, b.author, b.image, b.owner_id,
	       u.id, u.name, u.email
	FROM created r
	JOIN books b ON b.id = r.book_id
	JOIN users u ON u.id = r.requester_id`

	created, err := scanRequest(r.pool.QueryRow(ctx, stmt, bookID, requesterID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// Lost the race against a concurrent create for the same pair
			return nil, apperr.Conflict("a pending request for this book already exists")
		}
		return nil, err
	}
	return created, nil
}

func (r *repo) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	stmt := `SELECT` + requestColumns + requestJoins + `
	WHERE r.id = $1`

	req, err := scanRequest(r.pool.QueryRow(ctx, stmt, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("request not found")
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *repo) BookOwner(ctx context.Context, bookID uuid.UUID) (uuid.UUID, error) {
	var ownerID uuid.UUID
	err := r.pool.QueryRow(ctx, `SELECT owner_id FROM books WHERE id = $1`, bookID).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, apperr.NotFound("book not found")
	}
	if err != nil {
		return uuid.Nil, err
	}
	return ownerID, nil
}

func (r *repo) HasPending(ctx context.Context, bookID, requesterID uuid.UUID) (bool, error) {
	var exists bool
	stmt := `
	SELECT EXISTS (
		SELECT 1 FROM requests
		WHERE book_id = $1 AND requester_id = $2 AND status = 'pending'
	)`
	err := r.pool.QueryRow(ctx, stmt, bookID, requesterID).Scan(&exists)
	return exists, err
}

func (r *repo) ListIncoming(ctx context.Context, ownerID uuid.UUID) ([]Request, error) {
	stmt := `SELECT` + requestColumns + requestJoins + `
	WHERE b.owner_id = $1
	ORDER BY r.created_at DESC`
	return r.list(ctx, stmt, ownerID)
}

func (r *repo) ListOutgoing(ctx context.Context, requesterID uuid.UUID) ([]Request, error) {
	stmt := `SELECT` + requestColumns + requestJoins + `
	WHERE r.requester_id = $1
	ORDER BY r.created_at DESC`
	return r.list(ctx, stmt, requesterID)
}

func (r *repo) list(ctx context.Context, stmt string, arg interface{}) ([]Request, error) {
	rows, err := r.pool.Query(ctx, stmt, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []Request{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

// ResolveIfPending moves a request out of pending. The condition makes the
// database the arbiter under concurrent mutations: the loser sees zero rows
// affected.
func (r *repo) ResolveIfPending(ctx context.Context, id uuid.UUID, to Status) (bool, error) {
	stmt := `
	UPDATE requests
	SET status = $2, updated_at = NOW()
	WHERE id = $1 AND status = 'pending'`

	result, err := r.pool.Exec(ctx, stmt, id, to)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *repo) DeleteIfPending(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM requests WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
