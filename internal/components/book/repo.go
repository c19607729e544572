package book

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookswap/internal/shared/apperr"
)

type (
	repoer interface {
		Create(ctx context.Context, ownerID uuid.UUID, in CreateBookIn, imagePath string) (*Book, error)
		GetByID(ctx context.Context, id uuid.UUID) (*Book, error)
		List(ctx context.Context, ownerID *uuid.UUID) ([]Book, error)
		Update(ctx context.Context, id uuid.UUID, in UpdateBookIn) (*Book, error)
		Delete(ctx context.Context, id uuid.UUID) error
	}

	repo struct {
		pool *pgxpool.Pool
	}
)

func NewRepo(pool *pgxpool.Pool) repoer {
	return &repo{pool: pool}
}

func (r *repo) Create(ctx context.Context, ownerID uuid.UUID, in CreateBookIn, imagePath string) (*Book, error) {
	book := new(Book)

	stmt := `
	INSERT INTO books (title, author, condition, description, image, owner_id)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, title, author, condition, description, image, owner_id, created_at, updated_at`

	err := r.pool.QueryRow(
		ctx,
		stmt,
		in.Title,
		in.Author,
		in.Condition,
		in.Description,
		imagePath,
		ownerID,
	).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Condition,
		&book.Description,
		&book.Image,
		&book.OwnerID,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return book, nil
}

// GetByID returns the book with its owner embedded.
func (r *repo) GetByID(ctx context.Context, id uuid.UUID) (*Book, error) {
	stmt := `
	SELECT b.id, b.title, b.author, b.condition, b.description, b.image,
	       b.owner_id, b.created_at, b.updated_at,
	       u.id, u.name, u.email
	FROM books b
	JOIN users u ON u.id = b.owner_id
	WHERE b.id = $1`

	book := new(Book)
	owner := new(Owner)
	err := r.pool.QueryRow(ctx, stmt, id).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Condition,
		&book.Description,
		&book.Image,
		&book.OwnerID,
		&book.CreatedAt,
		&book.UpdatedAt,
		&owner.ID,
		&owner.Name,
		&owner.Email,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("book not found")
	}
	if err != nil {
		return nil, err
	}

	book.Owner = owner
	return book, nil
}

// List returns all books, or only the given owner's when ownerID is set.
// Ordering is newest first.
func (r *repo) List(ctx context.Context, ownerID *uuid.UUID) ([]Book, error) {
	whereClause := ""
	args := []interface{}{}
	if ownerID != nil {
		whereClause = "WHERE owner_id = $1"
		args = append(args, *ownerID)
	}

	stmt := fmt.Sprintf(`
	SELECT id, title, author, condition, description, image, owner_id, created_at, updated_at
	FROM books
	%s
	ORDER BY created_at DESC`, whereClause)

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []Book{}
	for rows.Next() {
		var book Book
		err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&book.Condition,
			&book.Description,
			&book.Image,
			&book.OwnerID,
			&book.CreatedAt,
			&book.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

// Update performs a partial update by building SET clauses only for non-nil
// fields. Ownership is checked by the service before calling this.
func (r *repo) Update(ctx context.Context, id uuid.UUID, in UpdateBookIn) (*Book, error) {
	setParts := []string{}
	args := []interface{}{id}
	argIndex := 2

	if in.Title != nil {
		setParts = append(setParts, fmt.Sprintf("title = $%d", argIndex))
		args = append(args, *in.Title)
		argIndex++
	}
	if in.Author != nil {
		setParts = append(setParts, fmt.Sprintf("author = $%d", argIndex))
		args = append(args, *in.Author)
		argIndex++
	}
	if in.Condition != nil {
		setParts = append(setParts, fmt.Sprintf("condition = $%d", argIndex))
		args = append(args, *in.Condition)
		argIndex++
	}
	if in.Description != nil {
		setParts = append(setParts, fmt.Sprintf("description = $%d", argIndex))
		args = append(args, *in.Description)
		argIndex++
	}

	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}

	setParts = append(setParts, "updated_at = NOW()")

	stmt := fmt.Sprintf(`
	UPDATE books
	SET %s
	WHERE id = $1
	RETURNING id, title, author, condition, description, image, owner_id, created_at, updated_at`,
		strings.Join(setParts, ", "))

	book := new(Book)
	err := r.pool.QueryRow(ctx, stmt, args...).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Condition,
		&book.Description,
		&book.Image,
		&book.OwnerID,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("book not found")
	}
	if err != nil {
		return nil, err
	}
	return book, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("book not found")
	}
	return nil
}
