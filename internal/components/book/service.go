package book

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"

	"bookswap/internal/shared/apperr"
)

type (
	// ImageUpload carries an optional cover image from the multipart form.
	ImageUpload struct {
		Filename string
		Reader   io.Reader
	}

	servicer interface {
		Create(ctx context.Context, ownerID uuid.UUID, in CreateBookIn, image *ImageUpload) (*Book, error)
		Get(ctx context.Context, id uuid.UUID) (*Book, error)
		List(ctx context.Context, callerID uuid.UUID, ownerScope string) ([]Book, error)
		Update(ctx context.Context, callerID, id uuid.UUID, in UpdateBookIn) (*Book, error)
		Delete(ctx context.Context, callerID, id uuid.UUID) error
	}

	service struct {
		repo   repoer
		images imageStore
	}
)

func NewService(repo repoer, images imageStore) servicer {
	return &service{repo: repo, images: images}
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, in CreateBookIn, image *ImageUpload) (*Book, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)

	if in.Title == "" || in.Author == "" {
		return nil, apperr.Validation("title and author are required")
	}
	if !in.Condition.Valid() {
		return nil, apperr.Validation("unknown condition")
	}

	imagePath := ""
	if image != nil {
		path, err := s.images.Save(image.Filename, image.Reader)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		imagePath = path
	}

	return s.repo.Create(ctx, ownerID, in, imagePath)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Book, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all listings, or only the caller's when ownerScope is "me".
func (s *service) List(ctx context.Context, callerID uuid.UUID, ownerScope string) ([]Book, error) {
	if ownerScope == "me" {
		return s.repo.List(ctx, &callerID)
	}
	return s.repo.List(ctx, nil)
}

func (s *service) Update(ctx context.Context, callerID, id uuid.UUID, in UpdateBookIn) (*Book, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.OwnerID != callerID {
		return nil, apperr.Authorization("only the owner can edit a listing")
	}
	if in.Condition != nil && !in.Condition.Valid() {
		return nil, apperr.Validation("unknown condition")
	}

	return s.repo.Update(ctx, id, in)
}

// Delete removes a listing. Outstanding requests against the book go with
// it (the schema cascades).
func (s *service) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.OwnerID != callerID {
		return apperr.Authorization("only the owner can delete a listing")
	}

	return s.repo.Delete(ctx, id)
}
