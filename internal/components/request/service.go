package request

import (
	"context"

	"github.com/google/uuid"

	"bookswap/internal/shared/apperr"
)

type (
	servicer interface {
		Create(ctx context.Context, callerID, bookID uuid.UUID) (*Request, error)
		Views(ctx context.Context, callerID uuid.UUID) (*Views, error)
		Resolve(ctx context.Context, callerID, id uuid.UUID, to Status) (*Request, error)
		Cancel(ctx context.Context, callerID, id uuid.UUID) error
	}

	service struct {
		repo repoer
	}
)

func NewService(repo repoer) servicer {
	return &service{repo: repo}
}

// Create opens a pending request for a book on behalf of the caller.
// Requesting your own book or doubling up on a pending request is a
// conflict; the partial unique index backs the latter check under races.
func (s *service) Create(ctx context.Context, callerID, bookID uuid.UUID) (*Request, error) {
	ownerID, err := s.repo.BookOwner(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if ownerID == callerID {
		return nil, apperr.Conflict("you cannot request your own book")
	}

	pending, err := s.repo.HasPending(ctx, bookID, callerID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, apperr.Conflict("a pending request for this book already exists")
	}

	return s.repo.Create(ctx, bookID, callerID)
}

func (s *service) Views(ctx context.Context, callerID uuid.UUID) (*Views, error) {
	incoming, err := s.repo.ListIncoming(ctx, callerID)
	if err != nil {
		return nil, err
	}
	outgoing, err := s.repo.ListOutgoing(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return &Views{Incoming: incoming, Outgoing: outgoing}, nil
}

// Resolve accepts or declines a pending request. Only the owner of the
// referenced book may resolve, and only while the request is pending.
func (s *service) Resolve(ctx context.Context, callerID, id uuid.UUID, to Status) (*Request, error) {
	if !to.Terminal() {
		return nil, apperr.Validation("status must be accepted or declined")
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Book.OwnerID != callerID {
		return nil, apperr.Authorization("only the book owner can resolve a request")
	}
	if req.Status != StatusPending {
		return nil, apperr.InvalidState("request is no longer pending")
	}

	resolved, err := s.repo.ResolveIfPending(ctx, id, to)
	if err != nil {
		return nil, err
	}
	if !resolved {
		// A concurrent mutation won
		return nil, apperr.InvalidState("request is no longer pending")
	}

	req.Status = to
	return req, nil
}

// Cancel removes a pending request. Only the original requester may cancel.
func (s *service) Cancel(ctx context.Context, callerID, id uuid.UUID) error {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if req.Requester.ID != callerID {
		return apperr.Authorization("only the requester can cancel a request")
	}
	if req.Status != StatusPending {
		return apperr.InvalidState("request is no longer pending")
	}

	deleted, err := s.repo.DeleteIfPending(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.InvalidState("request is no longer pending")
	}
	return nil
}
