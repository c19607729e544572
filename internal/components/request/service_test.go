package request

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookswap/internal/shared/apperr"
)

type fakeRepo struct {
	owners   map[uuid.UUID]uuid.UUID // book -> owner
	requests map[uuid.UUID]*Request
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		owners:   make(map[uuid.UUID]uuid.UUID),
		requests: make(map[uuid.UUID]*Request),
	}
}

func (f *fakeRepo) addBook(ownerID uuid.UUID) uuid.UUID {
	bookID := uuid.New()
	f.owners[bookID] = ownerID
	return bookID
}

func (f *fakeRepo) Create(_ context.Context, bookID, requesterID uuid.UUID) (*Request, error) {
	req := &Request{
		ID:     uuid.New(),
		Status: StatusPending,
		Book: BookSummary{
			ID:      bookID,
			OwnerID: f.owners[bookID],
		},
		Requester: Requester{ID: requesterID},
		CreatedAt: time.Now(),
	}
	f.requests[req.ID] = req
	return req, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Request, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, apperr.NotFound("request not found")
	}
	copied := *req
	return &copied, nil
}

func (f *fakeRepo) BookOwner(_ context.Context, bookID uuid.UUID) (uuid.UUID, error) {
	ownerID, ok := f.owners[bookID]
	if !ok {
		return uuid.Nil, apperr.NotFound("book not found")
	}
	return ownerID, nil
}

func (f *fakeRepo) HasPending(_ context.Context, bookID, requesterID uuid.UUID) (bool, error) {
	for _, req := range f.requests {
		if req.Book.ID == bookID && req.Requester.ID == requesterID && req.Status == StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) ListIncoming(_ context.Context, ownerID uuid.UUID) ([]Request, error) {
	out := []Request{}
	for _, req := range f.requests {
		if req.Book.OwnerID == ownerID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListOutgoing(_ context.Context, requesterID uuid.UUID) ([]Request, error) {
	out := []Request{}
	for _, req := range f.requests {
		if req.Requester.ID == requesterID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeRepo) ResolveIfPending(_ context.Context, id uuid.UUID, to Status) (bool, error) {
	req, ok := f.requests[id]
	if !ok || req.Status != StatusPending {
		return false, nil
	}
	req.Status = to
	return true, nil
}

func (f *fakeRepo) DeleteIfPending(_ context.Context, id uuid.UUID) (bool, error) {
	req, ok := f.requests[id]
	if !ok || req.Status != StatusPending {
		return false, nil
	}
	delete(f.requests, id)
	return true, nil
}

func TestCreateRejectsOwnBook(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	owner := uuid.New()
	bookID := repo.addBook(owner)

	_, err := svc.Create(context.Background(), owner, bookID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestCreateRejectsMissingBook(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCreateRejectsDuplicatePending(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	requester := uuid.New()
	bookID := repo.addBook(uuid.New())

	_, err := svc.Create(context.Background(), requester, bookID)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), requester, bookID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestCreateAllowsNewRequestAfterDecline(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	owner := uuid.New()
	requester := uuid.New()
	bookID := repo.addBook(owner)

	first, err := svc.Create(context.Background(), requester, bookID)
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), owner, first.ID, StatusDeclined)
	require.NoError(t, err)

	// The declined request is terminal; a fresh pending one is allowed
	_, err = svc.Create(context.Background(), requester, bookID)
	require.NoError(t, err)
}

func TestResolveOnlyByBookOwner(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	owner := uuid.New()
	requester := uuid.New()
	bookID := repo.addBook(owner)

	created, err := svc.Create(context.Background(), requester, bookID)
	require.NoError(t, err)

	for _, caller := range []uuid.UUID{requester, uuid.New()} {
		_, err := svc.Resolve(context.Background(), caller, created.ID, StatusAccepted)
		require.Error(t, err)
		assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
	}

	resolved, err := svc.Resolve(context.Background(), owner, created.ID, StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, resolved.Status)
}

func TestResolveRejectsNonTerminalTarget(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	owner := uuid.New()
	bookID := repo.addBook(owner)
	created, err := svc.Create(context.Background(), uuid.New(), bookID)
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), owner, created.ID, StatusPending)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestTransitionsAreOneWay(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	owner := uuid.New()
	requester := uuid.New()
	bookID := repo.addBook(owner)

	created, err := svc.Create(context.Background(), requester, bookID)
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), owner, created.ID, StatusAccepted)
	require.NoError(t, err)

	// No transition leaves a terminal state
	_, err = svc.Resolve(context.Background(), owner, created.ID, StatusDeclined)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	err = svc.Cancel(context.Background(), requester, created.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
}

func TestCancelOnlyByRequester(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	owner := uuid.New()
	requester := uuid.New()
	bookID := repo.addBook(owner)

	created, err := svc.Create(context.Background(), requester, bookID)
	require.NoError(t, err)

	err = svc.Cancel(context.Background(), owner, created.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))

	require.NoError(t, svc.Cancel(context.Background(), requester, created.ID))

	// Cancelled means gone
	_, err = repo.GetByID(context.Background(), created.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestViewsSplitByRole(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	alice := uuid.New()
	bob := uuid.New()
	bookID := repo.addBook(alice)

	created, err := svc.Create(context.Background(), bob, bookID)
	require.NoError(t, err)

	aliceViews, err := svc.Views(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, aliceViews.Incoming, 1)
	assert.Empty(t, aliceViews.Outgoing)
	assert.Equal(t, created.ID, aliceViews.Incoming[0].ID)

	bobViews, err := svc.Views(context.Background(), bob)
	require.NoError(t, err)
	assert.Empty(t, bobViews.Incoming)
	require.Len(t, bobViews.Outgoing, 1)
	assert.Equal(t, StatusPending, bobViews.Outgoing[0].Status)
}

func TestResolveLostRaceReportsInvalidState(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	owner := uuid.New()
	bookID := repo.addBook(owner)
	created, err := svc.Create(context.Background(), uuid.New(), bookID)
	require.NoError(t, err)

	// Another actor resolves between the read and the conditional update
	repo.requests[created.ID].Status = StatusDeclined

	_, err = svc.Resolve(context.Background(), owner, created.ID, StatusAccepted)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
}
