package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookswap/client"
	"bookswap/internal/shared/apperr"
)

// swapServer is an in-memory stand-in for the API, enforcing the same
// request rules the real server does: no self-requests, one pending request
// per book and requester, owner-only resolution, requester-only
// cancellation, pending-only mutations.
type swapServer struct {
	users    map[string]client.BookOwner
	books    map[uuid.UUID]client.RequestBook
	requests map[uuid.UUID]*client.Request
}

func newSwapServer() *swapServer {
	return &swapServer{
		users:    make(map[string]client.BookOwner),
		books:    make(map[uuid.UUID]client.RequestBook),
		requests: make(map[uuid.UUID]*client.Request),
	}
}

func (s *swapServer) addUser(token, name string) client.BookOwner {
	user := client.BookOwner{ID: uuid.New(), Name: name, Email: strings.ToLower(name) + "@example.com"}
	s.users[token] = user
	return user
}

func (s *swapServer) addBook(owner client.BookOwner, title, author string) client.RequestBook {
	book := client.RequestBook{ID: uuid.New(), Title: title, Author: author, OwnerID: owner.ID}
	s.books[book.ID] = book
	return book
}

func (s *swapServer) caller(r *http.Request) (client.BookOwner, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	user, ok := s.users[token]
	return user, ok
}

func (s *swapServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /books/{id}/request", func(w http.ResponseWriter, r *http.Request) {
		caller, ok := s.caller(r)
		if !ok {
			writeErr(w, apperr.Auth("invalid or expired session"))
			return
		}

		bookID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeErr(w, apperr.Validation("invalid book ID"))
			return
		}
		book, found := s.books[bookID]
		if !found {
			writeErr(w, apperr.NotFound("book not found"))
			return
		}
		if book.OwnerID == caller.ID {
			writeErr(w, apperr.Conflict("you cannot request your own book"))
			return
		}
		for _, req := range s.requests {
			if req.Book.ID == bookID && req.Requester.ID == caller.ID && req.Status == client.RequestPending {
				writeErr(w, apperr.Conflict("a pending request for this book already exists"))
				return
			}
		}

		created := &client.Request{
			ID:        uuid.New(),
			Status:    client.RequestPending,
			Book:      book,
			Requester: caller,
			CreatedAt: time.Now(),
		}
		s.requests[created.ID] = created
		writeJSON(w, http.StatusCreated, created)
	})

	mux.HandleFunc("GET /requests", func(w http.ResponseWriter, r *http.Request) {
		caller, ok := s.caller(r)
		if !ok {
			writeErr(w, apperr.Auth("invalid or expired session"))
			return
		}

		incoming := []client.Request{}
		outgoing := []client.Request{}
		for _, req := range s.requests {
			if req.Book.OwnerID == caller.ID {
				incoming = append(incoming, *req)
			}
			if req.Requester.ID == caller.ID {
				outgoing = append(outgoing, *req)
			}
		}
		writeJSON(w, http.StatusOK, map[string][]client.Request{
			"incoming": incoming,
			"outgoing": outgoing,
		})
	})

	mux.HandleFunc("PATCH /requests/{id}", func(w http.ResponseWriter, r *http.Request) {
		caller, ok := s.caller(r)
		if !ok {
			writeErr(w, apperr.Auth("invalid or expired session"))
			return
		}

		var body struct {
			Status client.RequestStatus `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil ||
			(body.Status != client.RequestAccepted && body.Status != client.RequestDeclined) {
			writeErr(w, apperr.Validation("status must be accepted or declined"))
			return
		}

		req, found := s.requests[mustParse(r.PathValue("id"))]
		if !found {
			writeErr(w, apperr.NotFound("request not found"))
			return
		}
		if req.Book.OwnerID != caller.ID {
			writeErr(w, apperr.Authorization("only the book owner can resolve a request"))
			return
		}
		if req.Status != client.RequestPending {
			writeErr(w, apperr.InvalidState("request is no longer pending"))
			return
		}

		req.Status = body.Status
		writeJSON(w, http.StatusOK, req)
	})

	mux.HandleFunc("DELETE /requests/{id}", func(w http.ResponseWriter, r *http.Request) {
		caller, ok := s.caller(r)
		if !ok {
			writeErr(w, apperr.Auth("invalid or expired session"))
			return
		}

		req, found := s.requests[mustParse(r.PathValue("id"))]
		if !found {
			writeErr(w, apperr.NotFound("request not found"))
			return
		}
		if req.Requester.ID != caller.ID {
			writeErr(w, apperr.Authorization("only the requester can cancel a request"))
			return
		}
		if req.Status != client.RequestPending {
			writeErr(w, apperr.InvalidState("request is no longer pending"))
			return
		}

		delete(s.requests, req.ID)
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

func mustParse(raw string) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func newManager(srv *httptest.Server, token string) *client.RequestManager {
	return client.NewRequestManager(client.New(srv.URL, staticToken(token)))
}

func TestSwapLifecycle(t *testing.T) {
	ctx := context.Background()

	api := newSwapServer()
	alice := api.addUser("alice-token", "Alice")
	api.addUser("bob-token", "Bob")
	dune := api.addBook(alice, "Dune", "Frank Herbert")

	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	aliceReqs := newManager(srv, "alice-token")
	bobReqs := newManager(srv, "bob-token")

	// Bob requests Alice's book
	require.NoError(t, bobReqs.Create(ctx, dune.ID))

	outgoing := bobReqs.Outgoing()
	require.Len(t, outgoing, 1)
	assert.Equal(t, client.RequestPending, outgoing[0].Status)
	assert.Equal(t, "Dune", outgoing[0].Book.Title)
	assert.Empty(t, bobReqs.Incoming())

	require.NoError(t, aliceReqs.Refresh(ctx))
	incoming := aliceReqs.Incoming()
	require.Len(t, incoming, 1)
	assert.Equal(t, "Bob", incoming[0].Requester.Name)

	// A second request for the same book is a conflict
	err := bobReqs.Create(ctx, dune.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// Alice cannot request her own book
	err = aliceReqs.Create(ctx, dune.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// Alice accepts; both sides see the terminal status
	require.NoError(t, aliceReqs.Accept(ctx, incoming[0].ID))
	assert.Equal(t, client.RequestAccepted, aliceReqs.Incoming()[0].Status)

	require.NoError(t, bobReqs.Refresh(ctx))
	assert.Equal(t, client.RequestAccepted, bobReqs.Outgoing()[0].Status)

	// Accepted is terminal: no cancel, no second resolution
	err = bobReqs.Cancel(ctx, incoming[0].ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	err = aliceReqs.Decline(ctx, incoming[0].ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	// The failed mutations left the cached views alone
	assert.Equal(t, client.RequestAccepted, bobReqs.Outgoing()[0].Status)
	assert.Equal(t, client.RequestAccepted, aliceReqs.Incoming()[0].Status)
}

func TestCancelRemovesPendingRequest(t *testing.T) {
	ctx := context.Background()

	api := newSwapServer()
	alice := api.addUser("alice-token", "Alice")
	api.addUser("bob-token", "Bob")
	dune := api.addBook(alice, "Dune", "Frank Herbert")

	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	aliceReqs := newManager(srv, "alice-token")
	bobReqs := newManager(srv, "bob-token")

	require.NoError(t, bobReqs.Create(ctx, dune.ID))
	require.NoError(t, bobReqs.Cancel(ctx, bobReqs.Outgoing()[0].ID))

	assert.Empty(t, bobReqs.Outgoing())

	require.NoError(t, aliceReqs.Refresh(ctx))
	assert.Empty(t, aliceReqs.Incoming())

	// And the pair may try again afterwards
	require.NoError(t, bobReqs.Create(ctx, dune.ID))
	require.Len(t, bobReqs.Outgoing(), 1)
}

func TestOnlyOwnerResolves(t *testing.T) {
	ctx := context.Background()

	api := newSwapServer()
	alice := api.addUser("alice-token", "Alice")
	api.addUser("bob-token", "Bob")
	api.addUser("carol-token", "Carol")
	dune := api.addBook(alice, "Dune", "Frank Herbert")

	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	bobReqs := newManager(srv, "bob-token")
	carolReqs := newManager(srv, "carol-token")

	require.NoError(t, bobReqs.Create(ctx, dune.ID))
	id := bobReqs.Outgoing()[0].ID

	for _, m := range []*client.RequestManager{bobReqs, carolReqs} {
		err := m.Accept(ctx, id)
		require.Error(t, err)
		assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
	}
}

func TestOnlyRequesterCancels(t *testing.T) {
	ctx := context.Background()

	api := newSwapServer()
	alice := api.addUser("alice-token", "Alice")
	api.addUser("bob-token", "Bob")
	dune := api.addBook(alice, "Dune", "Frank Herbert")

	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	aliceReqs := newManager(srv, "alice-token")
	bobReqs := newManager(srv, "bob-token")

	require.NoError(t, bobReqs.Create(ctx, dune.ID))

	err := aliceReqs.Cancel(ctx, bobReqs.Outgoing()[0].ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
}

func TestFailedRefreshKeepsCachedViews(t *testing.T) {
	ctx := context.Background()

	api := newSwapServer()
	alice := api.addUser("alice-token", "Alice")
	api.addUser("bob-token", "Bob")
	dune := api.addBook(alice, "Dune", "Frank Herbert")

	srv := httptest.NewServer(api.handler())

	bobReqs := newManager(srv, "bob-token")
	require.NoError(t, bobReqs.Create(ctx, dune.ID))
	require.Len(t, bobReqs.Outgoing(), 1)

	srv.Close()

	err := bobReqs.Refresh(ctx)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNetwork, apperr.KindOf(err))

	// Stale views beat lost views
	assert.Len(t, bobReqs.Outgoing(), 1)
}
