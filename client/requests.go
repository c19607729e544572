package client

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RequestStatus mirrors the server-side state machine. A cancelled request
// has no status: it simply disappears from the views on the next refresh.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestDeclined RequestStatus = "declined"
)

type (
	Request struct {
		ID        uuid.UUID     `json:"id"`
		Status    RequestStatus `json:"status"`
		Book      RequestBook   `json:"book"`
		Requester BookOwner     `json:"requester"`
		CreatedAt time.Time     `json:"created_at"`
	}

	RequestBook struct {
		ID      uuid.UUID `json:"id"`
		Title   string    `json:"title"`
		Author  string    `json:"author"`
		Image   string    `json:"image,omitempty"`
		OwnerID uuid.UUID `json:"owner_id"`
	}

	requestViews struct {
		Incoming []Request `json:"incoming"`
		Outgoing []Request `json:"outgoing"`
	}

	// RequestManager drives the swap request lifecycle and caches the two
	// aggregate views. Views are derived state: every successful mutation
	// re-fetches both in full, and a failed mutation leaves the previous
	// views untouched.
	RequestManager struct {
		api *Client

		mu    sync.RWMutex
		views requestViews
	}
)

func NewRequestManager(api *Client) *RequestManager {
	return &RequestManager{api: api}
}

// Incoming returns the cached requests against the caller's own books.
func (m *RequestManager) Incoming() []Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Request(nil), m.views.Incoming...)
}

// Outgoing returns the cached requests the caller made.
func (m *RequestManager) Outgoing() []Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Request(nil), m.views.Outgoing...)
}

// Refresh re-fetches both views. The cache is only replaced on success.
func (m *RequestManager) Refresh(ctx context.Context) error {
	var views requestViews
	if err := m.api.get(ctx, "/requests", &views); err != nil {
		return err
	}

	m.mu.Lock()
	m.views = views
	m.mu.Unlock()
	return nil
}

// Create opens a pending request for a book the caller does not own.
func (m *RequestManager) Create(ctx context.Context, bookID uuid.UUID) error {
	if err := m.api.postJSON(ctx, "/books/"+bookID.String()+"/request", nil, nil); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// Accept resolves a pending incoming request. Owner only.
func (m *RequestManager) Accept(ctx context.Context, id uuid.UUID) error {
	return m.resolve(ctx, id, RequestAccepted)
}

// Decline resolves a pending incoming request. Owner only.
func (m *RequestManager) Decline(ctx context.Context, id uuid.UUID) error {
	return m.resolve(ctx, id, RequestDeclined)
}

func (m *RequestManager) resolve(ctx context.Context, id uuid.UUID, to RequestStatus) error {
	body := map[string]RequestStatus{"status": to}
	if err := m.api.patchJSON(ctx, "/requests/"+id.String(), body, nil); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// Cancel removes a pending outgoing request. Requester only.
func (m *RequestManager) Cancel(ctx context.Context, id uuid.UUID) error {
	if err := m.api.delete(ctx, "/requests/"+id.String()); err != nil {
		return err
	}
	return m.Refresh(ctx)
}
