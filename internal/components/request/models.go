package request

import (
	"time"

	"github.com/google/uuid"
)

// Status of a swap request. Transitions are one-way: pending may become
// accepted or declined, nothing else moves. Cancellation is not a status;
// a cancelled request is deleted.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusDeclined
}

type (
	// BookSummary is the slice of the referenced book embedded in request
	// views.
	BookSummary struct {
		ID      uuid.UUID `json:"id"`
		Title   string    `json:"title"`
		Author  string    `json:"author"`
		Image   string    `json:"image,omitempty"`
		OwnerID uuid.UUID `json:"owner_id"`
	}

	Requester struct {
		ID    uuid.UUID `json:"id"`
		Name  string    `json:"name"`
		Email string    `json:"email"`
	}

	Request struct {
		ID        uuid.UUID   `json:"id"`
		Status    Status      `json:"status"`
		Book      BookSummary `json:"book"`
		Requester Requester   `json:"requester"`
		CreatedAt time.Time   `json:"created_at"`
	}

	// Views are the two aggregate lists a user sees: requests against their
	// own books, and requests they made.
	Views struct {
		Incoming []Request `json:"incoming"`
		Outgoing []Request `json:"outgoing"`
	}

	UpdateIn struct {
		Status Status `json:"status"`
	}
)
