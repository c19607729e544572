package book

import (
	"time"

	"github.com/google/uuid"
)

// Condition grades the physical state of a listed book.
type Condition string

const (
	ConditionNew     Condition = "New"
	ConditionLikeNew Condition = "Like New"
	ConditionGood    Condition = "Good"
	ConditionFair    Condition = "Fair"
	ConditionPoor    Condition = "Poor"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

type (
	// Owner is the public view of the user who listed a book.
	Owner struct {
		ID    uuid.UUID `json:"id"`
		Name  string    `json:"name"`
		Email string    `json:"email"`
	}

	Book struct {
		ID          uuid.UUID `json:"id"`
		Title       string    `json:"title"`
		Author      string    `json:"author"`
		Condition   Condition `json:"condition"`
		Description string    `json:"description"`
		Image       string    `json:"image,omitempty"`
		OwnerID     uuid.UUID `json:"owner_id"`
		Owner       *Owner    `json:"owner,omitempty"`
		CreatedAt   time.Time `json:"created_at"`
		UpdatedAt   time.Time `json:"updated_at"`
	}

	CreateBookIn struct {
		Title       string
		Author      string
		Condition   Condition
		Description string
	}

	UpdateBookIn struct {
		Title       *string    `json:"title,omitempty"`
		Author      *string    `json:"author,omitempty"`
		Condition   *Condition `json:"condition,omitempty"`
		Description *string    `json:"description,omitempty"`
	}
)
