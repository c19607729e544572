package client

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OwnerScope selects whose listings a catalog fetch returns.
type OwnerScope string

const (
	ScopeAll OwnerScope = "all"
	ScopeMe  OwnerScope = "me"
)

type (
	Book struct {
		ID          uuid.UUID  `json:"id"`
		Title       string     `json:"title"`
		Author      string     `json:"author"`
		Condition   string     `json:"condition"`
		Description string     `json:"description"`
		Image       string     `json:"image,omitempty"`
		OwnerID     uuid.UUID  `json:"owner_id"`
		Owner       *BookOwner `json:"owner,omitempty"`
		CreatedAt   time.Time  `json:"created_at"`
	}

	BookOwner struct {
		ID    uuid.UUID `json:"id"`
		Name  string    `json:"name"`
		Email string    `json:"email"`
	}

	BookFields struct {
		Title       string
		Author      string
		Condition   string
		Description string
	}

	BookUpdate struct {
		Title       *string `json:"title,omitempty"`
		Author      *string `json:"author,omitempty"`
		Condition   *string `json:"condition,omitempty"`
		Description *string `json:"description,omitempty"`
	}

	// ImageFile is an optional cover image attached to a new listing.
	ImageFile struct {
		Name   string
		Reader io.Reader
	}

	// Catalog provides CRUD access to book listings. Mutations are
	// owner-scoped server-side; the catalog just surfaces the result.
	Catalog struct {
		api *Client
	}
)

func NewCatalog(api *Client) *Catalog {
	return &Catalog{api: api}
}

// List fetches listings; ordering is whatever the server returned.
func (c *Catalog) List(ctx context.Context, scope OwnerScope) ([]Book, error) {
	path := "/books"
	if scope == ScopeMe {
		path += "?owner=me"
	}

	var books []Book
	if err := c.api.get(ctx, path, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (c *Catalog) Get(ctx context.Context, id uuid.UUID) (*Book, error) {
	book := new(Book)
	if err := c.api.get(ctx, "/books/"+id.String(), book); err != nil {
		return nil, err
	}
	return book, nil
}

// Create lists a new book owned by the caller. image may be nil.
func (c *Catalog) Create(ctx context.Context, fields BookFields, image *ImageFile) (*Book, error) {
	form := map[string]string{
		"title":       fields.Title,
		"author":      fields.Author,
		"condition":   fields.Condition,
		"description": fields.Description,
	}

	var filename string
	var reader io.Reader
	if image != nil {
		filename = image.Name
		reader = image.Reader
	}

	book := new(Book)
	if err := c.api.postMultipart(ctx, "/books", form, filename, reader, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (c *Catalog) Update(ctx context.Context, id uuid.UUID, update BookUpdate) (*Book, error) {
	book := new(Book)
	if err := c.api.patchJSON(ctx, "/books/"+id.String(), update, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (c *Catalog) Delete(ctx context.Context, id uuid.UUID) error {
	return c.api.delete(ctx, "/books/"+id.String())
}

// Search is a pure projection over an already-fetched list: it keeps books
// whose title or author contains the query, case-insensitively. It never
// round-trips to the server; recompute it whenever the list or the query
// changes.
func Search(books []Book, query string) []Book {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return books
	}

	matched := []Book{}
	for _, book := range books {
		if strings.Contains(strings.ToLower(book.Title), query) ||
			strings.Contains(strings.ToLower(book.Author), query) {
			matched = append(matched, book)
		}
	}
	return matched
}
