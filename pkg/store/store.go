package store

import (
	"context"
	"errors"

	"github.com/goliatone/go-shelf/pkg/book"
)

// ErrMissingID is returned when the store answers a create without assigning
// an identifier.
var ErrMissingID = errors.New("store: created record has no identifier")

// Store is the four-operation contract the dashboard depends on.
type Store interface {
	List(ctx context.Context) ([]book.Book, error)
	Create(ctx context.Context, draft book.Draft) (book.Book, error)
	Update(ctx context.Context, id string, draft book.Draft) (book.Book, error)
	Delete(ctx context.Context, id string) error
}
