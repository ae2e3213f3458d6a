package dashboard

import (
	"context"
	"fmt"

	"github.com/goliatone/go-shelf/pkg/book"
	"github.com/goliatone/go-shelf/pkg/store"
)

// Patch transforms the collection after a successful mutation. Patches must
// not modify their input slice.
type Patch func([]book.Book) []book.Book

// Reconciler decides how the local collection catches up with a mutation the
// store has accepted. It runs outside the controller lock; the returned patch
// is applied under it.
type Reconciler interface {
	Created(ctx context.Context, s store.Store, created book.Book) (Patch, error)
	Updated(ctx context.Context, s store.Store, updated book.Book) (Patch, error)
	Deleted(ctx context.Context, s store.Store, id string) (Patch, error)
}

// LocalPatch appends, replaces or removes the affected record without another
// round trip.
type LocalPatch struct{}

var _ Reconciler = LocalPatch{}

func (LocalPatch) Created(_ context.Context, _ store.Store, created book.Book) (Patch, error) {
	return appendBook(created), nil
}

func (LocalPatch) Updated(_ context.Context, _ store.Store, updated book.Book) (Patch, error) {
	return replaceBook(updated), nil
}

func (LocalPatch) Deleted(_ context.Context, _ store.Store, id string) (Patch, error) {
	return removeBook(id), nil
}

// Refetch re-lists the collection after every mutation. When the re-list
// fails it falls back to the local patch and reports the list error.
type Refetch struct{}

var _ Reconciler = Refetch{}

func (Refetch) Created(ctx context.Context, s store.Store, created book.Book) (Patch, error) {
	return refetch(ctx, s, appendBook(created))
}

func (Refetch) Updated(ctx context.Context, s store.Store, updated book.Book) (Patch, error) {
	return refetch(ctx, s, replaceBook(updated))
}

func (Refetch) Deleted(ctx context.Context, s store.Store, id string) (Patch, error) {
	return refetch(ctx, s, removeBook(id))
}

func refetch(ctx context.Context, s store.Store, fallback Patch) (Patch, error) {
	books, err := s.List(ctx)
	if err != nil {
		return fallback, fmt.Errorf("dashboard: refetch: %w", err)
	}
	return func([]book.Book) []book.Book {
		return append([]book.Book(nil), books...)
	}, nil
}

func appendBook(created book.Book) Patch {
	return func(books []book.Book) []book.Book {
		out := make([]book.Book, 0, len(books)+1)
		out = append(out, books...)
		return append(out, created)
	}
}

func replaceBook(updated book.Book) Patch {
	return func(books []book.Book) []book.Book {
		out := make([]book.Book, len(books))
		for i, existing := range books {
			if existing.ID == updated.ID {
				existing = updated
			}
			out[i] = existing
		}
		return out
	}
}

func removeBook(id string) Patch {
	return func(books []book.Book) []book.Book {
		out := make([]book.Book, 0, len(books))
		for _, existing := range books {
			if existing.ID != id {
				out = append(out, existing)
			}
		}
		return out
	}
}
