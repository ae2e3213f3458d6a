package mock

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-shelf/pkg/book"
)

func sequentialIDs() func() string {
	next := 0
	return func() string {
		next++
		return "id-" + strconv.Itoa(next)
	}
}

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := New(WithIDGenerator(sequentialIDs()))

	created, err := s.Create(ctx, book.Draft{Title: "Dune", Author: "Frank Herbert", Genre: "SF", PublishedYear: 1965, Status: book.StatusAvailable})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "id-1" {
		t.Fatalf("expected assigned id, got %q", created.ID)
	}

	draft := created.Draft()
	draft.Status = book.StatusIssued
	if _, err := s.Update(ctx, created.ID, draft); err != nil {
		t.Fatalf("update: %v", err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []book.Book{draft.WithID("id-1")}
	if diff := cmp.Diff(want, list); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d", s.Len())
	}
	if got := s.TotalCalls(); got != 5 {
		t.Fatalf("expected 5 calls, got %d", got)
	}
}

func TestStoreFailNext(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("boom")
	s.FailNext(OpList, boom)

	if _, err := s.List(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if _, err := s.List(ctx); err != nil {
		t.Fatalf("expected failure to be consumed, got %v", err)
	}
	if s.Calls(OpList) != 2 {
		t.Fatalf("expected 2 list calls, got %d", s.Calls(OpList))
	}
}

func TestSeedKeepsOrderAndSkipsAccounting(t *testing.T) {
	s := New(WithIDGenerator(sequentialIDs()))
	seeded := s.Seed(book.MustFixtures()...)

	if len(seeded) != 19 || seeded[0].ID != "id-1" {
		t.Fatalf("unexpected seed result: %d records, first id %q", len(seeded), seeded[0].ID)
	}
	if s.TotalCalls() != 0 {
		t.Fatalf("seed should not count as calls")
	}

	list, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list[18].Title != "War and Peace" {
		t.Fatalf("expected insertion order, last was %q", list[18].Title)
	}
}
