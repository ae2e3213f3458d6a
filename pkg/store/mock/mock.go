package mock

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-shelf/pkg/book"
	"github.com/goliatone/go-shelf/pkg/store"
)

// ErrNotFound is returned for updates or deletes of unknown identifiers.
var ErrNotFound = errors.New("mock store: record not found")

// Op names a store operation for call accounting and failure injection.
type Op string

const (
	OpList   Op = "list"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Store is an in-memory store.Store that assigns identifiers the way the
// hosted store does. It keeps insertion order, counts calls per operation and
// can be primed to fail upcoming calls.
type Store struct {
	mu       sync.Mutex
	order    []string
	records  map[string]book.Book
	calls    map[Op]int
	failures map[Op][]error
	newID    func() string
	hook     func(Op)
}

var _ store.Store = (*Store)(nil)

// Option configures the mock instance.
type Option func(*Store)

// WithIDGenerator overrides identifier assignment (useful for stable tests).
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithCallHook registers a function invoked at the start of every call,
// before the lock is taken. Tests use it to interleave controller actions
// with an in-flight request.
func WithCallHook(fn func(Op)) Option {
	return func(s *Store) {
		s.hook = fn
	}
}

// New creates an empty mock store.
func New(opts ...Option) *Store {
	s := &Store{
		records:  make(map[string]book.Book),
		calls:    make(map[Op]int),
		failures: make(map[Op][]error),
		newID: func() string {
			return uuid.NewString()
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Seed inserts drafts directly, bypassing call accounting, and returns the
// stored records.
func (s *Store) Seed(drafts ...book.Draft) []book.Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]book.Book, 0, len(drafts))
	for _, draft := range drafts {
		out = append(out, s.insertLocked(draft))
	}
	return out
}

// FailNext makes the next call of op return err. Calls queue in order.
func (s *Store) FailNext(op Op, err error) {
	if err == nil {
		err = fmt.Errorf("mock store: injected %s failure", op)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = append(s.failures[op], err)
}

// Calls reports how many times op was invoked.
func (s *Store) Calls(op Op) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// TotalCalls reports the number of calls across every operation.
func (s *Store) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// Len reports the number of stored records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

func (s *Store) List(ctx context.Context) ([]book.Book, error) {
	if err := s.begin(ctx, OpList); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]book.Book, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, draft book.Draft) (book.Book, error) {
	if err := s.begin(ctx, OpCreate); err != nil {
		return book.Book{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(draft), nil
}

func (s *Store) Update(ctx context.Context, id string, draft book.Draft) (book.Book, error) {
	if err := s.begin(ctx, OpUpdate); err != nil {
		return book.Book{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return book.Book{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	updated := draft.WithID(id)
	s.records[id] = updated
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.begin(ctx, OpDelete); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.records, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) begin(ctx context.Context, op Op) error {
	if s.hook != nil {
		s.hook(op)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls[op]++
	if err := ctx.Err(); err != nil {
		return err
	}
	if queued := s.failures[op]; len(queued) > 0 {
		s.failures[op] = queued[1:]
		return queued[0]
	}
	return nil
}

func (s *Store) insertLocked(draft book.Draft) book.Book {
	id := s.newID()
	for {
		if _, exists := s.records[id]; !exists {
			break
		}
		id = s.newID()
	}
	record := draft.WithID(id)
	s.records[id] = record
	s.order = append(s.order, id)
	return record
}
