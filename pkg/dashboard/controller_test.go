package dashboard

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-shelf/pkg/book"
	"github.com/goliatone/go-shelf/pkg/form"
	"github.com/goliatone/go-shelf/pkg/notify"
	"github.com/goliatone/go-shelf/pkg/store/mock"
)

var errBoom = errors.New("boom")

func testNow() time.Time {
	return time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("b%02d", n)
	}
}

// newFixtureController loads the 19-book fixture through a mock store.
func newFixtureController(t *testing.T, storeOpts []mock.Option, opts ...Option) (*Controller, *mock.Store) {
	t.Helper()
	s := mock.New(append([]mock.Option{mock.WithIDGenerator(sequentialIDs())}, storeOpts...)...)
	s.Seed(book.MustFixtures()...)

	c, err := New(s, append([]Option{WithClock(testNow)}, opts...)...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return c, s
}

func validInput() form.Input {
	return form.Input{
		Title:         "Dune",
		Author:        "Frank Herbert",
		Genre:         "Science Fiction",
		PublishedYear: "1965",
		Status:        "Available",
	}
}

func currentMessage(t *testing.T, c *Controller) notify.Notification {
	t.Helper()
	n, ok := c.Notification()
	if !ok {
		t.Fatalf("expected a notification")
	}
	return n
}

func TestNewRequiresStore(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatalf("expected error without store")
	}
}

func TestFixtureSearchScenario(t *testing.T) {
	c, _ := newFixtureController(t, nil)
	c.SetSearch("the")

	got := titles(c.Filtered())
	for _, want := range []string{
		"The Great Gatsby",
		"The Catcher in the Rye",
		"The Hobbit",
		"The Lord of the Rings",
		"The Chronicles of Narnia",
		"The Odyssey",
	} {
		if idx(got, want) < 0 {
			t.Errorf("search %q is missing %q", "the", want)
		}
	}
	if len(got) != 8 {
		t.Fatalf("expected 8 matches, got %d: %v", len(got), got)
	}
}

func TestFixtureGenreScenario(t *testing.T) {
	c, _ := newFixtureController(t, nil)
	c.SetGenre("Fantasy")

	want := []string{"The Hobbit", "The Lord of the Rings", "The Chronicles of Narnia"}
	if diff := cmp.Diff(want, titles(c.Filtered())); diff != "" {
		t.Fatalf("fantasy mismatch (-want +got):\n%s", diff)
	}

	c.SetStatus("Issued")
	if got := c.Filtered(); len(got) != 0 {
		t.Fatalf("no fantasy title is issued, got %v", titles(got))
	}
}

func TestPageResetsOnlyOnFilterChange(t *testing.T) {
	c, _ := newFixtureController(t, nil)

	if got := c.GoToPage(2); got != 2 {
		t.Fatalf("GoToPage(2) = %d", got)
	}
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := c.Page(); got != 2 {
		t.Fatalf("reload reset page to %d", got)
	}

	c.SetSearch("")
	if got := c.Page(); got != 2 {
		t.Fatalf("unchanged filter reset page to %d", got)
	}

	c.SetSearch("o")
	if got := c.Page(); got != 1 {
		t.Fatalf("filter change left page at %d", got)
	}

	c.GoToPage(2)
	c.SetSort(Sort{Key: SortYear})
	if got := c.Page(); got != 1 {
		t.Fatalf("sort change left page at %d", got)
	}
}

func TestPaginationClamps(t *testing.T) {
	c, _ := newFixtureController(t, nil)

	cases := []struct {
		name string
		move func() int
		want int
	}{
		{"jump past end", func() int { return c.GoToPage(9) }, 2},
		{"next at end", c.NextPage, 2},
		{"prev", c.PrevPage, 1},
		{"prev at start", c.PrevPage, 1},
		{"jump below start", func() int { return c.GoToPage(-3) }, 1},
		{"next", c.NextPage, 2},
	}
	for _, tc := range cases {
		if got := tc.move(); got != tc.want {
			t.Fatalf("%s: page = %d, want %d", tc.name, got, tc.want)
		}
	}

	c.SetSearch("no such book")
	v := c.View()
	if v.TotalPages != 1 || v.Page != 1 || len(v.Rows) != 0 || !v.Empty() {
		t.Fatalf("unexpected empty view: %+v", v)
	}
}

func TestViewSnapshot(t *testing.T) {
	c, _ := newFixtureController(t, nil)
	c.GoToPage(2)

	v := c.View()
	if len(v.Rows) != 9 || v.Rows[0].Title != "Brave New World" {
		t.Fatalf("unexpected second page: %v", titles(v.Rows))
	}
	if got := v.RangeLabel(); got != "Showing 11 to 19 of 19 results" {
		t.Fatalf("range label = %q", got)
	}
	if got := v.CountLabel(); got != "Showing 19 of 19 books" {
		t.Fatalf("count label = %q", got)
	}
	if diff := cmp.Diff([]int{1, 2}, v.Pages); diff != "" {
		t.Fatalf("pages mismatch (-want +got):\n%s", diff)
	}
	if !v.HasPrev || v.HasNext {
		t.Fatalf("unexpected prev/next flags: %v %v", v.HasPrev, v.HasNext)
	}
	wantGenres := []string{"Adventure", "Dystopian", "Epic", "Fantasy", "Fiction", "Historical", "Political Satire", "Romance", "Science Fiction"}
	if diff := cmp.Diff(wantGenres, v.Genres); diff != "" {
		t.Fatalf("genres mismatch (-want +got):\n%s", diff)
	}
	if v.Form != nil || v.Prompt != nil || v.Notification != nil || v.Loading {
		t.Fatalf("unexpected modal state in fresh view: %+v", v)
	}
}

func TestCreateAppendsStoreRecord(t *testing.T) {
	c, s := newFixtureController(t, nil)

	c.OpenCreate()
	if err := c.SubmitForm(context.Background(), validInput()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	books := c.Books()
	if len(books) != 20 {
		t.Fatalf("expected 20 books, got %d", len(books))
	}
	want := book.Book{ID: "b20", Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", PublishedYear: 1965, Status: book.StatusAvailable}
	if diff := cmp.Diff(want, books[19]); diff != "" {
		t.Fatalf("created record mismatch (-want +got):\n%s", diff)
	}
	if _, open := c.FormState(); open {
		t.Fatalf("form should close after a successful save")
	}
	if n := currentMessage(t, c); n.Message != MessageCreated || n.Severity != notify.SeveritySuccess {
		t.Fatalf("unexpected notification %+v", n)
	}
	if s.Calls(mock.OpCreate) != 1 {
		t.Fatalf("expected one create call, got %d", s.Calls(mock.OpCreate))
	}
}

func TestUpdateReplacesInPlace(t *testing.T) {
	c, _ := newFixtureController(t, nil)
	before := c.Books()
	target := before[2]

	if err := c.OpenEdit(target.ID); err != nil {
		t.Fatalf("open edit: %v", err)
	}
	state, _ := c.FormState()
	if state.Input.Title != "1984" || state.Input.PublishedYear != "1949" {
		t.Fatalf("edit form not pre-populated: %+v", state.Input)
	}

	in := state.Input
	in.Title = "Nineteen Eighty-Four"
	in.Status = "Issued"
	if err := c.SubmitForm(context.Background(), in); err != nil {
		t.Fatalf("submit: %v", err)
	}

	after := c.Books()
	if len(after) != len(before) {
		t.Fatalf("update changed collection size: %d -> %d", len(before), len(after))
	}
	want := book.Book{ID: target.ID, Title: "Nineteen Eighty-Four", Author: "George Orwell", Genre: "Dystopian", PublishedYear: 1949, Status: book.StatusIssued}
	if diff := cmp.Diff(want, after[2]); diff != "" {
		t.Fatalf("updated record mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(before[3:], after[3:]); diff != "" {
		t.Fatalf("other records changed (-want +got):\n%s", diff)
	}
	if n := currentMessage(t, c); n.Message != MessageUpdated {
		t.Fatalf("unexpected notification %+v", n)
	}
}

func TestDeleteRemovesRecord(t *testing.T) {
	c, s := newFixtureController(t, nil)
	target := c.Books()[6]

	if err := c.OpenDelete(target.ID); err != nil {
		t.Fatalf("open delete: %v", err)
	}
	p, _ := c.PromptState()
	if p.Message() != `Are you sure you want to delete "The Hobbit"? This action cannot be undone.` {
		t.Fatalf("prompt message = %q", p.Message())
	}
	if err := c.ConfirmDelete(context.Background()); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if _, ok := c.Book(target.ID); ok {
		t.Fatalf("deleted record still present")
	}
	if got := len(c.Books()); got != 18 {
		t.Fatalf("expected 18 books, got %d", got)
	}
	if _, open := c.PromptState(); open {
		t.Fatalf("prompt should close after delete")
	}
	if n := currentMessage(t, c); n.Message != MessageDeleted {
		t.Fatalf("unexpected notification %+v", n)
	}
	if s.Len() != 18 {
		t.Fatalf("store still holds %d records", s.Len())
	}
}

func TestFutureYearRejectedWithoutNetwork(t *testing.T) {
	c, s := newFixtureController(t, nil)
	calls := s.TotalCalls()

	c.OpenCreate()
	in := validInput()
	in.PublishedYear = "3000"
	err := c.SubmitForm(context.Background(), in)

	var verr *form.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if s.TotalCalls() != calls {
		t.Fatalf("validation failure reached the store")
	}
	state, open := c.FormState()
	if !open || state.Error(form.FieldPublishedYear) != form.MessageYearInvalid {
		t.Fatalf("form should stay open with the year error: %+v", state)
	}
	if state.Input.PublishedYear != "3000" {
		t.Fatalf("form lost the submitted input: %+v", state.Input)
	}
}

func TestCancelPerformsNoNetworkCall(t *testing.T) {
	c, s := newFixtureController(t, nil)
	calls := s.TotalCalls()
	target := c.Books()[0]

	if err := c.OpenDelete(target.ID); err != nil {
		t.Fatalf("open delete: %v", err)
	}
	c.CancelDelete()
	c.OpenCreate()
	c.CancelForm()

	if s.TotalCalls() != calls {
		t.Fatalf("cancel issued %d store calls", s.TotalCalls()-calls)
	}
	if len(c.Books()) != 19 {
		t.Fatalf("cancel changed the collection")
	}
	if _, ok := c.Notification(); ok {
		t.Fatalf("cancel raised a notification")
	}
}

func TestMutationFailureKeepsModalOpen(t *testing.T) {
	c, s := newFixtureController(t, nil)

	c.OpenCreate()
	s.FailNext(mock.OpCreate, errBoom)
	err := c.SubmitForm(context.Background(), validInput())
	if !IsFailure(err, MutationFailure) || !errors.Is(err, errBoom) {
		t.Fatalf("expected mutation failure wrapping boom, got %v", err)
	}
	if _, open := c.FormState(); !open {
		t.Fatalf("form closed after a failed save")
	}
	if v := c.View(); v.FormBusy {
		t.Fatalf("busy flag left set after failure")
	}
	if n := currentMessage(t, c); n.Message != MessageSaveFailed || n.Severity != notify.SeverityError {
		t.Fatalf("unexpected notification %+v", n)
	}
	if len(c.Books()) != 19 {
		t.Fatalf("failed save changed the collection")
	}

	target := c.Books()[0]
	if err := c.OpenDelete(target.ID); err != nil {
		t.Fatalf("open delete: %v", err)
	}
	s.FailNext(mock.OpDelete, errBoom)
	if err := c.ConfirmDelete(context.Background()); !IsFailure(err, MutationFailure) {
		t.Fatalf("expected mutation failure, got %v", err)
	}
	if _, open := c.PromptState(); !open {
		t.Fatalf("prompt closed after a failed delete")
	}
	if n := currentMessage(t, c); n.Message != MessageDeleteFailed {
		t.Fatalf("unexpected notification %+v", n)
	}
	if _, ok := c.Book(target.ID); !ok {
		t.Fatalf("failed delete removed the record")
	}
}

func TestLoadFailureKeepsCollection(t *testing.T) {
	c, s := newFixtureController(t, nil)

	s.FailNext(mock.OpList, errBoom)
	err := c.Load(context.Background())
	if !IsFailure(err, LoadFailure) {
		t.Fatalf("expected load failure, got %v", err)
	}
	if len(c.Books()) != 19 {
		t.Fatalf("failed load dropped the collection")
	}
	if c.Loading() {
		t.Fatalf("loading flag left set")
	}
	if n := currentMessage(t, c); n.Message != MessageLoadFailed {
		t.Fatalf("unexpected notification %+v", n)
	}
}

func TestModalActionsRequireOpenModal(t *testing.T) {
	c, _ := newFixtureController(t, nil)

	if err := c.SubmitForm(context.Background(), validInput()); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("submit without form: %v", err)
	}
	if err := c.ConfirmDelete(context.Background()); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("confirm without prompt: %v", err)
	}
	if err := c.OpenEdit("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("edit unknown id: %v", err)
	}
	if err := c.OpenDelete(""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete empty id: %v", err)
	}
}

func TestBusyRegionsAreIndependent(t *testing.T) {
	var (
		c          *Controller
		duplicate  error
		openedForm bool
	)
	hook := func(op mock.Op) {
		if c == nil {
			return
		}
		switch op {
		case mock.OpCreate:
			duplicate = c.SubmitForm(context.Background(), validInput())
		case mock.OpDelete:
			c.OpenCreate()
			_, openedForm = c.FormState()
			if v := c.View(); !v.PromptBusy || v.FormBusy {
				t.Errorf("unexpected busy flags during delete: prompt=%v form=%v", v.PromptBusy, v.FormBusy)
			}
		}
	}
	fixture, s := newFixtureController(t, []mock.Option{mock.WithCallHook(hook)})
	c = fixture

	c.OpenCreate()
	if err := c.SubmitForm(context.Background(), validInput()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !errors.Is(duplicate, ErrBusy) {
		t.Fatalf("duplicate submit returned %v, want ErrBusy", duplicate)
	}
	if s.Calls(mock.OpCreate) != 1 {
		t.Fatalf("duplicate submit reached the store")
	}

	if err := c.OpenDelete(c.Books()[0].ID); err != nil {
		t.Fatalf("open delete: %v", err)
	}
	if err := c.ConfirmDelete(context.Background()); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !openedForm {
		t.Fatalf("pending delete blocked opening the form")
	}
	if _, open := c.FormState(); !open {
		t.Fatalf("form opened during delete should remain open")
	}
}

func TestStaleResponseOnlyPatchesCollection(t *testing.T) {
	var c *Controller
	hook := func(op mock.Op) {
		if c != nil && op == mock.OpCreate {
			c.CancelForm()
			c.OpenCreate()
		}
	}
	fixture, _ := newFixtureController(t, []mock.Option{mock.WithCallHook(hook)})
	c = fixture

	c.OpenCreate()
	if err := c.SubmitForm(context.Background(), validInput()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if got := len(c.Books()); got != 20 {
		t.Fatalf("stale response must still patch the collection, got %d books", got)
	}
	state, open := c.FormState()
	if !open || state.Editing() || state.Input.Title != "" {
		t.Fatalf("replacement form was touched by the stale response: %+v", state)
	}
	if v := c.View(); v.FormBusy {
		t.Fatalf("replacement form inherited the busy flag")
	}
	if _, ok := c.Notification(); ok {
		t.Fatalf("stale response raised a notification")
	}
}

func TestConcurrentLoadIsRejected(t *testing.T) {
	var (
		c     *Controller
		armed bool
		inner error
	)
	hook := func(op mock.Op) {
		if armed && op == mock.OpList {
			armed = false
			inner = c.Load(context.Background())
		}
	}
	fixture, _ := newFixtureController(t, []mock.Option{mock.WithCallHook(hook)})
	c = fixture

	armed = true
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !errors.Is(inner, ErrBusy) {
		t.Fatalf("overlapping load returned %v, want ErrBusy", inner)
	}
}

func TestRefetchReconciler(t *testing.T) {
	c, s := newFixtureController(t, nil, WithReconciler(Refetch{}))

	c.OpenCreate()
	if err := c.SubmitForm(context.Background(), validInput()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := s.Calls(mock.OpList); got != 2 {
		t.Fatalf("expected a re-list after create, got %d list calls", got)
	}

	listed, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if diff := cmp.Diff(listed, c.Books()); diff != "" {
		t.Fatalf("collection differs from store (-want +got):\n%s", diff)
	}

	target := c.Books()[0]
	if err := c.OpenDelete(target.ID); err != nil {
		t.Fatalf("open delete: %v", err)
	}
	s.FailNext(mock.OpList, errBoom)
	if err := c.ConfirmDelete(context.Background()); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, ok := c.Book(target.ID); ok {
		t.Fatalf("failed re-list should fall back to the local patch")
	}
}

func TestNotificationDismiss(t *testing.T) {
	c, s := newFixtureController(t, nil)
	s.FailNext(mock.OpList, errBoom)
	_ = c.Load(context.Background())

	first := currentMessage(t, c)
	c.OpenCreate()
	if err := c.SubmitForm(context.Background(), validInput()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if c.DismissNotification(first.ID) {
		t.Fatalf("dismissing a replaced notification must be a no-op")
	}
	second := currentMessage(t, c)
	if !c.DismissNotification(second.ID) {
		t.Fatalf("dismiss failed")
	}
	if _, ok := c.Notification(); ok {
		t.Fatalf("notification still visible")
	}
}
