package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-shelf/pkg/book"
	"github.com/goliatone/go-shelf/pkg/form"
	"github.com/goliatone/go-shelf/pkg/notify"
	"github.com/goliatone/go-shelf/pkg/prompt"
	"github.com/goliatone/go-shelf/pkg/store"
)

// Notification texts.
const (
	MessageLoadFailed   = "Failed to load books"
	MessageCreated      = "Book added successfully!"
	MessageUpdated      = "Book updated successfully!"
	MessageSaveFailed   = "Failed to save book"
	MessageDeleted      = "Book deleted successfully!"
	MessageDeleteFailed = "Failed to delete book"
)

// Controller is the single owner of dashboard state. Its methods are safe for
// concurrent use; the lock is never held across a store call.
type Controller struct {
	store      store.Store
	reconciler Reconciler
	validator  *form.Validator
	notes      *notify.Center
	logger     *zap.Logger
	now        func() time.Time
	pageSize   int

	mu      sync.Mutex
	books   []book.Book
	loading bool
	filters Filters
	sort    Sort
	page    int
	seq     uint64

	form      *form.State
	formToken uint64
	formBusy  bool

	prompt      *prompt.State
	promptToken uint64
	promptBusy  bool
}

// New wires a controller around s. The collection starts empty; call Load to
// fetch it.
func New(s store.Store, opts ...Option) (*Controller, error) {
	if s == nil {
		return nil, errors.New("dashboard: store is required")
	}
	c := &Controller{
		store:      s,
		reconciler: LocalPatch{},
		logger:     zap.NewNop(),
		now:        time.Now,
		pageSize:   DefaultPageSize,
		page:       1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.validator == nil {
		v, err := form.NewValidator(form.WithClock(c.now))
		if err != nil {
			return nil, fmt.Errorf("dashboard: %w", err)
		}
		c.validator = v
	}
	if c.notes == nil {
		c.notes = notify.NewCenter(notify.WithClock(c.now))
	}
	c.logger = c.logger.Named("dashboard")
	return c, nil
}

// Validator exposes the form validator for per-field checks.
func (c *Controller) Validator() *form.Validator {
	return c.validator
}

// Load replaces the collection with the store's current list. A failure keeps
// the previous collection and raises an error notification.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return ErrBusy
	}
	c.loading = true
	c.mu.Unlock()

	books, err := c.store.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.logger.Error("load books", zap.String("op", "list"), zap.Error(err))
		c.notes.Error(MessageLoadFailed)
		return &Failure{Kind: LoadFailure, Op: "list", Err: err}
	}
	c.books = append([]book.Book(nil), books...)
	c.logger.Debug("books loaded", zap.Int("count", len(books)))
	return nil
}

// Loading reports whether a load is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Books returns a copy of the collection.
func (c *Controller) Books() []book.Book {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]book.Book(nil), c.books...)
}

// Book looks a record up by id.
func (c *Controller) Book(id string) (book.Book, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.findLocked(id)
}

// Filters returns the current filter inputs.
func (c *Controller) Filters() Filters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

// SetFilters replaces all filter inputs. The page returns to 1 when any of
// them changed.
func (c *Controller) SetFilters(f Filters) {
	c.updateFilters(func(current *Filters) { *current = f })
}

// SetSearch updates the search term.
func (c *Controller) SetSearch(term string) {
	c.updateFilters(func(f *Filters) { f.Search = term })
}

// SetGenre updates the genre filter.
func (c *Controller) SetGenre(genre string) {
	c.updateFilters(func(f *Filters) { f.Genre = genre })
}

// SetStatus updates the status filter.
func (c *Controller) SetStatus(status string) {
	c.updateFilters(func(f *Filters) { f.Status = status })
}

func (c *Controller) updateFilters(apply func(*Filters)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.filters
	apply(&next)
	if next != c.filters {
		c.filters = next
		c.page = 1
	}
}

// SetSort changes the row ordering. The page returns to 1 when it changed.
func (c *Controller) SetSort(s Sort) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s.Key == SortNone {
		s.Desc = false
	}
	if s != c.sort {
		c.sort = s
		c.page = 1
	}
}

// Filtered returns the sorted records matching the current filters.
func (c *Controller) Filtered() []book.Book {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filteredLocked()
}

// Page returns the current page, clamped to the filtered view.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPageLocked(len(c.filteredLocked()))
}

// GoToPage jumps to page n, clamped into [1, totalPages]. It returns the page
// that became current.
func (c *Controller) GoToPage(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := TotalPages(len(c.filteredLocked()), c.pageSize)
	c.page = ClampPage(n, total)
	return c.page
}

// NextPage advances one page, stopping at the last.
func (c *Controller) NextPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.filteredLocked())
	c.page = ClampPage(c.currentPageLocked(n)+1, TotalPages(n, c.pageSize))
	return c.page
}

// PrevPage goes back one page, stopping at the first.
func (c *Controller) PrevPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.filteredLocked())
	c.page = ClampPage(c.currentPageLocked(n)-1, TotalPages(n, c.pageSize))
	return c.page
}

// OpenCreate opens an empty form. A form or submission already open is
// superseded.
func (c *Controller) OpenCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := form.NewCreate()
	c.openFormLocked(&state)
}

// OpenEdit opens the form pre-populated with the record id.
func (c *Controller) OpenEdit(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.findLocked(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	state := form.NewEdit(b)
	c.openFormLocked(&state)
	return nil
}

// CancelForm discards the form without touching the store.
func (c *Controller) CancelForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeFormLocked()
}

// FormState returns the open form, if any.
func (c *Controller) FormState() (form.State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.form == nil {
		return form.State{}, false
	}
	return *c.form, true
}

// SubmitForm validates in and sends it to the store. Validation failures are
// recorded on the form and returned as *form.ValidationError without a store
// call. A store failure keeps the form open and returns a *Failure.
func (c *Controller) SubmitForm(ctx context.Context, in form.Input) error {
	c.mu.Lock()
	if c.form == nil {
		c.mu.Unlock()
		return ErrNotOpen
	}
	if c.formBusy {
		c.mu.Unlock()
		return ErrBusy
	}
	draft, err := c.validator.Validate(in)
	if err != nil {
		var verr *form.ValidationError
		if errors.As(err, &verr) {
			next := c.form.WithErrors(in, verr)
			c.form = &next
		}
		c.mu.Unlock()
		return err
	}
	next := c.form.WithErrors(in, nil)
	c.form = &next
	c.formBusy = true
	token := c.formToken
	state := *c.form
	c.mu.Unlock()

	var (
		op       = "create"
		saved    book.Book
		success  = MessageCreated
		storeErr error
	)
	if state.Editing() {
		op = "update"
		success = MessageUpdated
		saved, storeErr = c.store.Update(ctx, state.Target.ID, draft)
	} else {
		saved, storeErr = c.store.Create(ctx, draft)
	}

	var (
		patch     Patch
		reconcErr error
	)
	if storeErr == nil {
		if state.Editing() {
			patch, reconcErr = c.reconciler.Updated(ctx, c.store, saved)
		} else {
			patch, reconcErr = c.reconciler.Created(ctx, c.store, saved)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if patch != nil {
		c.books = patch(c.books)
	}
	if reconcErr != nil {
		c.logger.Warn("reconcile after save", zap.String("op", op), zap.Error(reconcErr))
	}

	current := c.form != nil && c.formToken == token
	if storeErr != nil {
		c.logger.Error("save book", zap.String("op", op), zap.String("id", state.Target.ID), zap.Error(storeErr))
		if current {
			c.formBusy = false
			c.notes.Error(MessageSaveFailed)
		} else {
			c.logger.Info("stale save response dropped", zap.String("op", op), zap.Uint64("token", token))
		}
		return &Failure{Kind: MutationFailure, Op: op, Err: storeErr}
	}

	if current {
		c.closeFormLocked()
		c.notes.Success(success)
	} else {
		c.logger.Info("stale save response dropped", zap.String("op", op), zap.Uint64("token", token))
	}
	return nil
}

// OpenDelete opens the confirmation prompt for the record id.
func (c *Controller) OpenDelete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.findLocked(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	state := prompt.New(b)
	c.prompt = &state
	c.promptToken = c.nextTokenLocked()
	c.promptBusy = false
	return nil
}

// CancelDelete closes the prompt without touching the store.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closePromptLocked()
}

// PromptState returns the open prompt, if any.
func (c *Controller) PromptState() (prompt.State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.prompt == nil {
		return prompt.State{}, false
	}
	return *c.prompt, true
}

// ConfirmDelete deletes the prompt's target. A failure keeps the prompt open
// and returns a *Failure.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if c.prompt == nil {
		c.mu.Unlock()
		return ErrNotOpen
	}
	if c.promptBusy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.promptBusy = true
	token := c.promptToken
	target := c.prompt.Target
	c.mu.Unlock()

	storeErr := c.store.Delete(ctx, target.ID)

	var (
		patch     Patch
		reconcErr error
	)
	if storeErr == nil {
		patch, reconcErr = c.reconciler.Deleted(ctx, c.store, target.ID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if patch != nil {
		c.books = patch(c.books)
	}
	if reconcErr != nil {
		c.logger.Warn("reconcile after delete", zap.Error(reconcErr))
	}

	current := c.prompt != nil && c.promptToken == token
	if storeErr != nil {
		c.logger.Error("delete book", zap.String("op", "delete"), zap.String("id", target.ID), zap.Error(storeErr))
		if current {
			c.promptBusy = false
			c.notes.Error(MessageDeleteFailed)
		} else {
			c.logger.Info("stale delete response dropped", zap.Uint64("token", token))
		}
		return &Failure{Kind: MutationFailure, Op: "delete", Err: storeErr}
	}

	if current {
		c.closePromptLocked()
		c.notes.Success(MessageDeleted)
	} else {
		c.logger.Info("stale delete response dropped", zap.Uint64("token", token))
	}
	return nil
}

// Notification returns the visible notification, if any.
func (c *Controller) Notification() (notify.Notification, bool) {
	return c.notes.Current()
}

// DismissNotification hides the notification id. Zero hides whatever is
// visible.
func (c *Controller) DismissNotification(id uint64) bool {
	return c.notes.Dismiss(id)
}

// View snapshots the state for rendering.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	filtered := c.filteredLocked()
	totalPages := TotalPages(len(filtered), c.pageSize)
	page := c.currentPageLocked(len(filtered))

	start := (page - 1) * c.pageSize
	end := start + c.pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	rows := []book.Book{}
	if start < end {
		rows = append(rows, filtered[start:end]...)
	}

	v := View{
		Loading:    c.loading,
		Rows:       rows,
		Total:      len(c.books),
		Filtered:   len(filtered),
		Page:       page,
		TotalPages: totalPages,
		PageSize:   c.pageSize,
		Pages:      PageWindow(page, totalPages, PageWindowSize),
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		Filters:    c.filters,
		Sort:       c.sort,
		Genres:     Genres(c.books),
		Statuses:   Statuses(c.books),
		FormBusy:   c.formBusy,
		PromptBusy: c.promptBusy,
	}
	if len(rows) > 0 {
		v.From = start + 1
		v.To = end
	}
	if c.form != nil {
		state := *c.form
		v.Form = &state
		v.FormModel = c.validator.Model()
	}
	if c.prompt != nil {
		state := *c.prompt
		v.Prompt = &state
	}
	if n, ok := c.notes.Current(); ok {
		v.Notification = &n
		v.NotificationRemaining = n.Remaining(c.notes.Now())
	}
	return v
}

func (c *Controller) filteredLocked() []book.Book {
	return c.sort.Apply(Filter(c.books, c.filters))
}

func (c *Controller) currentPageLocked(filtered int) int {
	return ClampPage(c.page, TotalPages(filtered, c.pageSize))
}

func (c *Controller) findLocked(id string) (book.Book, bool) {
	if id == "" {
		return book.Book{}, false
	}
	for _, b := range c.books {
		if b.ID == id {
			return b, true
		}
	}
	return book.Book{}, false
}

func (c *Controller) nextTokenLocked() uint64 {
	c.seq++
	return c.seq
}

func (c *Controller) openFormLocked(state *form.State) {
	c.form = state
	c.formToken = c.nextTokenLocked()
	c.formBusy = false
}

func (c *Controller) closeFormLocked() {
	c.form = nil
	c.formToken = c.nextTokenLocked()
	c.formBusy = false
}

func (c *Controller) closePromptLocked() {
	c.prompt = nil
	c.promptToken = c.nextTokenLocked()
	c.promptBusy = false
}
