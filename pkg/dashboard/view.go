package dashboard

import (
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-shelf/pkg/book"
	"github.com/goliatone/go-shelf/pkg/form"
	"github.com/goliatone/go-shelf/pkg/model"
	"github.com/goliatone/go-shelf/pkg/notify"
	"github.com/goliatone/go-shelf/pkg/prompt"
)

// DefaultPageSize is the number of rows per page.
const DefaultPageSize = 10

// PageWindowSize is the number of page buttons offered at once.
const PageWindowSize = 5

// Filters are the three list inputs. Empty values match everything.
type Filters struct {
	Search string
	Genre  string
	Status string
}

// Matches reports whether b passes every filter: the search term is a
// case-insensitive substring of the title or the author, and genre and status
// match exactly.
func (f Filters) Matches(b book.Book) bool {
	if term := strings.ToLower(f.Search); term != "" {
		if !strings.Contains(strings.ToLower(b.Title), term) && !strings.Contains(strings.ToLower(b.Author), term) {
			return false
		}
	}
	if f.Genre != "" && b.Genre != f.Genre {
		return false
	}
	if f.Status != "" && string(b.Status) != f.Status {
		return false
	}
	return true
}

// Active reports whether any filter is set.
func (f Filters) Active() bool {
	return f.Search != "" || f.Genre != "" || f.Status != ""
}

// Filter returns the records matching f, in collection order.
func Filter(books []book.Book, f Filters) []book.Book {
	out := make([]book.Book, 0, len(books))
	for _, b := range books {
		if f.Matches(b) {
			out = append(out, b)
		}
	}
	return out
}

// SortKey selects the column rows are ordered by.
type SortKey string

const (
	SortNone   SortKey = ""
	SortTitle  SortKey = "title"
	SortAuthor SortKey = "author"
	SortGenre  SortKey = "genre"
	SortYear   SortKey = "year"
	SortStatus SortKey = "status"
)

// SortKeys lists the selectable keys.
func SortKeys() []SortKey {
	return []SortKey{SortTitle, SortAuthor, SortGenre, SortYear, SortStatus}
}

// ParseSortKey maps a query value onto a SortKey. Unknown values yield
// SortNone and false.
func ParseSortKey(raw string) (SortKey, bool) {
	key := SortKey(strings.ToLower(strings.TrimSpace(raw)))
	switch key {
	case SortNone, SortTitle, SortAuthor, SortGenre, SortYear, SortStatus:
		return key, true
	case "publishedyear":
		return SortYear, true
	default:
		return SortNone, false
	}
}

// Sort is the ordering applied after filtering. The zero value keeps
// collection order.
type Sort struct {
	Key  SortKey
	Desc bool
}

// Apply returns a sorted copy of books. Ties keep collection order.
func (s Sort) Apply(books []book.Book) []book.Book {
	out := append([]book.Book(nil), books...)
	if s.Key == SortNone {
		return out
	}
	compare := func(a, b book.Book) int {
		var c int
		switch s.Key {
		case SortYear:
			c = a.PublishedYear - b.PublishedYear
		case SortAuthor:
			c = strings.Compare(strings.ToLower(a.Author), strings.ToLower(b.Author))
		case SortGenre:
			c = strings.Compare(strings.ToLower(a.Genre), strings.ToLower(b.Genre))
		case SortStatus:
			c = strings.Compare(string(a.Status), string(b.Status))
		default:
			c = strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
		if s.Desc {
			return -c
		}
		return c
	}
	slices.SortStableFunc(out, compare)
	return out
}

// TotalPages is max(1, ceil(n/size)).
func TotalPages(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := (n + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage moves page into [1, total].
func ClampPage(page, total int) int {
	if total < 1 {
		total = 1
	}
	switch {
	case page < 1:
		return 1
	case page > total:
		return total
	default:
		return page
	}
}

// PageWindow returns up to width consecutive page numbers around current:
// centred where possible and shifted to stay inside [1, total].
func PageWindow(current, total, width int) []int {
	if total < 1 || width < 1 {
		return nil
	}
	start := current - width/2
	if start < 1 {
		start = 1
	}
	end := start + width - 1
	if end > total {
		end = total
	}
	if end-start+1 < width {
		start = end - width + 1
		if start < 1 {
			start = 1
		}
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// Genres returns the distinct, sorted genres present in books.
func Genres(books []book.Book) []string {
	return distinct(books, func(b book.Book) string { return b.Genre })
}

// Statuses returns the distinct, sorted statuses present in books.
func Statuses(books []book.Book) []string {
	return distinct(books, func(b book.Book) string { return string(b.Status) })
}

func distinct(books []book.Book, value func(book.Book) string) []string {
	seen := make(map[string]struct{}, len(books))
	out := make([]string, 0)
	for _, b := range books {
		v := value(b)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// View is a snapshot of everything a renderer needs for one frame.
type View struct {
	Loading bool
	Rows    []book.Book

	Total    int
	Filtered int
	From     int
	To       int

	Page       int
	TotalPages int
	PageSize   int
	Pages      []int
	HasPrev    bool
	HasNext    bool

	Filters  Filters
	Sort     Sort
	Genres   []string
	Statuses []string

	Form       *form.State
	FormModel  model.FormModel
	FormBusy   bool
	Prompt     *prompt.State
	PromptBusy bool

	Notification          *notify.Notification
	NotificationRemaining time.Duration
}

// RangeLabel reads "Showing X to Y of N results".
func (v View) RangeLabel() string {
	return "Showing " + strconv.Itoa(v.From) + " to " + strconv.Itoa(v.To) + " of " + strconv.Itoa(v.Filtered) + " results"
}

// CountLabel reads "Showing F of T books".
func (v View) CountLabel() string {
	return "Showing " + strconv.Itoa(v.Filtered) + " of " + strconv.Itoa(v.Total) + " books"
}

// Empty reports whether no row matches the current filters.
func (v View) Empty() bool {
	return !v.Loading && v.Filtered == 0
}
