package dashboard

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-shelf/pkg/book"
)

func titles(books []book.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}

func TestFiltersConjunction(t *testing.T) {
	books := []book.Book{
		{ID: "1", Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", Status: book.StatusAvailable},
		{ID: "2", Title: "Emma", Author: "Jane Austen", Genre: "Romance", Status: book.StatusIssued},
		{ID: "3", Title: "Persuasion", Author: "Jane Austen", Genre: "Romance", Status: book.StatusAvailable},
	}

	cases := map[string]struct {
		filters Filters
		want    []string
	}{
		"empty matches all":     {filters: Filters{}, want: []string{"Dune", "Emma", "Persuasion"}},
		"search on author":      {filters: Filters{Search: "AUSTEN"}, want: []string{"Emma", "Persuasion"}},
		"search on title":       {filters: Filters{Search: "un"}, want: []string{"Dune"}},
		"search and status":     {filters: Filters{Search: "jane", Status: "Available"}, want: []string{"Persuasion"}},
		"genre and status":      {filters: Filters{Genre: "Romance", Status: "Issued"}, want: []string{"Emma"}},
		"genre is exact":        {filters: Filters{Genre: "romance"}, want: []string{}},
		"all three, no overlap": {filters: Filters{Search: "dune", Genre: "Romance", Status: "Available"}, want: []string{}},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := titles(Filter(books, tc.filters))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("filter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTotalPagesAndClamp(t *testing.T) {
	cases := []struct {
		n, want int
	}{
		{0, 1}, {1, 1}, {10, 1}, {11, 2}, {19, 2}, {20, 2}, {21, 3},
	}
	for _, tc := range cases {
		if got := TotalPages(tc.n, DefaultPageSize); got != tc.want {
			t.Errorf("TotalPages(%d) = %d, want %d", tc.n, got, tc.want)
		}
	}

	if got := ClampPage(0, 2); got != 1 {
		t.Errorf("ClampPage(0, 2) = %d", got)
	}
	if got := ClampPage(7, 2); got != 2 {
		t.Errorf("ClampPage(7, 2) = %d", got)
	}
	if got := ClampPage(3, 0); got != 1 {
		t.Errorf("ClampPage(3, 0) = %d", got)
	}
}

func TestPageWindow(t *testing.T) {
	cases := []struct {
		current, total int
		want           []int
	}{
		{1, 1, []int{1}},
		{1, 3, []int{1, 2, 3}},
		{1, 10, []int{1, 2, 3, 4, 5}},
		{2, 10, []int{1, 2, 3, 4, 5}},
		{5, 10, []int{3, 4, 5, 6, 7}},
		{9, 10, []int{6, 7, 8, 9, 10}},
		{10, 10, []int{6, 7, 8, 9, 10}},
	}
	for _, tc := range cases {
		got := PageWindow(tc.current, tc.total, PageWindowSize)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("PageWindow(%d, %d) mismatch (-want +got):\n%s", tc.current, tc.total, diff)
		}
	}
}

func TestSortIsStable(t *testing.T) {
	books := book.MustFixtures()
	records := make([]book.Book, len(books))
	for i, d := range books {
		records[i] = d.WithID(string(rune('a' + i)))
	}

	byYear := titles(Sort{Key: SortYear}.Apply(records))
	if byYear[0] != "The Odyssey" {
		t.Fatalf("oldest first, got %q", byYear[0])
	}
	if idx(byYear, "Jane Eyre") > idx(byYear, "Wuthering Heights") {
		t.Fatalf("equal years must keep collection order: %v", byYear)
	}

	desc := titles(Sort{Key: SortYear, Desc: true}.Apply(records))
	if desc[0] != "To Kill a Mockingbird" {
		t.Fatalf("newest first, got %q", desc[0])
	}
	if idx(desc, "Lord of the Flies") > idx(desc, "The Lord of the Rings") {
		t.Fatalf("descending sort must stay stable: %v", desc)
	}

	byTitle := titles(Sort{Key: SortTitle}.Apply(records))
	if byTitle[0] != "1984" || byTitle[len(byTitle)-1] != "Wuthering Heights" {
		t.Fatalf("unexpected title order: %v", byTitle)
	}

	unsorted := titles(Sort{}.Apply(records))
	if diff := cmp.Diff(titles(records), unsorted); diff != "" {
		t.Fatalf("zero sort must keep order (-want +got):\n%s", diff)
	}
}

func TestParseSortKey(t *testing.T) {
	cases := map[string]SortKey{
		"":              SortNone,
		"Title":         SortTitle,
		" year ":        SortYear,
		"publishedYear": SortYear,
		"status":        SortStatus,
	}
	for raw, want := range cases {
		got, ok := ParseSortKey(raw)
		if !ok || got != want {
			t.Errorf("ParseSortKey(%q) = %q, %v", raw, got, ok)
		}
	}
	if _, ok := ParseSortKey("isbn"); ok {
		t.Errorf("unknown key accepted")
	}
}

func TestDerivedOptions(t *testing.T) {
	books := []book.Book{
		{Genre: "Romance", Status: book.StatusIssued},
		{Genre: "Fantasy", Status: book.StatusAvailable},
		{Genre: "Romance", Status: book.StatusAvailable},
		{Genre: ""},
	}
	if diff := cmp.Diff([]string{"Fantasy", "Romance"}, Genres(books)); diff != "" {
		t.Fatalf("genres mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Available", "Issued"}, Statuses(books)); diff != "" {
		t.Fatalf("statuses mismatch (-want +got):\n%s", diff)
	}
}

func idx(values []string, target string) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return -1
}
