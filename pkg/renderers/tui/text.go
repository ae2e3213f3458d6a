package tui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/goliatone/go-shelf/pkg/book"
	"github.com/goliatone/go-shelf/pkg/dashboard"
	"github.com/goliatone/go-shelf/pkg/render"
)

const defaultHeading = "Book Management Dashboard"

// TextRenderer prints a dashboard View as a plain text frame. It backs the
// terminal session and the web handler's ?format=text.
type TextRenderer struct{}

var _ render.Renderer = TextRenderer{}

// Name reports the renderer identifier.
func (TextRenderer) Name() string {
	return "text"
}

// ContentType reports the produced media type.
func (TextRenderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render writes heading, filters, the current page table, pager and any open
// dialog or notification.
func (TextRenderer) Render(ctx context.Context, view dashboard.View, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer

	heading := opts.Title
	if heading == "" {
		heading = defaultHeading
	}
	fmt.Fprintln(&buf, heading)
	fmt.Fprintln(&buf, strings.Repeat("=", len(heading)))

	if n := view.Notification; n != nil {
		fmt.Fprintf(&buf, "[%s] %s\n", strings.ToUpper(string(n.Severity)), n.Message)
	}

	if view.Filters.Active() || view.Sort.Key != dashboard.SortNone {
		fmt.Fprintln(&buf, filterLine(view))
	}
	fmt.Fprintln(&buf, view.CountLabel())
	fmt.Fprintln(&buf)

	switch {
	case view.Loading:
		fmt.Fprintln(&buf, "Loading books...")
	case view.Empty():
		fmt.Fprintln(&buf, "No books found")
	default:
		if err := writeTable(&buf, view.Rows); err != nil {
			return nil, fmt.Errorf("tui: write table: %w", err)
		}
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "%s (page %d of %d)\n", view.RangeLabel(), view.Page, view.TotalPages)
	}

	if view.Form != nil {
		formHeading := view.FormModel.Metadata["titleCreate"]
		if view.Form.Editing() {
			formHeading = view.FormModel.Metadata["titleEdit"]
		}
		fmt.Fprintf(&buf, "\n> %s\n", formHeading)
		if view.FormBusy {
			fmt.Fprintln(&buf, "  Saving...")
		}
		for _, name := range sortedErrorFields(view) {
			fmt.Fprintf(&buf, "  %s: %s\n", name, view.Form.Errors[name])
		}
	}
	if view.Prompt != nil {
		fmt.Fprintf(&buf, "\n> %s\n  %s\n", view.Prompt.Title(), view.Prompt.Message())
	}
	return buf.Bytes(), nil
}

func writeTable(buf *bytes.Buffer, rows []book.Book) error {
	w := tabwriter.NewWriter(buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTITLE\tAUTHOR\tGENRE\tYEAR\tSTATUS")
	for i, b := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, b.Title, b.Author, b.Genre, book.FormatYear(b.PublishedYear), b.Status)
	}
	return w.Flush()
}

func filterLine(view dashboard.View) string {
	var parts []string
	if view.Filters.Search != "" {
		parts = append(parts, fmt.Sprintf("search=%q", view.Filters.Search))
	}
	if view.Filters.Genre != "" {
		parts = append(parts, "genre="+view.Filters.Genre)
	}
	if view.Filters.Status != "" {
		parts = append(parts, "status="+view.Filters.Status)
	}
	if view.Sort.Key != dashboard.SortNone {
		dir := "asc"
		if view.Sort.Desc {
			dir = "desc"
		}
		parts = append(parts, fmt.Sprintf("sort=%s %s", view.Sort.Key, dir))
	}
	return "Filters: " + strings.Join(parts, ", ")
}

func sortedErrorFields(view dashboard.View) []string {
	var names []string
	for _, field := range view.FormModel.FieldNames() {
		if view.Form.Errors[field] != "" {
			names = append(names, field)
		}
	}
	return names
}
