package form

import (
	"strconv"

	"github.com/goliatone/go-shelf/pkg/book"
)

// Field names shared by the renderers, the HTTP form encoding and the
// validation messages.
const (
	FieldTitle         = "title"
	FieldAuthor        = "author"
	FieldGenre         = "genre"
	FieldPublishedYear = "publishedYear"
	FieldStatus        = "status"
)

// Fields lists the form fields in display order.
func Fields() []string {
	return []string{FieldTitle, FieldAuthor, FieldGenre, FieldPublishedYear, FieldStatus}
}

// Mode distinguishes a form creating a new record from one editing an
// existing record.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Input holds the raw, unvalidated field values.
type Input struct {
	Title         string
	Author        string
	Genre         string
	PublishedYear string
	Status        string
}

// InputFromBook pre-populates every field from b.
func InputFromBook(b book.Book) Input {
	return Input{
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		PublishedYear: strconv.Itoa(b.PublishedYear),
		Status:        string(b.Status),
	}
}

// Get returns the value of the named field.
func (in Input) Get(name string) string {
	switch name {
	case FieldTitle:
		return in.Title
	case FieldAuthor:
		return in.Author
	case FieldGenre:
		return in.Genre
	case FieldPublishedYear:
		return in.PublishedYear
	case FieldStatus:
		return in.Status
	default:
		return ""
	}
}

// Set returns a copy of in with the named field replaced. Unknown names are
// ignored.
func (in Input) Set(name, value string) Input {
	switch name {
	case FieldTitle:
		in.Title = value
	case FieldAuthor:
		in.Author = value
	case FieldGenre:
		in.Genre = value
	case FieldPublishedYear:
		in.PublishedYear = value
	case FieldStatus:
		in.Status = value
	}
	return in
}

// State is a snapshot of an open form.
type State struct {
	Mode   Mode
	Target book.Book
	Input  Input
	Errors map[string]string
}

// NewCreate returns a create-mode form with every field reset: empty text
// fields and the default status.
func NewCreate() State {
	return State{
		Mode:  ModeCreate,
		Input: Input{Status: string(book.StatusAvailable)},
	}
}

// NewEdit returns an edit-mode form pre-populated from b.
func NewEdit(b book.Book) State {
	return State{
		Mode:   ModeEdit,
		Target: b,
		Input:  InputFromBook(b),
	}
}

// Editing reports whether the form edits an existing record.
func (s State) Editing() bool {
	return s.Mode == ModeEdit
}

// Error returns the message recorded for field, if any.
func (s State) Error(field string) string {
	return s.Errors[field]
}

// WithErrors returns a copy of s carrying the given input and field messages.
func (s State) WithErrors(in Input, err *ValidationError) State {
	s.Input = in
	s.Errors = nil
	if err != nil && len(err.Fields) > 0 {
		s.Errors = make(map[string]string, len(err.Fields))
		for name, message := range err.Fields {
			s.Errors[name] = message
		}
	}
	return s
}
