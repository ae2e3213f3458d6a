package form

import (
	"fmt"
	"sort"
	"strings"
)

// Field messages.
const (
	MessageTitleRequired  = "Title is required"
	MessageAuthorRequired = "Author is required"
	MessageGenreRequired  = "Genre is required"
	MessageYearRequired   = "Published year is required"
	MessageYearInvalid    = "Enter a valid year"
	MessageStatusInvalid  = "Select a valid status"
)

// ValidationError maps each failing field to its message. It is returned
// before any network call is attempted.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "form: invalid input"
	}
	return fmt.Sprintf("form: invalid input: %s", strings.Join(e.FieldNames(), ", "))
}

// FieldNames lists the failing fields in sorted order.
func (e *ValidationError) FieldNames() []string {
	if e == nil {
		return nil
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Message returns the message for field, or an empty string.
func (e *ValidationError) Message(field string) string {
	if e == nil {
		return ""
	}
	return e.Fields[field]
}
