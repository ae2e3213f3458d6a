// Package prompt models the delete confirmation dialog.
package prompt

import (
	"fmt"

	"github.com/goliatone/go-shelf/pkg/book"
)

// State is an open confirmation prompt for deleting Target.
type State struct {
	Target book.Book
}

// New opens a prompt for b.
func New(b book.Book) State {
	return State{Target: b}
}

// Title is the dialog heading.
func (s State) Title() string {
	return "Delete Book"
}

// Message names the record that will be removed.
func (s State) Message() string {
	return Message(s.Target.Title)
}

// Message formats the confirmation text for a title.
func Message(title string) string {
	return fmt.Sprintf("Are you sure you want to delete \"%s\"? This action cannot be undone.", title)
}
