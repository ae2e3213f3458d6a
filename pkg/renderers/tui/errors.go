package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoRows is returned when an action needs a row but the page is empty.
	ErrNoRows = errors.New("tui: no books on this page")
)
