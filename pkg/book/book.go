package book

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Status is the circulation state of a catalog entry.
type Status string

const (
	StatusAvailable Status = "Available"
	StatusIssued    Status = "Issued"
)

// Statuses lists the values the entry form offers, in display order.
func Statuses() []Status {
	return []Status{StatusAvailable, StatusIssued}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusIssued:
		return true
	default:
		return false
	}
}

// Draft is the mutable part of a Book. It is the only payload sent to the
// store; identifiers travel in the request path.
type Draft struct {
	Title         string `json:"title" yaml:"title"`
	Author        string `json:"author" yaml:"author"`
	Genre         string `json:"genre" yaml:"genre"`
	PublishedYear int    `json:"publishedYear" yaml:"publishedYear"`
	Status        Status `json:"status" yaml:"status"`
}

// Book is a catalog entry as held by the remote store. ID is assigned by the
// store and is empty until the record has been created.
type Book struct {
	ID            string `json:"_id,omitempty"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Genre         string `json:"genre"`
	PublishedYear int    `json:"publishedYear"`
	Status        Status `json:"status"`
}

// WithID returns a Book carrying the draft fields and the supplied id.
func (d Draft) WithID(id string) Book {
	return Book{
		ID:            id,
		Title:         d.Title,
		Author:        d.Author,
		Genre:         d.Genre,
		PublishedYear: d.PublishedYear,
		Status:        d.Status,
	}
}

// Draft strips the identifier.
func (b Book) Draft() Draft {
	return Draft{
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		PublishedYear: b.PublishedYear,
		Status:        b.Status,
	}
}

// UnmarshalJSON accepts the identifier under "_id" or "id" and a published
// year encoded either as a number or as a numeric string.
func (b *Book) UnmarshalJSON(data []byte) error {
	var wire struct {
		UnderscoreID  string          `json:"_id"`
		ID            string          `json:"id"`
		Title         string          `json:"title"`
		Author        string          `json:"author"`
		Genre         string          `json:"genre"`
		PublishedYear json.RawMessage `json:"publishedYear"`
		Status        Status          `json:"status"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	year, err := decodeYear(wire.PublishedYear)
	if err != nil {
		return err
	}

	id := wire.UnderscoreID
	if id == "" {
		id = wire.ID
	}

	*b = Book{
		ID:            id,
		Title:         wire.Title,
		Author:        wire.Author,
		Genre:         wire.Genre,
		PublishedYear: year,
		Status:        wire.Status,
	}
	return nil
}

func decodeYear(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}
	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return 0, nil
		}
		year, err := strconv.Atoi(text)
		if err != nil {
			return 0, fmt.Errorf("book: publishedYear %q is not a number", text)
		}
		return year, nil
	}

	var number json.Number
	if err := json.Unmarshal(raw, &number); err != nil {
		return 0, fmt.Errorf("book: publishedYear: %w", err)
	}
	year, err := number.Int64()
	if err != nil {
		return 0, fmt.Errorf("book: publishedYear %s is not an integer", number)
	}
	return int(year), nil
}

// FormatYear prints a publish year, rendering negative years as BC.
func FormatYear(year int) string {
	if year < 0 {
		return strconv.Itoa(-year) + " BC"
	}
	return strconv.Itoa(year)
}
