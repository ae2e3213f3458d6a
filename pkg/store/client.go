package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-shelf/internal/httpx"
	"github.com/goliatone/go-shelf/pkg/book"
)

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	httpClient *http.Client
}

// WithHTTPClient overrides the HTTP client used for store calls.
func WithHTTPClient(h *http.Client) Option {
	return func(cfg *clientConfig) {
		cfg.httpClient = h
	}
}

// Client talks to the remote store over HTTP.
type Client struct {
	http *httpx.Client
}

var _ Store = (*Client)(nil)

// NewClient builds a client for the collection rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	cfg := clientConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	httpClient, err := httpx.NewClient(baseURL, httpx.WithHTTPClient(cfg.httpClient))
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return &Client{http: httpClient}, nil
}

// BaseURL reports the collection endpoint.
func (c *Client) BaseURL() string {
	return c.http.BaseURL()
}

// List fetches every record.
func (c *Client) List(ctx context.Context) ([]book.Book, error) {
	var books []book.Book
	if _, err := c.http.DoJSON(ctx, &httpx.Request{Method: http.MethodGet}, &books); err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	if books == nil {
		books = []book.Book{}
	}
	return books, nil
}

// Create posts the draft and returns the stored record with its new id.
func (c *Client) Create(ctx context.Context, draft book.Draft) (book.Book, error) {
	var created book.Book
	_, err := c.http.DoJSON(ctx, &httpx.Request{Method: http.MethodPost, Body: draft}, &created)
	if err != nil {
		return book.Book{}, fmt.Errorf("store: create: %w", err)
	}
	if strings.TrimSpace(created.ID) == "" {
		return book.Book{}, ErrMissingID
	}
	return created, nil
}

// Update replaces the record's mutable fields. Stores that answer with an
// empty body get the submitted draft back under the requested id.
func (c *Client) Update(ctx context.Context, id string, draft book.Draft) (book.Book, error) {
	if strings.TrimSpace(id) == "" {
		return book.Book{}, errors.New("store: update: id is required")
	}

	var updated book.Book
	decoded, err := c.http.DoJSON(ctx, &httpx.Request{
		Method:   http.MethodPut,
		Segments: []string{id},
		Body:     draft,
	}, &updated)
	if err != nil {
		return book.Book{}, fmt.Errorf("store: update %s: %w", id, err)
	}
	if !decoded {
		return draft.WithID(id), nil
	}
	updated.ID = id
	return updated, nil
}

// Delete removes the record.
func (c *Client) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("store: delete: id is required")
	}
	resp, err := c.http.Do(ctx, &httpx.Request{Method: http.MethodDelete, Segments: []string{id}})
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	_, _ = httpx.ReadAllAndClose(resp.Body)
	return nil
}
