// Package sandbox serves the remote store contract over HTTP on top of any
// store.Store. It stands in for the hosted endpoint during local development
// and in end-to-end tests of the HTTP client.
package sandbox

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-shelf/internal/logging"
	"github.com/goliatone/go-shelf/pkg/book"
	"github.com/goliatone/go-shelf/pkg/store"
	"github.com/goliatone/go-shelf/pkg/store/mock"
)

const maxBodyBytes = 1 << 20

// Option configures the handler.
type Option func(*Handler)

// WithLogger sets the logger used for request failures.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		h.logger = logging.OrNop(logger)
	}
}

// WithPrefix mounts the collection under prefix (default "/books").
func WithPrefix(prefix string) Option {
	return func(h *Handler) {
		prefix = "/" + strings.Trim(strings.TrimSpace(prefix), "/")
		if prefix != "/" {
			h.prefix = prefix
		}
	}
}

// Handler exposes GET/POST {prefix} and PUT/DELETE {prefix}/{id}.
type Handler struct {
	store  store.Store
	logger *zap.Logger
	prefix string
	mux    *http.ServeMux
}

// New builds a handler backed by s.
func New(s store.Store, opts ...Option) *Handler {
	h := &Handler{
		store:  s,
		logger: zap.NewNop(),
		prefix: "/books",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+h.prefix, h.handleList)
	mux.HandleFunc("POST "+h.prefix, h.handleCreate)
	mux.HandleFunc("PUT "+h.prefix+"/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE "+h.prefix+"/{id}", h.handleDelete)
	h.mux = mux
	return h
}

// Prefix reports the collection path.
func (h *Handler) Prefix() string {
	return h.prefix
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	books, err := h.store.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, books, h.logger)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}
	created, err := h.store.Create(r.Context(), draft)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created, h.logger)
}

// handleUpdate answers with an empty body, as the hosted store does.
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}
	if _, err := h.store.Update(r.Context(), r.PathValue("id"), draft); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// decodeDraft reads the payload through book.Book so that numeric strings
// are accepted for publishedYear; identifiers in the body are ignored.
func (h *Handler) decodeDraft(w http.ResponseWriter, r *http.Request) (book.Draft, bool) {
	defer r.Body.Close()

	var payload book.Book
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON payload"}, h.logger)
		return book.Draft{}, false
	}
	return payload.Draft(), true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, mock.ErrNotFound) {
		status = http.StatusNotFound
	}
	h.logger.Warn("sandbox request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	)
	writeJSON(w, status, map[string]string{"error": err.Error()}, h.logger)
}

func writeJSON(w http.ResponseWriter, status int, payload any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Warn("sandbox write response", zap.Error(err))
	}
}
