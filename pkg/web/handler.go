// Package web exposes the dashboard controller over HTTP. Reads render the
// current View through a render.Registry; every state change answers with a
// 303 redirect back to the dashboard so a browser refresh never replays it.
package web

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-shelf/internal/logging"
	"github.com/goliatone/go-shelf/pkg/dashboard"
	"github.com/goliatone/go-shelf/pkg/form"
	"github.com/goliatone/go-shelf/pkg/render"
)

const maxFormBytes = 64 << 10

// FormatParam selects a renderer by name on GET /.
const FormatParam = "format"

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the request logger.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		h.logger = logging.OrNop(logger)
	}
}

// WithBasePath prefixes links and redirects. Mount the handler behind
// http.StripPrefix with the same value.
func WithBasePath(base string) Option {
	return func(h *Handler) {
		h.options.BasePath = strings.TrimRight(strings.TrimSpace(base), "/")
	}
}

// WithTitle overrides the page heading.
func WithTitle(title string) Option {
	return func(h *Handler) {
		h.options.Title = title
	}
}

// WithAssets serves files under /assets/.
func WithAssets(assets fs.FS) Option {
	return func(h *Handler) {
		h.assets = assets
	}
}

// Handler routes dashboard requests to a Controller.
type Handler struct {
	controller *dashboard.Controller
	renderers  *render.Registry
	logger     *zap.Logger
	options    render.RenderOptions
	assets     fs.FS
	mux        *http.ServeMux
}

// New builds the route table. Both controller and renderers are required.
func New(controller *dashboard.Controller, renderers *render.Registry, opts ...Option) (*Handler, error) {
	if controller == nil {
		return nil, errors.New("web: controller is required")
	}
	if renderers == nil || len(renderers.List()) == 0 {
		return nil, errors.New("web: at least one renderer is required")
	}
	h := &Handler{
		controller: controller,
		renderers:  renderers,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	h.logger = h.logger.Named("web")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleDashboard)
	mux.HandleFunc("GET /filter", h.handleFilter)
	mux.HandleFunc("GET /page/next", h.handleNextPage)
	mux.HandleFunc("GET /page/prev", h.handlePrevPage)
	mux.HandleFunc("GET /page/{n}", h.handlePage)
	mux.HandleFunc("GET /books/new", h.handleOpenCreate)
	mux.HandleFunc("GET /books/{id}/edit", h.handleOpenEdit)
	mux.HandleFunc("POST /books/form", h.handleSubmitForm)
	mux.HandleFunc("POST /books/form/cancel", h.handleCancelForm)
	mux.HandleFunc("GET /books/{id}/delete", h.handleOpenDelete)
	mux.HandleFunc("POST /books/delete/confirm", h.handleConfirmDelete)
	mux.HandleFunc("POST /books/delete/cancel", h.handleCancelDelete)
	mux.HandleFunc("POST /notification/dismiss", h.handleDismiss)
	mux.HandleFunc("POST /reload", h.handleReload)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if h.assets != nil {
		mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServerFS(h.assets)))
	}
	h.mux = mux
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	h.mux.ServeHTTP(rec, r)
	h.logger.Debug("request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", rec.status),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	renderer, err := h.renderers.Negotiate(r.URL.Query().Get(FormatParam), r.Header.Get("Accept"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotAcceptable)
		return
	}
	body, err := renderer.Render(r.Context(), h.controller.View(), h.options)
	if err != nil {
		h.logger.Error("render dashboard", zap.String("renderer", renderer.Name()), zap.Error(err))
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(body); err != nil {
		h.logger.Warn("write response", zap.Error(err))
	}
}

func (h *Handler) handleFilter(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	h.controller.SetFilters(dashboard.Filters{
		Search: query.Get("search"),
		Genre:  query.Get("genre"),
		Status: query.Get("status"),
	})
	if query.Has("sort") || query.Has("dir") {
		key, ok := dashboard.ParseSortKey(query.Get("sort"))
		if !ok {
			http.Error(w, "unknown sort key", http.StatusBadRequest)
			return
		}
		h.controller.SetSort(dashboard.Sort{Key: key, Desc: query.Get("dir") == "desc"})
	}
	h.redirect(w, r)
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.PathValue("n"))
	if err != nil {
		http.Error(w, "invalid page number", http.StatusBadRequest)
		return
	}
	h.controller.GoToPage(n)
	h.redirect(w, r)
}

func (h *Handler) handleNextPage(w http.ResponseWriter, r *http.Request) {
	h.controller.NextPage()
	h.redirect(w, r)
}

func (h *Handler) handlePrevPage(w http.ResponseWriter, r *http.Request) {
	h.controller.PrevPage()
	h.redirect(w, r)
}

func (h *Handler) handleOpenCreate(w http.ResponseWriter, r *http.Request) {
	h.controller.OpenCreate()
	h.redirect(w, r)
}

func (h *Handler) handleOpenEdit(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.OpenEdit(r.PathValue("id")); err != nil {
		h.fail(w, err)
		return
	}
	h.redirect(w, r)
}

func (h *Handler) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	var in form.Input
	for _, name := range form.Fields() {
		in = in.Set(name, r.PostForm.Get(name))
	}

	err := h.controller.SubmitForm(detach(r), in)
	var verr *form.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &verr):
		h.logger.Debug("form rejected", zap.Strings("fields", verr.FieldNames()))
	case errors.Is(err, dashboard.ErrNotOpen), errors.Is(err, dashboard.ErrBusy):
		h.logger.Info("form submit ignored", zap.Error(err))
	default:
		// The controller already raised the notification and kept the form.
		h.logger.Warn("form submit failed", zap.Error(err))
	}
	h.redirect(w, r)
}

func (h *Handler) handleCancelForm(w http.ResponseWriter, r *http.Request) {
	h.controller.CancelForm()
	h.redirect(w, r)
}

func (h *Handler) handleOpenDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.OpenDelete(r.PathValue("id")); err != nil {
		h.fail(w, err)
		return
	}
	h.redirect(w, r)
}

func (h *Handler) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.ConfirmDelete(detach(r)); err != nil {
		if errors.Is(err, dashboard.ErrNotOpen) || errors.Is(err, dashboard.ErrBusy) {
			h.logger.Info("delete confirm ignored", zap.Error(err))
		} else {
			h.logger.Warn("delete failed", zap.Error(err))
		}
	}
	h.redirect(w, r)
}

func (h *Handler) handleCancelDelete(w http.ResponseWriter, r *http.Request) {
	h.controller.CancelDelete()
	h.redirect(w, r)
}

func (h *Handler) handleDismiss(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	var id uint64
	if raw := strings.TrimSpace(r.PostForm.Get("id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid notification id", http.StatusBadRequest)
			return
		}
		id = parsed
	}
	h.controller.DismissNotification(id)
	h.redirect(w, r)
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.Load(detach(r)); err != nil {
		if errors.Is(err, dashboard.ErrBusy) {
			h.logger.Info("reload skipped", zap.Error(err))
		} else {
			h.logger.Warn("reload failed", zap.Error(err))
		}
	}
	h.redirect(w, r)
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.options.Path("/"), http.StatusSeeOther)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, dashboard.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	h.logger.Error("request failed", zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// detach keeps the request values but drops its cancellation: a store call
// runs to completion even when the client goes away.
func detach(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}
