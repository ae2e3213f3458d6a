// Package shelf wires the book dashboard together: a remote store, the
// controller that owns dashboard state and the renderers and transports that
// present it. Commands and embedding applications start here.
package shelf

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-shelf/internal/config"
	"github.com/goliatone/go-shelf/internal/logging"
	"github.com/goliatone/go-shelf/pkg/dashboard"
	"github.com/goliatone/go-shelf/pkg/render"
	"github.com/goliatone/go-shelf/pkg/renderers/tui"
	"github.com/goliatone/go-shelf/pkg/renderers/vanilla"
	"github.com/goliatone/go-shelf/pkg/store"
	"github.com/goliatone/go-shelf/pkg/web"
)

// Reconcile modes accepted by ReconcilerFor.
const (
	ReconcileLocal   = config.ReconcileLocal
	ReconcileRefetch = config.ReconcileRefetch
)

type options struct {
	logger     *zap.Logger
	controller []dashboard.Option
	vanilla    []vanilla.Option
	renderers  []render.Renderer
}

// Option configures New.
type Option func(*options)

// WithLogger sets the root logger shared by every component.
func WithLogger(logger *zap.Logger) Option {
	return func(c *options) {
		c.logger = logging.OrNop(logger)
	}
}

// WithControllerOptions forwards options to dashboard.New.
func WithControllerOptions(opts ...dashboard.Option) Option {
	return func(c *options) {
		c.controller = append(c.controller, opts...)
	}
}

// WithVanillaOptions forwards options to the HTML renderer.
func WithVanillaOptions(opts ...vanilla.Option) Option {
	return func(c *options) {
		c.vanilla = append(c.vanilla, opts...)
	}
}

// WithRenderer registers an extra renderer next to the built-in ones.
func WithRenderer(r render.Renderer) Option {
	return func(c *options) {
		if r != nil {
			c.renderers = append(c.renderers, r)
		}
	}
}

// App bundles a controller with its renderer registry.
type App struct {
	Controller *dashboard.Controller
	Renderers  *render.Registry
	logger     *zap.Logger
}

// New builds an App around s. The HTML renderer is registered first and is
// therefore the default; the plain text renderer answers format "text".
func New(s store.Store, opts ...Option) (*App, error) {
	if s == nil {
		return nil, errors.New("shelf: store is required")
	}
	cfg := options{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	controllerOpts := append([]dashboard.Option{dashboard.WithLogger(cfg.logger)}, cfg.controller...)
	controller, err := dashboard.New(s, controllerOpts...)
	if err != nil {
		return nil, fmt.Errorf("shelf: %w", err)
	}

	html, err := vanilla.New(cfg.vanilla...)
	if err != nil {
		return nil, fmt.Errorf("shelf: vanilla renderer: %w", err)
	}
	registry := render.NewRegistry()
	for _, r := range append([]render.Renderer{html, tui.TextRenderer{}}, cfg.renderers...) {
		if err := registry.Register(r); err != nil {
			return nil, fmt.Errorf("shelf: %w", err)
		}
	}

	return &App{Controller: controller, Renderers: registry, logger: cfg.logger}, nil
}

// Open builds an App backed by the remote store at baseURL.
func Open(baseURL string, timeout time.Duration, opts ...Option) (*App, error) {
	client, err := store.NewClient(baseURL, store.WithHTTPClient(&http.Client{Timeout: timeout}))
	if err != nil {
		return nil, fmt.Errorf("shelf: %w", err)
	}
	return New(client, opts...)
}

// Handler returns the HTTP transport, serving the embedded stylesheet under
// /assets/.
func (a *App) Handler(opts ...web.Option) (*web.Handler, error) {
	base := []web.Option{web.WithLogger(a.logger), web.WithAssets(vanilla.AssetsFS())}
	return web.New(a.Controller, a.Renderers, append(base, opts...)...)
}

// Session returns an interactive terminal session.
func (a *App) Session(opts ...tui.Option) (*tui.Session, error) {
	base := []tui.Option{tui.WithLogger(a.logger)}
	return tui.NewSession(a.Controller, append(base, opts...)...)
}

// ReconcilerFor maps a configured mode to a Reconciler.
func ReconcilerFor(mode string) (dashboard.Reconciler, error) {
	switch mode {
	case "", ReconcileLocal:
		return dashboard.LocalPatch{}, nil
	case ReconcileRefetch:
		return dashboard.Refetch{}, nil
	default:
		return nil, fmt.Errorf("shelf: unknown reconcile mode %q", mode)
	}
}
