// Package vanilla renders the dashboard as a self-contained HTML page using
// the embedded pongo2 template. The page works without JavaScript: every
// action is a link or a form post; a short inline script only hides the
// notification once its lifetime elapses.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-shelf/pkg/dashboard"
	"github.com/goliatone/go-shelf/pkg/render"
	rendertemplate "github.com/goliatone/go-shelf/pkg/render/template"
	gotemplate "github.com/goliatone/go-shelf/pkg/render/template/gotemplate"
)

// Option customises the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	stylesheetHref   string
	inlineStyles     bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. It must
// contain DashboardTemplate.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithStylesheet links an external stylesheet instead of inlining the
// embedded one.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		cfg.stylesheetHref = href
		cfg.inlineStyles = href == ""
	}
}

// Renderer implements render.Renderer for HTML.
type Renderer struct {
	templates      rendertemplate.TemplateRenderer
	stylesheetHref string
	inlineCSS      string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), inlineStyles: true}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	r := &Renderer{templates: renderer, stylesheetHref: cfg.stylesheetHref}
	if cfg.inlineStyles {
		r.inlineCSS = defaultStylesheet()
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, view dashboard.View, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	data := pageContext(view, options)
	data["stylesheet_href"] = r.stylesheetHref
	data["inline_css"] = r.inlineCSS

	result, err := r.templates.RenderTemplate(DashboardTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}
