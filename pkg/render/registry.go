package render

import (
	"errors"
	"fmt"
	"mime"
	"slices"
	"strings"
	"sync"
)

// ErrNoRenderer reports that no registered renderer can produce the
// requested output.
var ErrNoRenderer = errors.New("render: no matching renderer")

// Registry keeps the dashboard renderers by name, in registration order. The
// first renderer registered is the default.
type Registry struct {
	mu    sync.RWMutex
	names []string
	byKey map[string]Renderer
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]Renderer)}
}

// Register adds a renderer by its Name(). Duplicate names return an error.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	name := strings.TrimSpace(renderer.Name())
	if name == "" {
		return fmt.Errorf("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byKey[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.byKey[name] = renderer
	r.names = append(r.names, name)
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get retrieves a renderer by name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.byKey[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoRenderer, name)
	}
	return renderer, nil
}

// Resolve returns the renderer called name, or the default renderer when name
// is empty.
func (r *Registry) Resolve(name string) (Renderer, error) {
	name = strings.TrimSpace(name)
	if name != "" {
		return r.Get(name)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.names) == 0 {
		return nil, fmt.Errorf("%w: registry is empty", ErrNoRenderer)
	}
	return r.byKey[r.names[0]], nil
}

// Negotiate picks a renderer for a request. An explicit format wins. Otherwise
// the first media type in accept (in header order, quality ignored) served by
// a registered renderer is used, falling back to the default for */* or an
// empty header.
func (r *Registry) Negotiate(format, accept string) (Renderer, error) {
	if strings.TrimSpace(format) != "" || strings.TrimSpace(accept) == "" {
		return r.Resolve(format)
	}

	r.mu.RLock()
	ordered := make([]Renderer, 0, len(r.names))
	for _, name := range r.names {
		ordered = append(ordered, r.byKey[name])
	}
	r.mu.RUnlock()

	for _, part := range strings.Split(accept, ",") {
		want, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if want == "*/*" {
			return r.Resolve("")
		}
		for _, renderer := range ordered {
			if mediaMatches(want, renderer.ContentType()) {
				return renderer, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: accept %q", ErrNoRenderer, accept)
}

func mediaMatches(want, contentType string) bool {
	have, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	if want == have {
		return true
	}
	major, minor, ok := strings.Cut(want, "/")
	return ok && minor == "*" && strings.HasPrefix(have, major+"/")
}

// List returns a sorted list of renderer names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := slices.Clone(r.names)
	slices.Sort(names)
	return names
}

// Has reports whether a renderer is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byKey[name]
	return ok
}
