// Package render defines the seam between the dashboard state and the
// formats it can be presented in. Renderers are looked up by name through a
// Registry so transports can negotiate the output format.
package render

import (
	"context"

	"github.com/goliatone/go-shelf/pkg/dashboard"
)

// Renderer converts a dashboard View into a byte representation (HTML, plain
// text and so on).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view dashboard.View, options RenderOptions) ([]byte, error)
}
