package render

// RenderOptions carry per-request data that is not part of the dashboard
// state.
type RenderOptions struct {
	// BasePath prefixes every link and form action. Empty means "/".
	BasePath string
	// Title overrides the page heading.
	Title string
}

// Path joins p onto the base path.
func (o RenderOptions) Path(p string) string {
	base := o.BasePath
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	if p == "" || p[0] != '/' {
		p = "/" + p
	}
	return base + p
}
