package shelf

import (
	"io/fs"

	"github.com/goliatone/go-shelf/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in dashboard templates so callers can
// copy or extend them and pass the result back through
// vanilla.WithTemplatesFS.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the embedded stylesheet.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(shelf.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
