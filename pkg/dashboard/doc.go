// Package dashboard owns the state of the book inventory screen.
//
// A Controller holds the in-memory collection, the filter and sort inputs, the
// current page, the open form or delete prompt and the pending notification.
// Renderers never mutate that state directly: they call Controller methods
// and read a View snapshot back. Derived data (the filtered rows, the genre
// and status option lists, the page window) is recomputed on every read.
//
// Network calls to the store happen outside the controller lock. Each open of
// the form or prompt receives an operation token; a store response that
// arrives after its modal was closed or replaced still patches the
// collection, but its modal effects are dropped.
package dashboard
