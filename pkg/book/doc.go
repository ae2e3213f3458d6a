// Package book defines the catalog entry managed by the dashboard and the
// draft payload exchanged with the remote store. Identifiers are opaque and
// always assigned by the store; a Draft never carries one. The package also
// embeds the seed catalog used by the sandbox store, the seeding command and
// the filter tests.
package book
