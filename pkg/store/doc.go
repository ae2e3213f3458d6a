// Package store provides the remote catalog client. The hosted store is a
// schema-agnostic CRUD endpoint reached at a single base URL:
//
//	GET    {base}       list every record
//	POST   {base}       create a record from a draft; the store assigns _id
//	PUT    {base}/{id}  replace the mutable fields of a record
//	DELETE {base}/{id}  remove a record
//
// Each operation is exactly one network call. The client never retries, adds
// no auth headers and applies no timeout beyond the caller's context. Any
// failure is returned as an error without interpretation; callers only
// distinguish success from failure.
package store
