// Package form implements the book entry form: its state in create and edit
// mode, field validation and the conversion of raw input into a book.Draft.
//
// Input arrives as strings (HTML form values or terminal answers). Validate
// trims every value, checks it with go-playground/validator and
// reports one message per failing field in a *ValidationError. The publish
// year upper bound follows the injected clock, so the bound moves with the
// calendar rather than being frozen at build time.
//
// The rendering model (labels, placeholders, enum options, numeric bounds) is
// read from an embedded OpenAPI description of the store's create operation.
package form
