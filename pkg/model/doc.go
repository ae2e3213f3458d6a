// Package model defines the typed form model consumed by the dashboard
// renderers. A FormModel is derived from the store's OpenAPI description of
// the create operation; each Field carries its label, placeholder, input kind,
// enum options and validation rules. Validation rules use canonical
// identifiers (min/max, minLength/maxLength) with string parameters so the
// HTML renderer can map them onto input attributes and the terminal renderer
// onto prompt hints without re-parsing the schema.
package model
