package gotemplate

import (
	"strings"
	"time"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-shelf/pkg/book"
)

func registerDefaultFilters() {
	defaults := map[string]pongo2.FilterFunction{
		"trim":   filterTrim,
		"year":   filterYear,
		"millis": filterMillis,
	}
	for name, fn := range defaults {
		if !pongo2.FilterExists(name) {
			_ = pongo2.RegisterFilter(name, fn)
		}
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterYear prints negative years as BC: -800 becomes "800 BC".
func filterYear(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if !in.IsNumber() {
		return in, nil
	}
	return pongo2.AsValue(book.FormatYear(in.Integer())), nil
}

// filterMillis converts a time.Duration into whole milliseconds.
func filterMillis(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	switch v := in.Interface().(type) {
	case time.Duration:
		return pongo2.AsValue(v.Milliseconds()), nil
	default:
		if in.IsNumber() {
			return pongo2.AsValue(time.Duration(in.Integer()).Milliseconds()), nil
		}
		return pongo2.AsValue(0), nil
	}
}
