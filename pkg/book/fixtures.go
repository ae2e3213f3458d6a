package book

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/books.yaml
var fixtureCatalog []byte

// Fixtures returns the bundled catalog as drafts, in file order. The drafts
// carry no identifiers; a store assigns them on creation.
func Fixtures() ([]Draft, error) {
	return ParseDrafts(fixtureCatalog)
}

// MustFixtures panics when the bundled catalog cannot be decoded. Useful for
// tests and init-time wiring.
func MustFixtures() []Draft {
	drafts, err := Fixtures()
	if err != nil {
		panic(err)
	}
	return drafts
}

// ParseDrafts decodes a YAML sequence of drafts. Missing statuses default to
// StatusAvailable.
func ParseDrafts(data []byte) ([]Draft, error) {
	var drafts []Draft
	if err := yaml.Unmarshal(data, &drafts); err != nil {
		return nil, fmt.Errorf("book: decode drafts: %w", err)
	}
	for i := range drafts {
		if drafts[i].Status == "" {
			drafts[i].Status = StatusAvailable
		}
		if !drafts[i].Status.Valid() {
			return nil, fmt.Errorf("book: draft %d (%q) has unknown status %q", i, drafts[i].Title, drafts[i].Status)
		}
	}
	return drafts, nil
}
