package facet

import "strings"

// MetadataPrefix starts every reserved metadata family. NewRevision rejects
// component types and view families carrying it.
const MetadataPrefix = "_meta\x00"

// MetadataFamily returns the family a component's key-set manifest is
// stored under.
func MetadataFamily(componentType string) string {
	return MetadataPrefix + componentType
}

// IsMetadataFamily reports whether family is a reserved metadata family.
func IsMetadataFamily(family string) bool {
	return strings.HasPrefix(family, MetadataPrefix)
}

// View is an alternate index entry pointing at a component from a row of
// its own, typically a derived lookup term. Views carry no timestamp; a
// view is written as part of exactly one revision and stamps with it.
type View struct {
	LookupTerm string // row the entry is stored under
	Family     string
	Qualifier  string // empty = assign a random token during NewRevision
	Visibility string
	Value      []byte
}

// Component is one content-bearing unit of a document: the body value plus
// the views that should point at it.
type Component struct {
	DocID      string // row of the owning document
	Type       string // family the body is stored under
	Qualifier  string // empty = assign a random token during NewRevision
	Visibility string
	Content    []byte
	Views      []View
}
