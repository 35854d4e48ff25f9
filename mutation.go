package facet

import (
	"fmt"

	"github.com/facetdb/facet/keyset"
)

// Mutation is a single requested change to one cell: a write carrying Value,
// or a delete marker when Delete is set. Coordinate fields are opaque byte
// strings to the compilers; the store interprets nothing but their order.
type Mutation struct {
	Row         string
	Family      string
	Qualifier   string
	Visibility  string
	TimestampMS int64
	Value       []byte
	Delete      bool
}

// Key returns the mutation's cell-key descriptor, the form recorded in
// key-set manifests.
func (m Mutation) Key() keyset.Key {
	return keyset.Key{
		Row:        []byte(m.Row),
		Family:     []byte(m.Family),
		Qualifier:  []byte(m.Qualifier),
		Visibility: []byte(m.Visibility),
	}
}

func (m Mutation) String() string {
	if m.Delete {
		return fmt.Sprintf("del(%q %q %q %q @%d)", m.Row, m.Family, m.Qualifier, m.Visibility, m.TimestampMS)
	}
	return fmt.Sprintf("put(%q %q %q %q @%d = %d bytes)", m.Row, m.Family, m.Qualifier, m.Visibility, m.TimestampMS, len(m.Value))
}
