package facet

import (
	"slices"

	"github.com/facetdb/facet/keyset"
)

// RevisionDelete is an immutable delete batch driven by stored key-set
// manifests, usually the metadata values read back from the store. Deletion
// never re-derives keys from component or view inputs: the manifests record
// the exact physical footprint of the writes being removed, regardless of
// how view derivation has changed since.
type RevisionDelete struct {
	timestampMS int64
	keySets     [][]byte
}

// NewRevisionDelete builds a delete batch over encoded key-set manifests.
// Only the timestamp rules of Options apply here.
func NewRevisionDelete(encodedKeySets [][]byte, o Options) *RevisionDelete {
	return &RevisionDelete{
		timestampMS: o.timestampMS(),
		keySets:     slices.Clone(encodedKeySets),
	}
}

// TimestampMS returns the timestamp every delete marker of this revision
// carries.
func (rd *RevisionDelete) TimestampMS() int64 {
	return rd.timestampMS
}

// Mutations compiles one delete marker per key descriptor, manifests in
// input order, descriptors in manifest order. A manifest that fails to
// decode aborts the whole call with an error matching ErrMalformedManifest:
// deleting the readable part of a corrupt batch would orphan entries with no
// manifest left to find them by.
func (rd *RevisionDelete) Mutations() ([]Mutation, error) {
	var muts []Mutation
	for i, data := range rd.keySets {
		keys, err := keyset.Decode(data)
		if err != nil {
			return nil, &ManifestError{Index: i, Data: data, Err: err}
		}
		for _, k := range keys {
			muts = append(muts, Mutation{
				Row:         string(k.Row),
				Family:      string(k.Family),
				Qualifier:   string(k.Qualifier),
				Visibility:  string(k.Visibility),
				TimestampMS: rd.timestampMS,
				Delete:      true,
			})
		}
	}
	return muts, nil
}
