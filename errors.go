package facet

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedManifest is matched by errors returned from
	// RevisionDelete.Mutations when a stored key-set manifest fails to
	// decode. The entire call aborts; no mutations are returned for any
	// manifest in the batch.
	ErrMalformedManifest = errors.New("malformed manifest")

	// ErrReservedFamily is matched by errors returned from NewRevision when
	// a component type or view family starts with MetadataPrefix.
	ErrReservedFamily = errors.New("reserved metadata family prefix")
)

// ManifestError reports a key-set manifest that failed to decode, carrying
// enough of the raw value to identify the damaged entry in logs. It matches
// both ErrMalformedManifest and the underlying keyset error.
type ManifestError struct {
	Index int // position of the manifest within the delete batch
	Data  []byte
	Err   error
}

func (e *ManifestError) Unwrap() []error {
	return []error{ErrMalformedManifest, e.Err}
}

func (e *ManifestError) Error() string {
	const prefixLen = 64
	const suffixLen = 32
	n := len(e.Data)
	if n <= prefixLen+suffixLen {
		return fmt.Sprintf("manifest %d: %v: (%d) %x", e.Index, e.Err, n, e.Data)
	}
	p, s := e.Data[:prefixLen], e.Data[n-suffixLen:]
	return fmt.Sprintf("manifest %d: %v: (%d) %x...%x", e.Index, e.Err, n, p, s)
}
