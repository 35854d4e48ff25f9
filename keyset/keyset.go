// Package keyset implements the binary format for cell-key manifests.
//
// A key set is an ordered list of cell-key descriptors, each naming one
// physical entry of a sorted multi-dimensional store by its four coordinate
// fields (row, family, qualifier, visibility). Key sets are written as the
// value of a component's metadata entry and read back later to drive exact
// deletion, so the format is self-describing and strictly versioned: a blob
// either decodes into precisely the keys that were encoded, in the same
// order, or Decode fails with ErrMalformed.
//
// Wire layout:
//
//	ver:1  body:msgpack  checksum:8
//
// where ver is currently 0x01, body is a msgpack array of 4-element arrays
// (row, family, qualifier, visibility as binary strings), and checksum is
// the big-endian XXH64 hash of body.
package keyset

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrMalformed wraps all structural decode failures: short input, unknown
// version, checksum mismatch and undecodable body.
var ErrMalformed = errors.New("malformed key set")

const (
	verKeySet1 = 0x01

	checksumSize = 8
	minSize      = 1 + checksumSize
)

// Key names one physical cell by its coordinate fields, without timestamp
// or value.
type Key struct {
	_msgpack struct{} `msgpack:",as_array"`

	Row        []byte
	Family     []byte
	Qualifier  []byte
	Visibility []byte
}

func (k Key) String() string {
	return fmt.Sprintf("(%x %x %x %x)", k.Row, k.Family, k.Qualifier, k.Visibility)
}

// Encode serializes keys in order. The result round-trips through Decode.
func Encode(keys []Key) []byte {
	body, err := msgpack.Marshal(keys)
	if err != nil {
		panic(fmt.Errorf("keyset: failed to encode %d keys: %w", len(keys), err))
	}
	buf := make([]byte, 0, 1+len(body)+checksumSize)
	buf = append(buf, verKeySet1)
	buf = append(buf, body...)
	buf = binary.BigEndian.AppendUint64(buf, xxhash.Sum64(body))
	return buf
}

// Decode parses data produced by Encode, preserving key order.
func Decode(data []byte) ([]Key, error) {
	if len(data) < minSize {
		return nil, malformedf("%d bytes, need at least %d", len(data), minSize)
	}
	if ver := data[0]; ver != verKeySet1 {
		return nil, malformedf("unsupported version 0x%02X", ver)
	}
	body := data[1 : len(data)-checksumSize]
	stored := binary.BigEndian.Uint64(data[len(data)-checksumSize:])
	if computed := xxhash.Sum64(body); computed != stored {
		return nil, malformedf("checksum mismatch (stored %08x, computed %08x)", stored, computed)
	}
	var keys []Key
	if err := msgpack.Unmarshal(body, &keys); err != nil {
		return nil, fmt.Errorf("%w: body: %v", ErrMalformed, err)
	}
	return keys, nil
}

func malformedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}
