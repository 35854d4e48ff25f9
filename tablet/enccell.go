package tablet

import (
	"encoding/binary"
	"fmt"
)

// Cell keys encode the four coordinate fields length-prefixed in order,
// then the bitwise complement of the timestamp big-endian so newer versions
// sort first, then a kind byte. Delete markers use kind 0 so a marker sorts
// before the value it suppresses at the same timestamp.
//
//	varbytes(row) varbytes(family) varbytes(qualifier) varbytes(visibility) ^ts:8 kind:1
//
// Length prefixes keep distinct coordinates from sharing prefixes, so "a"
// and "ab" rows never shadow each other in scans.

const (
	kindDelete byte = 0
	kindValue  byte = 1
)

const cellKeySuffixSize = 9

type cellKey struct {
	row        string
	family     string
	qualifier  string
	visibility string
	ts         int64 // milliseconds
	kind       byte
}

func encodeCellKey(k cellKey) []byte {
	buf := make([]byte, 0, len(k.row)+len(k.family)+len(k.qualifier)+len(k.visibility)+4*binary.MaxVarintLen64+cellKeySuffixSize)
	buf = appendCoordinate(buf, k.row, k.family, k.qualifier, k.visibility)
	buf = binary.BigEndian.AppendUint64(buf, ^uint64(k.ts))
	return append(buf, k.kind)
}

func decodeCellKey(data []byte) (cellKey, error) {
	var k cellKey
	rest := data
	var err error
	fields := [...]*string{&k.row, &k.family, &k.qualifier, &k.visibility}
	names := [...]string{"row", "family", "qualifier", "visibility"}
	for i, f := range fields {
		if *f, rest, err = takeVarbytes(rest); err != nil {
			return cellKey{}, fmt.Errorf("invalid cell key %x: %s: %w", data, names[i], err)
		}
	}
	if len(rest) != cellKeySuffixSize {
		return cellKey{}, fmt.Errorf("invalid cell key %x: %d trailing bytes, wanted %d", data, len(rest), cellKeySuffixSize)
	}
	k.ts = int64(^binary.BigEndian.Uint64(rest[:8]))
	k.kind = rest[8]
	if k.kind != kindDelete && k.kind != kindValue {
		return cellKey{}, fmt.Errorf("invalid cell key %x: unknown kind 0x%02X", data, k.kind)
	}
	return k, nil
}

// rowPrefix matches every cell of one row.
func rowPrefix(row string) []byte {
	return appendVarbytes(nil, row)
}

// familyPrefix matches every cell of one (row, family) pair.
func familyPrefix(row, family string) []byte {
	return appendVarbytes(appendVarbytes(nil, row), family)
}

// coordinatePrefix matches every version of one coordinate.
func coordinatePrefix(row, family, qualifier, visibility string) []byte {
	return appendCoordinate(nil, row, family, qualifier, visibility)
}

func appendCoordinate(buf []byte, row, family, qualifier, visibility string) []byte {
	buf = appendVarbytes(buf, row)
	buf = appendVarbytes(buf, family)
	buf = appendVarbytes(buf, qualifier)
	return appendVarbytes(buf, visibility)
}

func appendVarbytes(buf []byte, v string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(v)))
	return append(buf, v...)
}

func takeVarbytes(data []byte) (string, []byte, error) {
	n, w := binary.Uvarint(data)
	if w <= 0 {
		return "", nil, fmt.Errorf("truncated length prefix")
	}
	data = data[w:]
	if uint64(len(data)) < n {
		return "", nil, fmt.Errorf("field of %d bytes, only %d left", n, len(data))
	}
	return string(data[:n]), data[n:], nil
}

func sameCoordinate(a, b cellKey) bool {
	return a.row == b.row && a.family == b.family && a.qualifier == b.qualifier && a.visibility == b.visibility
}
