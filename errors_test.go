package facet

import (
	"errors"
	"strings"
	"testing"
)

func TestManifestError(t *testing.T) {
	t.Run("small data", func(t *testing.T) {
		inner := errors.New("inner")
		var err error = &ManifestError{Index: 3, Data: []byte{0xAA, 0xBB}, Err: inner}
		var merr *ManifestError
		if !errors.As(err, &merr) {
			t.Fatalf("err = %T, wanted *ManifestError", err)
		}
		if !errors.Is(err, inner) {
			t.Fatalf("errors.Is(err, inner) = false, wanted true")
		}
		if !errors.Is(err, ErrMalformedManifest) {
			t.Fatalf("errors.Is(err, ErrMalformedManifest) = false, wanted true")
		}
		s := err.Error()
		if !strings.Contains(s, "manifest 3") || !strings.Contains(s, "inner") || !strings.Contains(s, "(2) aabb") {
			t.Fatalf("err.Error() = %q, wanted message with manifest 3/inner/(2) aabb", s)
		}
	})

	t.Run("large data includes prefix+suffix", func(t *testing.T) {
		data := make([]byte, 200)
		for i := range data {
			data[i] = byte(i)
		}
		err := &ManifestError{Index: 0, Data: data, Err: errors.New("inner")}
		s := err.Error()
		if !strings.Contains(s, "(200)") || !strings.Contains(s, "...") {
			t.Fatalf("err.Error() = %q, wanted message with (200) and ...", s)
		}
	})
}
