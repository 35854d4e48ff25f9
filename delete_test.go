package facet

import (
	"errors"
	"testing"

	"github.com/facetdb/facet/keyset"
)

func TestRevisionDeleteSymmetry(t *testing.T) {
	components := []Component{
		{
			DocID: "d1", Type: "text", Content: []byte("hello"),
			Views: []View{
				{LookupTerm: "hello", Family: "idx"},
				{LookupTerm: "greeting", Family: "idx"},
			},
		},
		{
			DocID: "d2", Type: "attrs", Content: []byte("x"),
			Views: []View{
				{LookupTerm: "x", Family: "idx", Visibility: "secret"},
			},
		},
	}
	rev := must(NewRevision(components, Options{TimestampMS: 100, NewQualifier: seqQualifiers()}))
	puts := rev.Mutations()

	var manifests [][]byte
	for _, m := range puts {
		if IsMetadataFamily(m.Family) {
			manifests = append(manifests, m.Value)
		}
	}
	if len(manifests) != 2 {
		t.Fatalf("** got %d manifests, wanted 2", len(manifests))
	}

	rd := NewRevisionDelete(manifests, Options{TimestampMS: 200})
	dels := must(rd.Mutations())
	if len(dels) != len(puts) {
		t.Fatalf("** got %d deletes, wanted %d", len(dels), len(puts))
	}
	for _, m := range dels {
		if !m.Delete {
			t.Errorf("** %v is not a delete", m)
		}
		if m.TimestampMS != 200 {
			t.Errorf("** %v has timestamp %d, wanted 200", m, m.TimestampMS)
		}
		if len(m.Value) != 0 {
			t.Errorf("** delete %v carries a value", m)
		}
	}
	deepEqual(t, coordCounts(dels), coordCounts(puts))
}

func TestRevisionDeleteOrder(t *testing.T) {
	rev := must(NewRevision([]Component{{
		DocID: "d1", Type: "text", Content: []byte("hi"),
		Views: []View{
			{LookupTerm: "v1", Family: "idx"},
			{LookupTerm: "v2", Family: "idx"},
		},
	}}, Options{TimestampMS: 1, NewQualifier: seqQualifiers()}))

	var manifest []byte
	for _, m := range rev.Mutations() {
		if IsMetadataFamily(m.Family) {
			manifest = m.Value
		}
	}

	dels := must(NewRevisionDelete([][]byte{manifest}, Options{TimestampMS: 2}).Mutations())
	var got [][4]string
	for _, m := range dels {
		got = append(got, coord(m))
	}
	deepEqual(t, got, [][4]string{
		{"v1", "idx", "q02", ""},
		{"v2", "idx", "q03", ""},
		{"d1", "text", "q01", ""},
		{"d1", "_meta\x00text", "q01", ""},
	})
}

func TestRevisionDeleteMalformedAbortsAll(t *testing.T) {
	valid := keyset.Encode([]keyset.Key{
		{Row: []byte("d1"), Family: []byte("text"), Qualifier: []byte("q"), Visibility: nil},
	})
	corrupt := []byte{0x01, 0xC1, 0xC1}

	rd := NewRevisionDelete([][]byte{valid, corrupt, valid}, Options{TimestampMS: 5})
	muts, err := rd.Mutations()
	if muts != nil {
		t.Fatalf("** got %d mutations alongside error, wanted none", len(muts))
	}
	if !errors.Is(err, ErrMalformedManifest) {
		t.Fatalf("** error = %v, wanted ErrMalformedManifest", err)
	}
	if !errors.Is(err, keyset.ErrMalformed) {
		t.Errorf("** error = %v, does not wrap keyset.ErrMalformed", err)
	}
	var merr *ManifestError
	if !errors.As(err, &merr) {
		t.Fatalf("** error = %v, wanted *ManifestError", err)
	}
	if merr.Index != 1 {
		t.Errorf("** ManifestError.Index = %d, wanted 1", merr.Index)
	}

	// Repeated calls stay deterministic: the batch is immutable.
	if _, err2 := rd.Mutations(); !errors.Is(err2, ErrMalformedManifest) {
		t.Errorf("** second call error = %v, wanted ErrMalformedManifest", err2)
	}
}

func TestRevisionDeleteEmpty(t *testing.T) {
	rd := NewRevisionDelete(nil, Options{TimestampMS: 5})
	isempty(t, must(rd.Mutations()))

	rd = NewRevisionDelete([][]byte{keyset.Encode(nil)}, Options{TimestampMS: 5})
	isempty(t, must(rd.Mutations()))
}

func TestRevisionDeleteManifestOrderAcrossInputs(t *testing.T) {
	m1 := keyset.Encode([]keyset.Key{
		{Row: []byte("a"), Family: []byte("f")},
		{Row: []byte("b"), Family: []byte("f")},
	})
	m2 := keyset.Encode([]keyset.Key{
		{Row: []byte("c"), Family: []byte("g")},
	})
	dels := must(NewRevisionDelete([][]byte{m1, m2}, Options{TimestampMS: 9}).Mutations())
	var got []string
	for _, m := range dels {
		got = append(got, m.Row+"/"+m.Family)
	}
	deepEqual(t, got, []string{"a/f", "b/f", "c/g"})
}

func coordCounts(muts []Mutation) map[[4]string]int {
	counts := make(map[[4]string]int)
	for _, m := range muts {
		counts[coord(m)]++
	}
	return counts
}
