package facet

import "testing"

func TestNewQualifierFormat(t *testing.T) {
	q := must(newQualifier())
	if !isHexToken(q) {
		t.Fatalf("** newQualifier() = %q, wanted 32 lowercase hex chars", q)
	}
}

func TestNewQualifierUniqueness(t *testing.T) {
	const n = 10_000
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		q := must(newQualifier())
		if seen[q] {
			t.Fatalf("** duplicate qualifier %q after %d draws", q, i)
		}
		seen[q] = true
	}
}
