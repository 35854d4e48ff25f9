package facet

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// newQualifier returns a fresh random 128-bit token as 32 lowercase hex
// characters. Failures of the entropy source are propagated; a weaker
// fallback token would silently break the collision guarantee.
func newQualifier() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generating qualifier: %w", err)
	}
	return hex.EncodeToString(u[:]), nil
}
