package load

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Fingerprint returns a stable digest of the state. Two identical states
// always produce the same fingerprint, so callers can skip regeneration
// when nothing changed. Struct encoding keeps field order fixed, which
// keeps the digest deterministic.
func (s *State) Fingerprint() (string, error) {
	b, err := msgpack.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("load: fingerprint state: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
