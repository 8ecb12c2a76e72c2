package load

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Fingerprint returns a stable hex digest of the snapshot. Struct fields are
// encoded in declaration order, so two snapshots with the same entities, the
// same attributes and the same ordering always hash to the same value. The
// CLI compares fingerprints to skip regeneration of unchanged output.
func (s *Snapshot) Fingerprint() (string, error) {
	raw, err := msgpack.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("load: fingerprint snapshot: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
