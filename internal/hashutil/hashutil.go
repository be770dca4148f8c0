package hashutil

import (
	"crypto/sha256"
	"encoding/binary"
	"strconv"
)

// Seed turns a seed phrase into a random source seed. Integer phrases are used
// as-is so ACTIVITY_SEED=42 means seed 42; anything else is hashed with SHA256.
func Seed(phrase string) uint64 {
	if n, err := strconv.ParseUint(phrase, 10, 64); err == nil {
		return n
	}
	sum := sha256.Sum256([]byte(phrase))
	return binary.BigEndian.Uint64(sum[:8])
}
