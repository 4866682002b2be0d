package cards

import (
	"encoding/hex"
	"fmt"
	"math/rand/v2"
)

// Seed is a 32-byte seed for reproducible shuffles.
type Seed [32]byte

// ParseSeed decodes a 64-character hex string.
func ParseSeed(s string) (Seed, error) {
	var seed Seed
	b, err := hex.DecodeString(s)
	if err != nil {
		return seed, fmt.Errorf("parse seed: %w", err)
	}
	if len(b) != len(seed) {
		return seed, fmt.Errorf("parse seed: want %d bytes, got %d", len(seed), len(b))
	}
	copy(seed[:], b)
	return seed, nil
}

// String returns the seed as lowercase hex.
func (s Seed) String() string {
	return hex.EncodeToString(s[:])
}

// Rand returns a ChaCha8 generator seeded with s.
func (s Seed) Rand() *rand.Rand {
	return rand.New(rand.NewChaCha8(s))
}

// NewRand returns an unseeded generator for shuffles that need not be
// reproducible.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
