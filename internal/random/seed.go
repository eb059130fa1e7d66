// Package random provides seeds and per-request random sources.
//
// Seeds come from crypto/rand; the sources they initialize are math/rand
// generators, so a recorded seed replays the same roll.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// NewSource returns a generator seeded with seed. Each request gets its own.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
