package randutil

import (
	crand "crypto/rand"
	"encoding/binary"
	rand "math/rand/v2"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by rand/v2
// so that all call sites get reproducible sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Derive returns a child rand source for stream n of a run, so concurrent
// workers can share one seed without sharing a lock.
func Derive(seed int64, n int64) *rand.Rand {
	return New(int64(mix(uint64(seed)) ^ uint64(n)*goldenRatio64))
}

// Seed resolves a user-supplied seed: non-zero values pass through so runs
// can be replayed, zero draws a fresh seed from the OS entropy pool.
func Seed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		panic("randutil: reading entropy: " + err.Error())
	}
	s := int64(binary.LittleEndian.Uint64(buf[:]))
	if s == 0 {
		g := uint64(goldenRatio64)
		s = int64(g)
	}
	return s
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
