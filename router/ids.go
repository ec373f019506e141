package router

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// IDSource mints the numeric part of output names. The router calls Next
// while holding its lock.
type IDSource interface {
	Next() uint32
}

type randomIDs struct {
	rng *rand.Rand
}

// RandomIDs returns a pseudo-random source seeded with seed. Equal seeds
// yield equal sequences.
func RandomIDs(seed uint64) IDSource {
	return &randomIDs{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *randomIDs) Next() uint32 { return s.rng.Uint32() }

type sequentialIDs struct {
	next uint32
}

// SequentialIDs returns start, start+1, ... wrapping at 2^32.
func SequentialIDs(start uint32) IDSource {
	return &sequentialIDs{next: start}
}

func (s *sequentialIDs) Next() uint32 {
	id := s.next
	s.next++
	return id
}

// IDFunc adapts a function to IDSource.
type IDFunc func() uint32

// Next calls f.
func (f IDFunc) Next() uint32 { return f() }

func defaultIDs() IDSource {
	var seed [8]byte
	_, _ = crand.Read(seed[:])
	return RandomIDs(binary.LittleEndian.Uint64(seed[:]))
}
