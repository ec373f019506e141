package testutil

import (
	"math/rand"
	"sort"
	"sync"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Bytes returns n pseudo-random bytes over the full byte range.
func (r *RNG) Bytes(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := make([]byte, n)
	_, _ = r.rand.Read(b)
	return b
}

// Noise returns n pseudo-random lower-case ASCII letters.
func (r *RNG) Noise(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[r.rand.Intn(len(alphabet))]
	}
	return b
}

// Plant copies the concatenation of parts into buf at a random offset and
// returns that offset. The parts must fit into buf.
func (r *RNG) Plant(buf []byte, parts ...[]byte) int {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	at := r.Intn(len(buf) - n + 1)
	PlantAt(buf, at, parts...)
	return at
}

// PlantAt copies the concatenation of parts into buf at offset at.
func PlantAt(buf []byte, at int, parts ...[]byte) {
	for _, p := range parts {
		at += copy(buf[at:], p)
	}
}

// Spread returns count non-overlapping offsets in [0, size) spaced at least
// stride apart, in ascending order.
func (r *RNG) Spread(size, stride, count int) []int {
	slots := size / stride
	if count > slots {
		count = slots
	}
	r.mu.Lock()
	picked := r.rand.Perm(slots)[:count]
	r.mu.Unlock()

	offsets := make([]int, count)
	for i, s := range picked {
		offsets[i] = s * stride
	}
	sort.Ints(offsets)
	return offsets
}
