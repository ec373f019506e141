// Package testutil provides testing utilities for sigcarve.
//
// This package is intended for use in tests and benchmarks only.
//
// # Reproducible Buffers
//
//	rng := testutil.NewRNG(seed)
//	buf := rng.Noise(1 << 20)                 // lower-case letters only
//	at := rng.Plant(buf, []byte("MAGIC"), id) // returns the planted offset
//
// Noise never contains upper-case letters or binary bytes, so signatures
// built from those only match where they were planted.
package testutil
