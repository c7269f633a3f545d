// Package testutil provides deterministic helpers for tests.
package testutil

import "math/rand"

// Ints returns n pseudo-random int64 values from a fixed seed.
//
// The same (seed, n) pair always yields the same slice, so property-style
// tests (sum invariance under sort, sort idempotence, render ordering) stay
// reproducible without golden data.
func Ints(seed int64, n int) []int64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]int64, n)
	for i := range out {
		// Int63 only covers non-negative values; flip half the samples so
		// generated sequences exercise negative elements too.
		v := rng.Int63()
		if rng.Intn(2) == 0 {
			v = -v
		}
		out[i] = v
	}
	return out
}

// SmallInts is like Ints but bounds values to [-limit, limit].
// Useful when tests want human-readable rendered output.
func SmallInts(seed int64, n int, limit int64) []int64 {
	if limit <= 0 {
		limit = 1
	}
	rng := rand.New(rand.NewSource(seed))
	out := make([]int64, n)
	for i := range out {
		out[i] = rng.Int63n(2*limit+1) - limit
	}
	return out
}
