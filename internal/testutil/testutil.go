// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package testutil is a collection of testing and benchmarking helper
// methods, playing the same role for this module's integer workloads that
// the teacher's internal/testutil plays for byte corpora: a deterministic,
// seedable stand-in for "load a fixture" in a domain with no natural text
// corpus to load.
package testutil

import "math/rand"

// RandomValues generates n non-negative integers in [0, maxV], deterministic
// for a given seed so property tests and bench runs are reproducible.
func RandomValues(n int, maxV uint32, seed int64) []uint32 {
	r := rand.New(rand.NewSource(seed))
	out := make([]uint32, n)
	if maxV == 0 {
		return out
	}
	for i := range out {
		out[i] = uint32(r.Int63n(int64(maxV) + 1))
	}
	return out
}

// RandomIndexes generates a random permutation-like sequence of cnt indexes
// in [0, n), with replacement, for exercising Get.
func RandomIndexes(cnt, n int, seed int64) []int {
	r := rand.New(rand.NewSource(seed))
	out := make([]int, cnt)
	if n == 0 {
		return out
	}
	for i := range out {
		out[i] = r.Intn(n)
	}
	return out
}
