// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package geometry

import "testing"

func TestBitsFor(t *testing.T) {
	var vectors = []struct {
		v    uint32
		want int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 3},
		{255, 8},
		{256, 9},
		{1<<32 - 1, 32},
	}
	for i, v := range vectors {
		if got := BitsFor(v.v); got != v.want {
			t.Errorf("test %d, BitsFor(%d) = %d, want %d", i, v.v, got, v.want)
		}
	}
}

func TestCapacity(t *testing.T) {
	var vectors = []struct {
		k    int
		want int
	}{
		{1, 32}, {2, 16}, {4, 8}, {8, 4}, {16, 2}, {32, 1}, {17, 1}, {9, 3},
	}
	for i, v := range vectors {
		if got := Capacity(v.k); got != v.want {
			t.Errorf("test %d, Capacity(%d) = %d, want %d", i, v.k, got, v.want)
		}
	}
}

func TestMask(t *testing.T) {
	var vectors = []struct {
		k    int
		want uint64
	}{
		{0, 0},
		{1, 0x1},
		{4, 0xf},
		{32, 0xffffffff},
	}
	for i, v := range vectors {
		if got := Mask(v.k); got != v.want {
			t.Errorf("test %d, Mask(%d) = %#x, want %#x", i, v.k, got, v.want)
		}
	}
}

func TestCeilDiv(t *testing.T) {
	var vectors = []struct {
		n, m, want int
	}{
		{0, 8, 0}, {1, 8, 1}, {8, 8, 1}, {9, 8, 2}, {40, 32, 2},
	}
	for i, v := range vectors {
		if got := CeilDiv(v.n, v.m); got != v.want {
			t.Errorf("test %d, CeilDiv(%d,%d) = %d, want %d", i, v.n, v.m, got, v.want)
		}
	}
}
