// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package noncross implements the non-crossing bit-packing layout: cap =
// floor(32/k) values are packed per 32-bit word and a slot never straddles a
// word boundary, trading some wasted high bits for a branch-free Get.
package noncross

import (
	"fmt"
	"runtime"

	"github.com/dsnet/golib/errs"

	"github.com/MarouaneBenabdelkader/bitpacking/internal/geometry"
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "noncross: " + string(e) }

var (
	ErrValueRange error = Error("value exceeds 32 bits")
	ErrIndexRange error = Error("index out of range")
)

func errRecover(err *error) {
	switch ex := recover().(type) {
	case nil:
		// Do nothing.
	case runtime.Error:
		panic(ex)
	case error:
		*err = ex
	default:
		panic(ex)
	}
}

// Codec is the non-crossing packed representation of a []uint32. The zero
// value is an empty codec (n=0, k=0); it becomes populated by Compress and is
// read-only thereafter until a subsequent Compress replaces its state.
type Codec struct {
	n     int
	k     int
	cap   int
	words []uint32
}

// New returns an empty Codec.
func New() *Codec { return &Codec{} }

// Variant reports the packing layout name used in the envelope.
func (c *Codec) Variant() string { return "noncross" }

// N reports the number of elements.
func (c *Codec) N() int { return c.n }

// K reports the bit-width per slot.
func (c *Codec) K() int { return c.k }

// Cap reports the number of slots per word, floor(32/K()).
func (c *Codec) Cap() int { return c.cap }

// Words returns the packed word slice. Callers must not mutate it.
func (c *Codec) Words() []uint32 { return c.words }

// Bits reports the total number of bits occupied by the packed words.
func (c *Codec) Bits() int { return len(c.words) * geometry.WordBits }

// Compress packs values into the receiver, replacing any prior state. On
// failure the receiver is left untouched (compress is transactional).
func (c *Codec) Compress(values []uint32) (err error) {
	defer errRecover(&err)

	n := len(values)
	var maxV uint32
	for _, v := range values {
		if v > maxV {
			maxV = v
		}
	}
	k := geometry.BitsFor(maxV)
	if n > 0 && k == 0 {
		k = 1 // a zero-only array still needs one bit per slot
	}
	errs.Assert(k <= geometry.WordBits, ErrValueRange)

	capSlots := 0
	var packed []uint32
	if n > 0 {
		capSlots = geometry.Capacity(k)
		nWords := geometry.CeilDiv(n, capSlots)
		packed = make([]uint32, nWords)
		mask := geometry.Mask(k)
		for i, v := range values {
			errs.Assert(uint64(v) <= mask, ErrValueRange)
			word := i / capSlots
			off := uint(i%capSlots) * uint(k)
			packed[word] |= uint32((uint64(v) & mask) << off)
		}
	}

	*c = Codec{n: n, k: k, cap: capSlots, words: packed}
	return nil
}

// Get returns the value stored at slot i without materialising any other
// slot. It fails with ErrIndexRange when i is outside [0, N()).
func (c *Codec) Get(i int) (uint32, error) {
	if i < 0 || i >= c.n {
		return 0, fmt.Errorf("%w: index %d, n %d", ErrIndexRange, i, c.n)
	}
	off := uint(i%c.cap) * uint(c.k)
	mask := geometry.Mask(c.k)
	return uint32((uint64(c.words[i/c.cap]) >> off) & mask), nil
}

// Decompress reconstructs the full value slice in slot order.
func (c *Codec) Decompress() ([]uint32, error) {
	out := make([]uint32, c.n)
	for i := range out {
		v, err := c.Get(i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// LoadWords reconstructs a Codec directly from envelope fields, validating
// the invariants an on-disk envelope must satisfy (§7, Envelope errors).
func LoadWords(n, k int, words []uint32) (*Codec, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative n", Error("bad envelope"))
	}
	if n == 0 {
		if k != 0 || len(words) != 0 {
			return nil, fmt.Errorf("%w: empty array must have k=0, words=[]", Error("bad envelope"))
		}
		return &Codec{}, nil
	}
	if k <= 0 || k > geometry.WordBits {
		return nil, fmt.Errorf("%w: k=%d out of range for n=%d", Error("bad envelope"), k, n)
	}
	capSlots := geometry.Capacity(k)
	wantWords := geometry.CeilDiv(n, capSlots)
	if len(words) != wantWords {
		return nil, fmt.Errorf("%w: words length %d, want %d", Error("bad envelope"), len(words), wantWords)
	}
	return &Codec{n: n, k: k, cap: capSlots, words: words}, nil
}
