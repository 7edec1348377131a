// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package crossbit implements the crossing bit-packing layout: values are
// packed contiguously into a bit stream with no wasted bits, so a slot may
// straddle two consecutive words.
package crossbit

import (
	"fmt"
	"runtime"

	"github.com/dsnet/golib/errs"

	"github.com/MarouaneBenabdelkader/bitpacking/internal/geometry"
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "crossbit: " + string(e) }

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

// Codec is the crossing packed representation of a []uint32.
type Codec struct {
	n     int
	k     int
	words []uint32
}

// New returns an empty Codec.
func New() *Codec { return &Codec{} }

// Variant reports the packing layout name used in the envelope.
func (c *Codec) Variant() string { return "cross" }

// N reports the number of elements.
func (c *Codec) N() int { return c.n }

// K reports the bit-width per slot.
func (c *Codec) K() int { return c.k }

// Words returns the packed word slice. Callers must not mutate it.
func (c *Codec) Words() []uint32 { return c.words }

// Bits reports the total number of bits occupied by the packed words.
func (c *Codec) Bits() int { return len(c.words) * geometry.WordBits }

// Compress packs values into the receiver, replacing any prior state.
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
		k = 1
	}
	errs.Assert(k <= geometry.WordBits, ErrValueRange)

	var packed []uint32
	if n > 0 {
		nWords := geometry.CeilDiv(n*k, geometry.WordBits)
		packed = make([]uint32, nWords)
		mask := geometry.Mask(k)
		for i, v := range values {
			errs.Assert(uint64(v) <= mask, ErrValueRange)
			lo := uint64(v) & mask
			bit := i * k
			w := bit / geometry.WordBits
			off := uint(bit % geometry.WordBits)
			packed[w] |= uint32(lo << off)
			if off+uint(k) > geometry.WordBits {
				packed[w+1] |= uint32(lo >> (geometry.WordBits - off))
			}
		}
	}

	*c = Codec{n: n, k: k, words: packed}
	return nil
}

// Get returns the value stored at slot i, reading across a word boundary
// when the slot straddles one. The high word is treated as zero when it
// would fall past the end of Words() (the final-straddle edge case).
func (c *Codec) Get(i int) (uint32, error) {
	if i < 0 || i >= c.n {
		return 0, fmt.Errorf("%w: index %d, n %d", ErrIndexRange, i, c.n)
	}
	bit := i * c.k
	w := bit / geometry.WordBits
	off := uint(bit % geometry.WordBits)
	mask := geometry.Mask(c.k)

	lo := uint64(c.words[w]) >> off
	var hi uint64
	if off+uint(c.k) > geometry.WordBits && w+1 < len(c.words) {
		hi = uint64(c.words[w+1]) << (geometry.WordBits - off)
	}
	return uint32((lo | hi) & mask), nil
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
	wantWords := geometry.CeilDiv(n*k, geometry.WordBits)
	if len(words) != wantWords {
		return nil, fmt.Errorf("%w: words length %d, want %d", Error("bad envelope"), len(words), wantWords)
	}
	return &Codec{n: n, k: k, words: words}, nil
}
