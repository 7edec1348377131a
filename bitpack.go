// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bitpack is a compact bit-packed representation of arrays of
// non-negative integers. It supports lossless full decompression, O(1)
// random access to any element, and three packing layouts — non-crossing,
// crossing, and overflow — that trade compression density against access
// simplicity. See the noncross, crossbit, and overflow subpackages for the
// layouts themselves; this package selects between them (Factory) and
// (de)serialises the resulting state to the wire envelope (§6).
package bitpack

import (
	"fmt"

	"github.com/MarouaneBenabdelkader/bitpacking/crossbit"
	"github.com/MarouaneBenabdelkader/bitpacking/noncross"
	"github.com/MarouaneBenabdelkader/bitpacking/overflow"
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "bitpack: " + string(e) }

var (
	// ErrUnknownVariant is a usage error: the requested codec name is not
	// one of the closed set in §4.5.
	ErrUnknownVariant error = Error("unknown variant")
	// ErrIndexRange names the index error kind. The codecs returned by New
	// and Decode do not wrap it: their Get wraps the layout package's own
	// ErrIndexRange (noncross, crossbit or overflow).
	ErrIndexRange error = Error("index out of range")
	// ErrBadEnvelope is returned when a loaded envelope is structurally
	// invalid for its declared variant (§7, Envelope errors).
	ErrBadEnvelope error = Error("bad envelope")
)

// Codec is the capability set shared by every packing layout (§9,
// Polymorphism): compress once, then read via Get or Decompress any number
// of times. A Codec is safe for concurrent Get calls provided no Compress
// runs concurrently (§5).
type Codec interface {
	// Compress packs values into the codec, replacing any prior state.
	// Compress is transactional: on error, the codec is left untouched.
	Compress(values []uint32) error
	// Decompress reconstructs the full value slice in element order.
	Decompress() ([]uint32, error)
	// Get returns the value at index i without materialising any other
	// element. When i is outside [0, N()) it returns an error wrapping the
	// layout package's ErrIndexRange.
	Get(i int) (uint32, error)
	// N reports the element count.
	N() int
	// K reports the effective bit-width per slot.
	K() int
	// Bits reports the total number of bits occupied by the packed state.
	Bits() int
	// Variant reports the envelope variant tag this instance actually
	// uses — which, for an overflow codec that fell back to single-tier
	// packing, is "noncross" or "cross", not "overflow" (§9, Open question).
	Variant() string
}

// Options configures codec construction. OverflowThreshold and Inner are
// only consulted by the overflow variant; New ignores them otherwise.
type Options struct {
	// OverflowThreshold is the overflow_threshold rank fraction in (0,1].
	// Zero selects overflow.DefaultThreshold.
	OverflowThreshold float64
	// Inner selects the overflow codec's main-stream layout: "noncross"
	// (default) or "cross".
	Inner string
}

// New selects a codec by name from the closed set {noncross, cross,
// overflow, overflow-noncross, overflow-cross} (§4.5); overflow and
// overflow-noncross are aliases, overflow-cross is the crossing-inner
// alias. Unknown names are a usage error.
func New(variant string, opts Options) (Codec, error) {
	switch variant {
	case "noncross":
		return noncross.New(), nil
	case "cross":
		return crossbit.New(), nil
	case "overflow", "overflow-noncross", "overflow-cross":
		inner := overflow.InnerNonCross
		if variant == "overflow-cross" {
			inner = overflow.InnerCross
		} else if opts.Inner != "" {
			parsed, err := overflow.ParseInner(opts.Inner)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrUnknownVariant, err)
			}
			inner = parsed
		}
		return overflow.New(overflow.Options{Threshold: opts.OverflowThreshold, Inner: inner}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
}
