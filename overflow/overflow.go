// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package overflow implements the two-tier overflow bit-packing layout: a
// small-width main stream carries a flag bit per slot, literal values at or
// below a rank-chosen cutoff, and an index into a side channel of full 32-bit
// values for everything above it. It composes noncross or crossbit as its
// configurable inner layout, the way xflate composes flate.
package overflow

import (
	"fmt"
	"math"
	"runtime"
	"sort"

	"github.com/dsnet/golib/errs"

	"github.com/MarouaneBenabdelkader/bitpacking/crossbit"
	"github.com/MarouaneBenabdelkader/bitpacking/internal/geometry"
	"github.com/MarouaneBenabdelkader/bitpacking/noncross"
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "overflow: " + string(e) }

var (
	ErrIndexRange   error = Error("index out of range")
	ErrBadEnvelope  error = Error("bad envelope")
	ErrBadInner     error = Error("unknown inner layout")
	ErrInternalMath error = Error("internal: inner width mismatch")
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

// DefaultThreshold is the overflow_threshold rank fraction used when the
// caller does not specify one.
const DefaultThreshold = 0.95

// Inner selects which packing layout carries the overflow codec's main
// slot stream.
type Inner int

const (
	InnerNonCross Inner = iota
	InnerCross
)

func (in Inner) String() string {
	if in == InnerCross {
		return "cross"
	}
	return "noncross"
}

// ParseInner parses the envelope's "inner" field, defaulting to noncross.
func ParseInner(s string) (Inner, error) {
	switch s {
	case "", "noncross":
		return InnerNonCross, nil
	case "cross":
		return InnerCross, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrBadInner, s)
	}
}

type innerCodec interface {
	Compress([]uint32) error
	Decompress() ([]uint32, error)
	Get(int) (uint32, error)
	N() int
	K() int
	Bits() int
	Variant() string
}

func newInner(sel Inner) innerCodec {
	if sel == InnerCross {
		return crossbit.New()
	}
	return noncross.New()
}

// wordsFor reports how many words the chosen inner layout would need to
// pack n slots of width k, matching noncross/crossbit's own sizing formula
// (§3 invariant 5) without requiring a materialised codec.
func wordsFor(sel Inner, n, k int) int {
	if n == 0 {
		return 0
	}
	if sel == InnerCross {
		return geometry.CeilDiv(n*k, geometry.WordBits)
	}
	return geometry.CeilDiv(n, geometry.Capacity(k))
}

// Options configures a Codec before Compress is called.
type Options struct {
	// Threshold is the overflow_threshold rank fraction in (0,1]; values
	// outside that range fall back to DefaultThreshold.
	Threshold float64
	// Inner selects the main-stream packing layout.
	Inner Inner
}

// Codec is the overflow packed representation of a []uint32.
type Codec struct {
	n        int
	opts     Options
	cutoff   uint32 // T
	kLow     int
	kMain    int
	overflow []uint32
	inner    innerCodec
	fellBack bool
}

// New returns an empty Codec configured with opts.
func New(opts Options) *Codec {
	if opts.Threshold <= 0 || opts.Threshold > 1 {
		opts.Threshold = DefaultThreshold
	}
	return &Codec{opts: opts}
}

// Variant reports the envelope variant tag actually used: "overflow", or
// the inner layout's name when the overflow-capacity fallback (§7.5) fired.
func (c *Codec) Variant() string {
	if c.fellBack {
		return c.inner.Variant()
	}
	return "overflow"
}

// FellBack reports whether Compress fell back to single-tier packing.
func (c *Codec) FellBack() bool { return c.fellBack }

// Inner reports the configured inner layout name.
func (c *Codec) Inner() string { return c.opts.Inner.String() }

// N reports the number of elements.
func (c *Codec) N() int { return c.n }

// K reports the effective bit-width per slot: k_main, or the inner codec's
// k when a fallback occurred.
func (c *Codec) K() int {
	if c.inner == nil {
		return 0
	}
	if c.fellBack {
		return c.inner.K()
	}
	return c.kMain
}

// KLow reports the payload bit-width under the flag bit, k_main-1.
func (c *Codec) KLow() int { return c.kLow }

// Threshold reports the cutoff value T.
func (c *Codec) Threshold() uint32 { return c.cutoff }

// Overflow returns the side-channel values. Callers must not mutate it.
func (c *Codec) Overflow() []uint32 { return c.overflow }

// Words returns the packed main-stream words. Callers must not mutate it.
func (c *Codec) Words() []uint32 {
	switch v := c.inner.(type) {
	case *noncross.Codec:
		return v.Words()
	case *crossbit.Codec:
		return v.Words()
	default:
		return nil
	}
}

// Bits reports the total bits occupied by the main stream plus, when not
// fallen back, the overflow side channel.
func (c *Codec) Bits() int {
	if c.inner == nil {
		return 0
	}
	b := c.inner.Bits()
	if !c.fellBack {
		b += len(c.overflow) * geometry.WordBits
	}
	return b
}

// Compress packs values into the receiver, replacing any prior state. It
// picks the rank cutoff T, widens k_main if the overflow side channel would
// not fit the flag payload, and falls back to single-tier packing (via the
// configured inner layout) when no value exceeds T or when the two-tier form
// would take more bits than single-tier packing; a tie keeps the two-tier
// form (§4.4, §7.5).
func (c *Codec) Compress(values []uint32) (err error) {
	defer errRecover(&err)

	n := len(values)
	opts := c.opts

	if n == 0 {
		inner := newInner(opts.Inner)
		errs.Panic(inner.Compress(nil))
		*c = Codec{opts: opts, inner: inner}
		return nil
	}

	var maxV uint32
	sorted := make([]uint32, n)
	copy(sorted, values)
	for _, v := range values {
		if v > maxV {
			maxV = v
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	rank := int(math.Ceil(opts.Threshold*float64(n))) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= n {
		rank = n - 1
	}
	cutoff := sorted[rank]

	overflowCount := 0
	for _, v := range values {
		if v > cutoff {
			overflowCount++
		}
	}

	kLow := geometry.BitsFor(cutoff)
	if kLow < 1 {
		kLow = 1
	}
	for kLow < 31 && int64(overflowCount) > int64(1)<<uint(kLow) {
		kLow++
	}
	kMain := kLow + 1
	capacityOK := int64(overflowCount) <= int64(1)<<uint(kLow)

	kSingle := geometry.BitsFor(maxV)
	if kSingle < 1 {
		kSingle = 1
	}
	twoTierCost := wordsFor(opts.Inner, n, kMain)*geometry.WordBits + geometry.WordBits*overflowCount
	singleTierCost := wordsFor(opts.Inner, n, kSingle) * geometry.WordBits

	// Two-tier is kept whenever its stored bits do not exceed the
	// single-tier cost; fallback is the exception. Zero outliers always
	// degrades: the flag bit would never be set, so kMain buys nothing
	// over packing the literal values directly at kSingle.
	if !capacityOK || overflowCount == 0 || twoTierCost > singleTierCost {
		inner := newInner(opts.Inner)
		errs.Panic(inner.Compress(values))
		*c = Codec{n: n, opts: opts, inner: inner, fellBack: true}
		return nil
	}

	overflowVals := make([]uint32, 0, overflowCount)
	slots := make([]uint32, n)
	flagBit := uint32(1) << uint(kLow)
	for i, v := range values {
		if v <= cutoff {
			slots[i] = v
		} else {
			j := len(overflowVals)
			overflowVals = append(overflowVals, v)
			slots[i] = uint32(j) | flagBit
		}
	}

	inner := newInner(opts.Inner)
	errs.Panic(inner.Compress(slots))
	errs.Assert(inner.K() == kMain, ErrInternalMath)

	*c = Codec{
		n: n, opts: opts, cutoff: cutoff, kLow: kLow, kMain: kMain,
		overflow: overflowVals, inner: inner,
	}
	return nil
}

// Get returns the value stored at slot i without materialising any other
// slot: one inner Get plus, for flagged slots, one overflow lookup.
func (c *Codec) Get(i int) (uint32, error) {
	if i < 0 || i >= c.n {
		return 0, fmt.Errorf("%w: index %d, n %d", ErrIndexRange, i, c.n)
	}
	slot, err := c.inner.Get(i)
	if err != nil {
		return 0, err
	}
	if c.fellBack {
		return slot, nil
	}
	flagBit := uint32(1) << uint(c.kLow)
	if slot&flagBit == 0 {
		return slot, nil
	}
	idx := slot &^ flagBit
	if int(idx) >= len(c.overflow) {
		return 0, fmt.Errorf("%w: overflow index %d out of range", ErrBadEnvelope, idx)
	}
	return c.overflow[idx], nil
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

// LoadOverflow reconstructs a two-tier Codec directly from envelope fields.
// A fallback-produced envelope carries a plain "noncross"/"cross" variant
// tag and never reaches this constructor; see the root package's Decode.
func LoadOverflow(n, kMain, kLow int, threshold uint32, words, overflowVals []uint32, inner Inner) (*Codec, error) {
	if n == 0 {
		if kMain != 0 || len(words) != 0 || len(overflowVals) != 0 {
			return nil, fmt.Errorf("%w: empty array must have k=0, words=[], overflow=[]", ErrBadEnvelope)
		}
		ic := newInner(inner)
		if err := ic.Compress(nil); err != nil {
			return nil, err
		}
		return &Codec{opts: Options{Inner: inner}, inner: ic}, nil
	}
	if kLow < 1 || kMain != kLow+1 {
		return nil, fmt.Errorf("%w: k_main=%d inconsistent with k_low=%d", ErrBadEnvelope, kMain, kLow)
	}
	var ic innerCodec
	var err error
	if inner == InnerCross {
		ic, err = crossbit.LoadWords(n, kMain, words)
	} else {
		ic, err = noncross.LoadWords(n, kMain, words)
	}
	if err != nil {
		return nil, err
	}
	return &Codec{
		n: n, opts: Options{Inner: inner}, cutoff: threshold, kLow: kLow,
		kMain: kMain, overflow: overflowVals, inner: ic,
	}, nil
}
