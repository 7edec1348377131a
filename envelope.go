// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitpack

import (
	"fmt"

	"github.com/MarouaneBenabdelkader/bitpacking/crossbit"
	"github.com/MarouaneBenabdelkader/bitpacking/noncross"
	"github.com/MarouaneBenabdelkader/bitpacking/overflow"
)

// Envelope is the wire/on-disk record described in spec §6. All integers
// are non-negative; fields not used by a given variant are omitted.
type Envelope struct {
	Variant   string   `json:"variant"`
	N         int      `json:"n"`
	K         int      `json:"k"`
	Words     []uint32 `json:"words"`
	Inner     string   `json:"inner,omitempty"`
	Threshold uint32   `json:"threshold,omitempty"`
	KLow      int      `json:"k_low,omitempty"`
	Overflow  []uint32 `json:"overflow,omitempty"`
}

// Encode builds the envelope for an already-compressed codec.
func Encode(c Codec) (*Envelope, error) {
	env := &Envelope{
		Variant: c.Variant(),
		N:       c.N(),
		K:       c.K(),
	}
	switch v := c.(type) {
	case *noncross.Codec:
		env.Words = v.Words()
	case *crossbit.Codec:
		env.Words = v.Words()
	case *overflow.Codec:
		env.Words = v.Words()
		if !v.FellBack() {
			env.Inner = v.Inner()
			env.Threshold = v.Threshold()
			env.KLow = v.KLow()
			env.Overflow = v.Overflow()
		}
	default:
		return nil, fmt.Errorf("%w: unrecognised codec type %T", ErrBadEnvelope, c)
	}
	if env.Words == nil {
		env.Words = []uint32{}
	}
	return env, nil
}

// Decode reconstructs a Codec from an envelope, validating n, k, k_low and
// the words length against the declared variant's layout (§4.6, §7 Envelope
// errors). Extra fields are ignored. A field absent from the envelope reads
// as its zero value: a missing inner selects noncross, and a missing
// overflow list is not detected until Get reaches a flagged slot.
func Decode(env *Envelope) (Codec, error) {
	switch env.Variant {
	case "noncross":
		return noncross.LoadWords(env.N, env.K, env.Words)
	case "cross":
		return crossbit.LoadWords(env.N, env.K, env.Words)
	case "overflow":
		inner, err := overflow.ParseInner(env.Inner)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadEnvelope, err)
		}
		return overflow.LoadOverflow(env.N, env.K, env.KLow, env.Threshold, env.Words, env.Overflow, inner)
	default:
		return nil, fmt.Errorf("%w: unknown variant %q", ErrBadEnvelope, env.Variant)
	}
}
