// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitpack

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewClosedVariantSet(t *testing.T) {
	for _, variant := range []string{"noncross", "cross", "overflow", "overflow-noncross", "overflow-cross"} {
		if _, err := New(variant, Options{}); err != nil {
			t.Errorf("New(%q) error: %v", variant, err)
		}
	}
	if _, err := New("bogus", Options{}); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("New(\"bogus\") error = %v, want ErrUnknownVariant", err)
	}
}

func TestNewOverflowCrossAliasSetsInner(t *testing.T) {
	c, err := New("overflow-cross", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Compress([]uint32{1, 2, 1000}); err != nil {
		t.Fatal(err)
	}
	if c.Variant() != "overflow" && c.Variant() != "cross" {
		t.Errorf("Variant() = %q, want overflow or a fallback to cross", c.Variant())
	}
}

func TestNewOverflowBadInnerIsUsageError(t *testing.T) {
	if _, err := New("overflow", Options{Inner: "bogus"}); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("New with bad inner error = %v, want ErrUnknownVariant", err)
	}
}

func TestScenariosRoundTripThroughCodec(t *testing.T) {
	var scenarios = []struct {
		desc    string
		variant string
		opts    Options
		input   []uint32
	}{
		{"noncross", "noncross", Options{}, []uint32{1, 5, 3, 7, 2, 8, 4, 6, 9, 10}},
		{"cross", "cross", Options{}, []uint32{1, 5, 3, 7, 2, 8, 4, 6, 9, 10}},
		{"overflow literal+outlier", "overflow", Options{OverflowThreshold: 0.8}, []uint32{100, 200, 65000, 300, 400}},
		{"overflow cross-inner", "overflow-cross", Options{OverflowThreshold: 0.7}, []uint32{1, 2, 3, 1024, 4, 5, 2048}},
	}
	for _, s := range scenarios {
		t.Run(s.desc, func(t *testing.T) {
			c, err := New(s.variant, s.opts)
			if err != nil {
				t.Fatal(err)
			}
			if err := c.Compress(s.input); err != nil {
				t.Fatal(err)
			}
			out, err := c.Decompress()
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(s.input, out); diff != "" {
				t.Errorf("Decompress() mismatch (-want +got):\n%s", diff)
			}
			for i, want := range s.input {
				got, err := c.Get(i)
				if err != nil {
					t.Fatalf("Get(%d) error: %v", i, err)
				}
				if got != want {
					t.Errorf("Get(%d) = %d, want %d", i, got, want)
				}
			}
		})
	}
}
