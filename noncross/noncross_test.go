// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package noncross

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompressDecompress(t *testing.T) {
	var vectors = []struct {
		desc      string
		input     []uint32
		wantK     int
		wantWords int
	}{
		{"empty", nil, 0, 0},
		{"all zeros", []uint32{0, 0, 0, 0}, 1, 1},
		{"scenario 1", []uint32{1, 5, 3, 7, 2, 8, 4, 6, 9, 10}, 4, 2},
		{"max value", []uint32{1<<32 - 1}, 32, 1},
		{"single element", []uint32{42}, 6, 1},
	}
	for _, v := range vectors {
		t.Run(v.desc, func(t *testing.T) {
			c := New()
			if err := c.Compress(v.input); err != nil {
				t.Fatalf("Compress error: %v", err)
			}
			if c.K() != v.wantK {
				t.Errorf("K() = %d, want %d", c.K(), v.wantK)
			}
			if len(c.Words()) != v.wantWords {
				t.Errorf("len(Words()) = %d, want %d", len(c.Words()), v.wantWords)
			}
			out, err := c.Decompress()
			if err != nil {
				t.Fatalf("Decompress error: %v", err)
			}
			want := v.input
			if want == nil {
				want = []uint32{}
			}
			if diff := cmp.Diff(want, out); diff != "" {
				t.Errorf("Decompress() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetAgreement(t *testing.T) {
	values := []uint32{1, 5, 3, 7, 2, 8, 4, 6, 9, 10}
	c := New()
	if err := c.Compress(values); err != nil {
		t.Fatal(err)
	}
	if got, err := c.Get(3); err != nil || got != 7 {
		t.Errorf("Get(3) = (%d, %v), want (7, nil)", got, err)
	}
	for i, want := range values {
		got, err := c.Get(i)
		if err != nil {
			t.Fatalf("Get(%d) error: %v", i, err)
		}
		if got != want {
			t.Errorf("Get(%d) = %d, want %d", i, got, want)
		}
	}
	// Independence of access: repeated calls agree.
	for i := 0; i < 3; i++ {
		if got, _ := c.Get(5); got != values[5] {
			t.Errorf("Get(5) call %d = %d, want %d", i, got, values[5])
		}
	}
}

func TestGetIndexRange(t *testing.T) {
	c := New()
	if err := c.Compress([]uint32{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(-1); !errors.Is(err, ErrIndexRange) {
		t.Errorf("Get(-1) error = %v, want ErrIndexRange", err)
	}
	if _, err := c.Get(3); !errors.Is(err, ErrIndexRange) {
		t.Errorf("Get(3) error = %v, want ErrIndexRange", err)
	}
}

func TestEmptyGetIsIndexError(t *testing.T) {
	c := New()
	if err := c.Compress(nil); err != nil {
		t.Fatal(err)
	}
	if c.N() != 0 || c.K() != 0 || len(c.Words()) != 0 {
		t.Errorf("empty codec = (n=%d, k=%d, words=%d), want all zero", c.N(), c.K(), len(c.Words()))
	}
	if _, err := c.Get(0); !errors.Is(err, ErrIndexRange) {
		t.Errorf("Get(0) on empty codec error = %v, want ErrIndexRange", err)
	}
}

func TestSizeMonotonicity(t *testing.T) {
	n := 100
	small := make([]uint32, n)
	for i := range small {
		small[i] = 1
	}
	large := make([]uint32, n)
	for i := range large {
		large[i] = 1 << 20
	}
	c1, c2 := New(), New()
	if err := c1.Compress(small); err != nil {
		t.Fatal(err)
	}
	if err := c2.Compress(large); err != nil {
		t.Fatal(err)
	}
	if len(c2.Words()) < len(c1.Words()) {
		t.Errorf("len(Words()) decreased with larger max value: %d < %d", len(c2.Words()), len(c1.Words()))
	}
}

func TestLoadWordsRejectsBadEnvelope(t *testing.T) {
	if _, err := LoadWords(4, 4, []uint32{0}); err == nil {
		t.Error("LoadWords with too few words should fail")
	}
	if _, err := LoadWords(0, 1, nil); err == nil {
		t.Error("LoadWords with n=0 but k!=0 should fail")
	}
	c, err := LoadWords(10, 4, []uint32{0x76543210, 0xa9876})
	if err != nil {
		t.Fatalf("LoadWords: %v", err)
	}
	if v, err := c.Get(0); err != nil || v != 0 {
		t.Errorf("Get(0) = (%d, %v), want (0, nil)", v, err)
	}
}
