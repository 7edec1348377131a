// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bench is the benchmarking harness (spec §4.8): it generates a
// synthetic integer workload, times compress/decompress/get, and reports
// median/p95 per operation plus the observed compression ratio, playing the
// same role for this module's codecs that internal/tool/bench plays for the
// teacher's byte-oriented ones.
package bench

import (
	"fmt"
	"sort"
	"time"

	"github.com/MarouaneBenabdelkader/bitpacking"
	"github.com/MarouaneBenabdelkader/bitpacking/internal/geometry"
	"github.com/MarouaneBenabdelkader/bitpacking/internal/testutil"
)

// Stats summarises a sample of operation timings.
type Stats struct {
	Median time.Duration
	P95    time.Duration
}

func summarize(samples []time.Duration) Stats {
	if len(samples) == 0 {
		return Stats{}
	}
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return Stats{
		Median: sorted[len(sorted)/2],
		P95:    sorted[percentileIndex(len(sorted), 0.95)],
	}
}

func percentileIndex(n int, p float64) int {
	idx := int(p * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// Report is one structured record emitted per run (§6, "bench" subcommand).
type Report struct {
	Variant       string
	N             int
	K             int
	CompressRatio float64
	Compress      Stats
	Decompress    Stats
	Get           Stats
}

// Config parameterises a single bench run.
type Config struct {
	Variant    string
	N          int
	MaxValue   uint32
	Seed       int64
	// Iterations is the number of repeated Compress/Decompress calls timed
	// for the Compress/Decompress stats. Defaults to 20.
	Iterations int
	// GetSamples is the number of Get calls timed against a random index
	// sequence. Defaults to 1000, capped at N.
	GetSamples int
	Options    bitpack.Options
}

// Run generates a workload per Config, repeatedly times Compress and
// Decompress, times Get over a random index sequence, and returns the
// summarised report.
func Run(cfg Config) (Report, error) {
	values := testutil.RandomValues(cfg.N, cfg.MaxValue, cfg.Seed)

	iterations := cfg.Iterations
	if iterations <= 0 {
		iterations = 20
	}

	var codec bitpack.Codec
	compressTimings := make([]time.Duration, 0, iterations)
	for i := 0; i < iterations; i++ {
		c, err := bitpack.New(cfg.Variant, cfg.Options)
		if err != nil {
			return Report{}, err
		}
		start := time.Now()
		if err := c.Compress(values); err != nil {
			return Report{}, err
		}
		compressTimings = append(compressTimings, time.Since(start))
		codec = c
	}

	decompressTimings := make([]time.Duration, 0, iterations)
	var out []uint32
	for i := 0; i < iterations; i++ {
		start := time.Now()
		var err error
		out, err = codec.Decompress()
		if err != nil {
			return Report{}, err
		}
		decompressTimings = append(decompressTimings, time.Since(start))
	}
	if len(out) != cfg.N {
		return Report{}, fmt.Errorf("bench: decompressed length %d, want %d", len(out), cfg.N)
	}

	getSamples := cfg.GetSamples
	if getSamples <= 0 {
		getSamples = 1000
	}
	if cfg.N == 0 {
		getSamples = 0
	} else if getSamples > cfg.N {
		getSamples = cfg.N
	}
	indexes := testutil.RandomIndexes(getSamples, cfg.N, cfg.Seed+1)
	getTimings := make([]time.Duration, 0, getSamples)
	for _, idx := range indexes {
		start := time.Now()
		if _, err := codec.Get(idx); err != nil {
			return Report{}, err
		}
		getTimings = append(getTimings, time.Since(start))
	}

	rawBits := cfg.N * geometry.WordBits
	ratio := 1.0
	if codec.Bits() > 0 {
		ratio = float64(rawBits) / float64(codec.Bits())
	}

	return Report{
		Variant:       codec.Variant(),
		N:             codec.N(),
		K:             codec.K(),
		CompressRatio: ratio,
		Compress:      summarize(compressTimings),
		Decompress:    summarize(decompressTimings),
		Get:           summarize(getTimings),
	}, nil
}
