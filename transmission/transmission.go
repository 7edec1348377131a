// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package transmission implements the closed-form transmission-time model
// (spec §4.7): a pure comparison of transferring raw versus compressed data
// over a given bandwidth and one-way latency.
package transmission

import "time"

// Ladder is the fixed sweep of representative bandwidths used when a
// caller requests a multi-bandwidth report, from dial-up through a
// datacenter NIC — representative rates, not a continuum, the same way the
// teacher's bench tool sweeps a fixed compression-level ladder rather than
// every level.
var Ladder = []float64{
	56e3,  // 56 Kb/s, dial-up
	1e6,   // 1 Mb/s
	10e6,  // 10 Mb/s
	100e6, // 100 Mb/s
	1e9,   // 1 Gb/s
	10e9,  // 10 Gb/s
}

// Inputs are the six values the model compares.
type Inputs struct {
	RawBits        int64
	CompressedBits int64
	CompressTime   time.Duration
	DecompressTime time.Duration
	BandwidthBps   float64
	OneWayLatency  time.Duration
}

// Report is the result of evaluating Inputs at one bandwidth.
type Report struct {
	Inputs
	RawTime        time.Duration
	CompressedTime time.Duration
	CompressedWins bool
}

// Evaluate computes T_raw = latency + raw/bw and
// T_cmp = latency + t_compress + compressed/bw + t_decompress (spec §4.7).
func Evaluate(in Inputs) Report {
	raw := in.OneWayLatency + bitsToDuration(in.RawBits, in.BandwidthBps)
	cmp := in.OneWayLatency + in.CompressTime + bitsToDuration(in.CompressedBits, in.BandwidthBps) + in.DecompressTime
	return Report{
		Inputs:         in,
		RawTime:        raw,
		CompressedTime: cmp,
		CompressedWins: cmp < raw,
	}
}

// Sweep evaluates the same sizes and times across Ladder, holding everything
// but bandwidth fixed.
func Sweep(rawBits, compressedBits int64, compressTime, decompressTime, latency time.Duration) []Report {
	reports := make([]Report, len(Ladder))
	for i, bw := range Ladder {
		reports[i] = Evaluate(Inputs{
			RawBits:        rawBits,
			CompressedBits: compressedBits,
			CompressTime:   compressTime,
			DecompressTime: decompressTime,
			BandwidthBps:   bw,
			OneWayLatency:  latency,
		})
	}
	return reports
}

func bitsToDuration(bits int64, bandwidthBps float64) time.Duration {
	if bandwidthBps <= 0 {
		return 0
	}
	seconds := float64(bits) / bandwidthBps
	return time.Duration(seconds * float64(time.Second))
}
