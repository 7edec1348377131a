// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"testing"

	"github.com/MarouaneBenabdelkader/bitpacking"
)

func TestRunProducesPlausibleReport(t *testing.T) {
	cfg := Config{
		Variant:    "noncross",
		N:          2000,
		MaxValue:   1 << 16,
		Seed:       7,
		Iterations: 3,
		GetSamples: 200,
	}
	report, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if report.Variant != "noncross" {
		t.Errorf("Variant = %q, want %q", report.Variant, "noncross")
	}
	if report.N != cfg.N {
		t.Errorf("N = %d, want %d", report.N, cfg.N)
	}
	if report.K != 16 {
		t.Errorf("K = %d, want 16", report.K)
	}
	if report.CompressRatio <= 1 {
		t.Errorf("CompressRatio = %v, want > 1 for a narrower-than-32-bit workload", report.CompressRatio)
	}
	if report.Compress.Median < 0 || report.Decompress.Median < 0 || report.Get.Median < 0 {
		t.Errorf("negative timing in report: %+v", report)
	}
}

func TestRunOverflowVariant(t *testing.T) {
	report, err := Run(Config{
		Variant:    "overflow",
		N:          500,
		MaxValue:   1 << 20,
		Seed:       11,
		Iterations: 2,
		GetSamples: 50,
		Options:    bitpack.Options{OverflowThreshold: 0.9},
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if report.Variant != "overflow" && report.Variant != "noncross" {
		t.Errorf("Variant = %q, want overflow or a fallback to noncross", report.Variant)
	}
}

func TestRunEmptyWorkload(t *testing.T) {
	report, err := Run(Config{Variant: "noncross", N: 0, Iterations: 1, GetSamples: 10})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if report.N != 0 {
		t.Errorf("N = %d, want 0", report.N)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if s := summarize(nil); s != (Stats{}) {
		t.Errorf("summarize(nil) = %+v, want zero value", s)
	}
}
