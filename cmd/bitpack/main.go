// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Command bitpack is the CLI surface for the bit-packing codec (spec §6):
// compress, decompress, get, bench, transmission, and an interactive REPL
// over the same operations.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	bitpack "github.com/MarouaneBenabdelkader/bitpacking"
	"github.com/MarouaneBenabdelkader/bitpacking/bench"
	"github.com/MarouaneBenabdelkader/bitpacking/internal/geometry"
	"github.com/MarouaneBenabdelkader/bitpacking/transmission"
)

// Exit codes per spec §6.
const (
	exitOK    = 0
	exitUsage = 1
	exitData  = 2
)

var errLog = log.New(os.Stderr, "", 0)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(exitUsage)
	}
	var code int
	switch os.Args[1] {
	case "compress":
		code = runCompress(os.Args[2:])
	case "decompress":
		code = runDecompress(os.Args[2:])
	case "get":
		code = runGet(os.Args[2:])
	case "bench":
		code = runBench(os.Args[2:])
	case "transmission":
		code = runTransmission(os.Args[2:])
	case "interactive":
		code = runInteractive(os.Args[2:])
	case "-h", "-help", "--help", "help":
		usage()
		code = exitOK
	default:
		errLog.Printf("unknown subcommand %q", os.Args[1])
		usage()
		code = exitUsage
	}
	os.Exit(code)
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: bitpack <subcommand> [flags]

subcommands:
  compress --in <path> --out <path> [--variant v] [--threshold f] [--inner layout]
  decompress --in <path> --out <path>
  get --in <path> --index <i>
  bench [--variant v] [--n n] [--max v] [--seed s]
  transmission [--file <envelope>] [--raw-bits b] [--compressed-bits b] ...
  interactive`)
}

func variantFlags(fs *flag.FlagSet) (variant *string, threshold *float64, inner *string) {
	variant = fs.String("variant", "noncross", "codec variant: noncross, cross, overflow, overflow-cross")
	threshold = fs.Float64("threshold", 0, "overflow_threshold rank fraction in (0,1], overflow variants only")
	inner = fs.String("inner", "", "overflow inner layout: noncross or cross")
	return
}

func runCompress(args []string) int {
	fs := flag.NewFlagSet("compress", flag.ContinueOnError)
	in := fs.String("in", "", "input JSON array path")
	out := fs.String("out", "", "output envelope path")
	variant, threshold, inner := variantFlags(fs)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *in == "" || *out == "" {
		errLog.Println("compress: --in and --out are required")
		return exitUsage
	}

	values, err := readValues(*in)
	if err != nil {
		errLog.Println(err)
		return exitData
	}

	codec, err := bitpack.New(*variant, bitpack.Options{OverflowThreshold: *threshold, Inner: *inner})
	if err != nil {
		errLog.Println(err)
		return exitUsage
	}
	if err := codec.Compress(values); err != nil {
		errLog.Println(err)
		return exitData
	}

	env, err := bitpack.Encode(codec)
	if err != nil {
		errLog.Println(err)
		return exitData
	}
	if err := writeJSON(*out, env); err != nil {
		errLog.Println(err)
		return exitData
	}
	return exitOK
}

func runDecompress(args []string) int {
	fs := flag.NewFlagSet("decompress", flag.ContinueOnError)
	in := fs.String("in", "", "input envelope path")
	out := fs.String("out", "", "output JSON array path")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *in == "" || *out == "" {
		errLog.Println("decompress: --in and --out are required")
		return exitUsage
	}

	codec, err := loadCodec(*in)
	if err != nil {
		errLog.Println(err)
		return exitData
	}
	values, err := codec.Decompress()
	if err != nil {
		errLog.Println(err)
		return exitData
	}
	if err := writeJSON(*out, values); err != nil {
		errLog.Println(err)
		return exitData
	}
	return exitOK
}

func runGet(args []string) int {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	in := fs.String("in", "", "input envelope path")
	index := fs.Int("index", -1, "element index")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *in == "" {
		errLog.Println("get: --in is required")
		return exitUsage
	}

	codec, err := loadCodec(*in)
	if err != nil {
		errLog.Println(err)
		return exitData
	}
	v, err := codec.Get(*index)
	if err != nil {
		errLog.Println(err)
		return exitData
	}
	fmt.Println(v)
	return exitOK
}

func runBench(args []string) int {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	variant, threshold, inner := variantFlags(fs)
	n := fs.Int("n", 100000, "element count")
	maxV := fs.Uint("max", 1<<20, "maximum element value")
	seed := fs.Int64("seed", 1, "random seed")
	iterations := fs.Int("iterations", 20, "compress/decompress repetitions")
	getSamples := fs.Int("get-samples", 1000, "number of Get calls timed")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	report, err := bench.Run(bench.Config{
		Variant:    *variant,
		N:          *n,
		MaxValue:   uint32(*maxV),
		Seed:       *seed,
		Iterations: *iterations,
		GetSamples: *getSamples,
		Options:    bitpack.Options{OverflowThreshold: *threshold, Inner: *inner},
	})
	if err != nil {
		errLog.Println(err)
		return exitData
	}

	enc := json.NewEncoder(os.Stdout)
	if err := enc.Encode(report); err != nil {
		errLog.Println(err)
		return exitData
	}
	return exitOK
}

func runTransmission(args []string) int {
	fs := flag.NewFlagSet("transmission", flag.ContinueOnError)
	file := fs.String("file", "", "envelope path to derive sizes from")
	rawBits := fs.Int64("raw-bits", 0, "uncompressed size in bits")
	compressedBits := fs.Int64("compressed-bits", 0, "compressed size in bits")
	compressTime := fs.Duration("compress-time", 0, "time to compress")
	decompressTime := fs.Duration("decompress-time", 0, "time to decompress")
	latency := fs.Duration("latency", 0, "one-way latency")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	raw, compressed := *rawBits, *compressedBits
	if *file != "" {
		codec, err := loadCodec(*file)
		if err != nil {
			errLog.Println(err)
			return exitData
		}
		raw = int64(codec.N()) * geometry.WordBits
		compressed = int64(codec.Bits())
	}

	reports := transmission.Sweep(raw, compressed, *compressTime, *decompressTime, *latency)
	enc := json.NewEncoder(os.Stdout)
	for _, r := range reports {
		if err := enc.Encode(r); err != nil {
			errLog.Println(err)
			return exitData
		}
	}
	return exitOK
}

func runInteractive(args []string) int {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("bitpack interactive — commands: compress, decompress, get, bench, transmission, quit")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return exitOK
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "quit", "exit":
			return exitOK
		case "compress", "decompress", "get", "bench", "transmission":
			if code := dispatchInteractive(fields[0], fields[1:]); code != exitOK {
				fmt.Fprintf(os.Stderr, "command exited with code %d\n", code)
			}
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q\n", fields[0])
		}
	}
}

func dispatchInteractive(cmd string, args []string) int {
	switch cmd {
	case "compress":
		return runCompress(args)
	case "decompress":
		return runDecompress(args)
	case "get":
		return runGet(args)
	case "bench":
		return runBench(args)
	case "transmission":
		return runTransmission(args)
	default:
		return exitUsage
	}
}

func readValues(path string) ([]uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []json.Number
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("malformed input array: %w", err)
	}
	values := make([]uint32, len(raw))
	for i, n := range raw {
		iv, err := strconv.ParseInt(n.String(), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("element %d: not an integer: %w", i, err)
		}
		if iv < 0 || iv > (1<<32-1) {
			return nil, fmt.Errorf("element %d: %d out of range [0, 2^32-1]", i, iv)
		}
		values[i] = uint32(iv)
	}
	return values, nil
}

func loadCodec(path string) (bitpack.Codec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var env bitpack.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed envelope: %w", err)
	}
	return bitpack.Decode(&env)
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
