// Command rangemap maps numbers read from stdin from one range to another.
//
// Each input line holds one or more comma-separated numbers, mapped
// element-wise:
//
//	echo '0,128,255' | rangemap -from 0,255 -to 0,1
//	echo '0.51' | rangemap -from 0,1 -levels 10
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"rangegate/internal/interp"
	"rangegate/internal/quant"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rangemap", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		from    = fs.String("from", "", "source range as low,high (required)")
		to      = fs.String("to", "0,1", "destination range as low,high (not with -levels)")
		lock    = fs.Bool("lock", false, "clamp output to the destination range (not with -levels)")
		levels  = fs.Int("levels", 0, "quantise onto 0..N instead of interpolating")
		lowPad  = fs.Float64("low-pad", 0, "quantiser low pad, 0..1 (requires -levels)")
		highPad = fs.Float64("high-pad", 0, "quantiser high pad, 0..1 (requires -levels)")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	quantise := set["levels"]
	for _, name := range []string{"to", "lock"} {
		if quantise && set[name] {
			fmt.Fprintf(stderr, "rangemap: -%s cannot be combined with -levels\n", name)
			return 2
		}
	}
	for _, name := range []string{"low-pad", "high-pad"} {
		if !quantise && set[name] {
			fmt.Fprintf(stderr, "rangemap: -%s requires -levels\n", name)
			return 2
		}
	}

	srcLow, srcHigh, err := parsePair(*from)
	if err != nil {
		fmt.Fprintf(stderr, "rangemap: -from: %v\n", err)
		return 2
	}

	var mapLine func([]float64) []string
	if quantise {
		q, err := quant.New(srcLow, srcHigh, *levels, quant.WithPadding(*lowPad, *highPad))
		if err != nil {
			fmt.Fprintf(stderr, "rangemap: %v\n", err)
			return 2
		}
		mapLine = func(vs []float64) []string {
			out := make([]string, len(vs))
			for i, v := range vs {
				out[i] = strconv.Itoa(q.Level(v))
			}
			return out
		}
	} else {
		destLow, destHigh, err := parsePair(*to)
		if err != nil {
			fmt.Fprintf(stderr, "rangemap: -to: %v\n", err)
			return 2
		}
		tp, err := interp.NewTuple(srcLow, srcHigh, interp.WithDest(destLow, destHigh), interp.WithLockRange(*lock))
		if err != nil {
			fmt.Fprintf(stderr, "rangemap: %v\n", err)
			return 2
		}
		mapLine = func(vs []float64) []string {
			mapped := tp.MapSlice(vs)
			out := make([]string, len(mapped))
			for i, v := range mapped {
				out[i] = strconv.FormatFloat(v, 'g', -1, 64)
			}
			return out
		}
	}

	sc := bufio.NewScanner(stdin)
	w := bufio.NewWriter(stdout)
	defer w.Flush()
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		vs, err := parseValues(line)
		if err != nil {
			fmt.Fprintf(stderr, "rangemap: line %d: %v\n", lineNo, err)
			return 1
		}
		fmt.Fprintln(w, strings.Join(mapLine(vs), ","))
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintf(stderr, "rangemap: read stdin: %v\n", err)
		return 1
	}
	return 0
}

func parsePair(s string) (float64, float64, error) {
	vs, err := parseValues(s)
	if err != nil {
		return 0, 0, err
	}
	if len(vs) != 2 {
		return 0, 0, fmt.Errorf("want low,high, got %q", s)
	}
	return vs[0], vs[1], nil
}

func parseValues(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty value list")
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", strings.TrimSpace(p), err)
		}
		out[i] = v
	}
	return out, nil
}
