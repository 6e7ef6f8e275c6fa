// Command wininfo prints figures of merit for the analysis windows used by
// the spectral estimators.
//
// Usage:
//
//	wininfo [flags] [window-name ...]
//
// Without arguments it prints info for all known window types.
//
// Examples:
//
//	wininfo hann
//	wininfo -size 1024 blackman flattop
//	wininfo -periodic -size 64 hann
//	wininfo -list
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-tsa/window"
)

var registry = []struct {
	name string
	typ  window.Type
}{
	{"rectangular", window.TypeRectangular},
	{"hann", window.TypeHann},
	{"hamming", window.TypeHamming},
	{"blackman", window.TypeBlackman},
	{"flattop", window.TypeFlatTop},
}

func main() {
	size := flag.Int("size", 1024, "window length in samples")
	list := flag.Bool("list", false, "list available window names")
	periodic := flag.Bool("periodic", false, "use periodic (FFT) form instead of symmetric")
	tapers := flag.Int("tapers", 0, "also print the first N sine tapers' figures")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: wininfo [flags] [window-name ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints figures of merit for spectral analysis windows.\n")
		fmt.Fprintf(os.Stderr, "Without arguments, prints info for all window types.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  wininfo hann blackman\n")
		fmt.Fprintf(os.Stderr, "  wininfo -size 64 -periodic hann\n")
		fmt.Fprintf(os.Stderr, "  wininfo -tapers 7 -size 256\n")
		fmt.Fprintf(os.Stderr, "  wininfo -list\n")
	}
	flag.Parse()

	if *list {
		printList()
		return
	}

	names := flag.Args()
	if len(names) == 0 {
		for _, e := range registry {
			names = append(names, e.name)
		}
	}

	var opts []window.Option
	if *periodic {
		opts = append(opts, window.WithPeriodic())
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Window\tSize\tCoherent Gain\tEnergy\tENBW [bins]\n")
	fmt.Fprintf(tw, "------\t----\t-------------\t------\t-----------\n")

	ok := true
	for _, name := range names {
		typ, err := window.ByName(strings.ToLower(strings.TrimSpace(name)))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v (use -list to see available)\n", err)
			ok = false
			continue
		}

		printRow(tw, typ.String(), window.Generate(typ, *size, opts...))
	}

	for j, taper := range window.SineTapers(*size, *tapers) {
		printRow(tw, fmt.Sprintf("sine taper %d", j+1), taper)
	}

	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
		os.Exit(1)
	}

	if !ok {
		os.Exit(1)
	}
}

func printList() {
	names := make([]string, len(registry))
	for i, e := range registry {
		names[i] = e.name
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Println(n)
	}
}

func printRow(tw *tabwriter.Writer, label string, coeffs []float64) {
	var sum float64
	for _, c := range coeffs {
		sum += c
	}

	n := float64(len(coeffs))
	energy := window.Energy(coeffs)

	// ENBW = N * sum(w^2) / sum(w)^2, in bins.
	enbw := n * energy / (sum * sum)

	fmt.Fprintf(tw, "%s\t%d\t%.6f\t%.4f\t%.4f\n", label, len(coeffs), sum/n, energy, enbw)
}
