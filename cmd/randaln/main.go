// 31 July 2020
// 12 Oct 2026 a3m alignments

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/andrew-torda/mutmsa/pkg/randaln"
	. "github.com/andrew-torda/mutmsa/pkg/seq/common"
)

func main() {
	f := flag.NewFlagSet("randaln", flag.ExitOnError)
	const iseed int64 = 1637
	var args randaln.Args
	var pGap, pIns float64

	f.BoolVar(&args.QryGap, "q", false, "allow gaps and insertions in the query")
	f.BoolVar(&args.MkErr, "e", false, "provoke errors, some sequences are cut short")
	f.Int64Var(&args.Iseed, "r", iseed, "random number seed")
	f.Float64Var(&pGap, "g", 0.1, "probability of a gap in a match column")
	f.Float64Var(&pIns, "i", 0.05, "probability of an insertion")
	f.StringVar(&args.Cmmt, "c", "rand", "comment for headers")
	if err := f.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(f.Output(), err)
		os.Exit(ExitUsageError)
	}
	if f.NArg() != 3 {
		fmt.Fprintln(f.Output(), "Too few args\nrandaln [..] file nseq length")
		f.Usage()
		os.Exit(ExitUsageError)
	}
	args.PGap, args.PIns = float32(pGap), float32(pIns)

	const emsg = "Failed converting %s to positive integer\n"
	if nseq, err := strconv.ParseUint(f.Arg(1), 10, 32); err != nil {
		fmt.Fprintf(os.Stderr, emsg, f.Arg(1))
		os.Exit(ExitFailure)
	} else {
		args.Nseq = int(nseq)
	}
	if nlen, err := strconv.ParseUint(f.Arg(2), 10, 32); err != nil {
		fmt.Fprintf(os.Stderr, emsg, f.Arg(2))
		os.Exit(ExitFailure)
	} else {
		args.Len = int(nlen)
	}

	fname := f.Arg(0)
	if fname == "-" || fname == "" {
		args.Wrtr = os.Stdout
	} else {
		ft, err := os.Create(fname)
		if err != nil {
			fmt.Fprintln(os.Stderr, "File for output:", err)
			os.Exit(ExitFailure)
		}
		args.Wrtr = ft
		defer ft.Close()
	}
	if err := randaln.RandAlnMain(&args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitFailure)
	}
}
