// 9 Oct 2026
// Put one point mutation into one alignment.

package main

import (
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/andrew-torda/mutmsa/pkg/msa"
	"github.com/andrew-torda/mutmsa/pkg/mutation"
	. "github.com/andrew-torda/mutmsa/pkg/seq/common"
)

// CmdFlag holds the command line flags.
type CmdFlag struct {
	Format string // a3m or fasta
	ID     string // replaces the id in the query header
	Check  bool   // only check the mutation against the query
	Vbsty  int
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage:", path.Base(os.Args[0]), "[flags] mutation [infile [outfile]]")
	long := `The mutation looks like A23T. Position 23 of the query, ignoring
gaps and insertions, must be an A. It becomes a T in every sequence.
Given no file names, read from stdin and write to stdout.`
	fmt.Fprintln(os.Stderr, long)
	flag.PrintDefaults()
}

func mymain(flags *CmdFlag, mut, infile, outfile string) error {
	format, err := msa.FormatByName(flags.Format)
	if err != nil {
		return err
	}
	spec, err := mutation.Parse(mut)
	if err != nil {
		return err
	}
	aln, err := msa.Readfile(infile, format)
	if err != nil {
		return fmt.Errorf("reading %s: %w", infile, err)
	}
	if flags.Check {
		q := aln.Query()
		if q == nil {
			return fmt.Errorf("%w: no query", msa.ErrMalformed)
		}
		col, err := mutation.Check(q.Seq, spec)
		if err != nil {
			return err
		}
		fmt.Println(spec, "ok, column", col)
		return nil
	}
	out, stats, err := mutation.Apply(aln, spec, flags.ID)
	if err != nil {
		return err
	}
	if flags.Vbsty > 0 {
		fmt.Fprintf(os.Stderr, "%s column %d changed %d gapped %d short %d\n",
			spec, stats.Column, stats.Changed, stats.Gapped, stats.Short)
	}
	return msa.WriteToF(outfile, out, format)
}

func main() {
	var flags CmdFlag
	var infile, outfile string
	flag.StringVar(&flags.Format, "f", "a3m", "alignment format, a3m or fasta")
	flag.StringVar(&flags.ID, "i", "", "id for the output query header, default from input")
	flag.BoolVar(&flags.Check, "c", false, "check the mutation against the query, write nothing")
	flag.IntVar(&flags.Vbsty, "v", 0, "verbosity")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(ExitUsageError)
	}
	if flag.NArg() > 1 {
		infile = flag.Arg(1)
		if flag.NArg() > 2 {
			outfile = flag.Arg(2)
		}
	}
	if err := mymain(&flags, flag.Arg(0), infile, outfile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitFailure)
	}
	os.Exit(ExitSuccess)
}
