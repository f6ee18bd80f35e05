// 11 Oct 2026
// Say what is in the alignment column under one query position.

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"

	"github.com/andrew-torda/mutmsa/pkg/census"
	"github.com/andrew-torda/mutmsa/pkg/msa"
	. "github.com/andrew-torda/mutmsa/pkg/seq/common"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage:", path.Base(os.Args[0]), "[flags] infile position...")
	flag.PrintDefaults()
}

// CmdFlag holds the command line flags.
type CmdFlag struct {
	Format string
}

func wrtCol(w io.Writer, c *census.Census, qpos int) error {
	col, counts, err := c.QueryColumn(qpos)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "position %d column %d:", qpos, col)
	for _, sc := range counts {
		fmt.Fprintf(w, " %c %d (%.2f)", sc.Sym, sc.Count, c.Frac(sc.Sym, col))
	}
	fmt.Fprintf(w, ", gaps %d (%.2f), short %d, entropy %.2f bits\n",
		c.NGap(col), c.GapFrac(col), c.NShort(col), c.Entropy(col))
	return nil
}

func mymain(flags *CmdFlag, infile string, posns []string) error {
	format, err := msa.FormatByName(flags.Format)
	if err != nil {
		return err
	}
	aln, err := msa.Readfile(infile, format)
	if err != nil {
		return fmt.Errorf("reading %s: %w", infile, err)
	}
	c := census.Count(aln)
	for _, s := range posns {
		qpos, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("position \"%s\" is not a number", s)
		}
		if err := wrtCol(os.Stdout, c, qpos); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	var flags CmdFlag
	flag.StringVar(&flags.Format, "f", "a3m", "alignment format, a3m or fasta")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 2 {
		usage()
		os.Exit(ExitUsageError)
	}
	if err := mymain(&flags, flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitFailure)
	}
	os.Exit(ExitSuccess)
}
