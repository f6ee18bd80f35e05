// 10 Oct 2026
// Read a table of mutations and make a mutated alignment for each one.

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path"
	"runtime"
	"strings"

	"github.com/andrew-torda/mutmsa/pkg/batch"
	"github.com/andrew-torda/mutmsa/pkg/msa"
	"github.com/andrew-torda/mutmsa/pkg/mutcsv"
	"github.com/andrew-torda/mutmsa/pkg/resolve"
	. "github.com/andrew-torda/mutmsa/pkg/seq/common"
)

// CmdFlag holds the command line flags.
type CmdFlag struct {
	OutDir  string
	Format  string
	NWorker int
	DryRun  bool
	Vbsty   int
	Aligner string // program to make missing wild type alignments
	SeqFile string // local fasta file of wild type sequences
	UniProt bool   // ask uniprot for sequences not in SeqFile
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage:", path.Base(os.Args[0]), "[flags] msa_dir mutations.csv")
	long := `For each file id.a3m in msa_dir, look up the mutations for id in
the csv file and write id_A23T.a3m for each of them.`
	fmt.Fprintln(os.Stderr, long)
	flag.PrintDefaults()
}

// missing returns the ids which do not have a base alignment.
func missing(dir string, reqs *mutcsv.Requests) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool)
	for _, e := range ents {
		if id, _, ok := batch.SeqID(e.Name()); ok && e.Type().IsRegular() {
			have[id] = true
		}
	}
	var r []string
	for _, id := range reqs.IDs {
		if !have[id] {
			r = append(r, id)
		}
	}
	return r, nil
}

// wildType makes the base alignments that are not there yet.
func wildType(ctx context.Context, flags *CmdFlag, dir string, format msa.Format,
	reqs *mutcsv.Requests, lg *log.Logger) error {
	ids, err := missing(dir, reqs)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	var chain resolve.Chain
	if flags.SeqFile != "" {
		fi, err := resolve.ReadFastaIndex(flags.SeqFile)
		if err != nil {
			return err
		}
		chain = append(chain, fi)
	}
	if flags.UniProt {
		chain = append(chain, &resolve.UniProt{})
	}
	if len(chain) == 0 {
		return fmt.Errorf("%d ids have no alignment and no sequence source given (-s or -u)", len(ids))
	}
	aligner := &resolve.ExecAligner{Args: strings.Fields(flags.Aligner)}
	failed := resolve.WildType(ctx, resolve.NewCache(chain), aligner, ids, dir, format)
	for _, id := range ids {
		if err, ok := failed[id]; ok {
			lg.Printf("%s: no wild type alignment: %v", id, err)
		} else if flags.Vbsty > 0 {
			lg.Printf("%s: wild type alignment written", id)
		}
	}
	return nil
}

func mymain(ctx context.Context, flags *CmdFlag, dir, csvfile string) error {
	lg := log.New(os.Stderr, "", log.LstdFlags)
	format, err := msa.FormatByName(flags.Format)
	if err != nil {
		return err
	}
	reqs, err := mutcsv.Readfile(csvfile)
	if err != nil {
		return err
	}
	if flags.Aligner != "" && !flags.DryRun {
		if err := wildType(ctx, flags, dir, format, reqs, lg); err != nil {
			return err
		}
	}
	opts := batch.Options{
		InDir:   dir,
		OutDir:  flags.OutDir,
		Format:  format,
		NWorker: flags.NWorker,
		DryRun:  flags.DryRun,
		Vbsty:   flags.Vbsty,
		Logger:  lg,
	}
	outcomes, err := batch.Run(ctx, &opts, reqs)
	if flags.Vbsty > 0 {
		for _, oc := range outcomes {
			fmt.Printf("%s\t%s\t%s\t%s\n", oc.ID, oc.Mutation, oc.State, oc.OutPath)
		}
	}
	applied, skipped, failed := batch.Summary(outcomes)
	fmt.Printf("%d mutations applied, %d files skipped, %d failed\n", applied, skipped, failed)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d requests failed", failed, reqs.NMut())
	}
	return nil
}

func main() {
	var flags CmdFlag
	flag.StringVar(&flags.OutDir, "o", "", "output directory, default is the input directory")
	flag.StringVar(&flags.Format, "f", "a3m", "alignment format, a3m or fasta")
	flag.IntVar(&flags.NWorker, "j", runtime.NumCPU(), "number of files to work on at once")
	flag.BoolVar(&flags.DryRun, "n", false, "dry run, check everything but write nothing")
	flag.IntVar(&flags.Vbsty, "v", 0, "verbosity")
	flag.StringVar(&flags.Aligner, "a", "", "alignment program to make missing wild type alignments")
	flag.StringVar(&flags.SeqFile, "s", "", "fasta file with wild type sequences")
	flag.BoolVar(&flags.UniProt, "u", false, "fetch sequences not in the -s file from uniprot")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 2 {
		usage()
		os.Exit(ExitUsageError)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := mymain(ctx, &flags, flag.Arg(0), flag.Arg(1))
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitFailure)
	}
	os.Exit(ExitSuccess)
}
