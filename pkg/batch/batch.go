// 6 Oct 2026

// Package batch applies lists of mutations to a directory of alignments.
// A file P1.a3m (or P1.msa, P1.a3m.gz) belongs to sequence P1. Each
// mutation requested for P1 is applied on its own to the unmutated
// alignment and written to P1_A23T with the extension of the input. A mutation that fails is reported and produces no file,
// but does not stop the others, and a bad file does not stop the other
// files.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/andrew-torda/mutmsa/pkg/census"
	"github.com/andrew-torda/mutmsa/pkg/msa"
	"github.com/andrew-torda/mutmsa/pkg/mutation"
	"github.com/andrew-torda/mutmsa/pkg/mutcsv"
	"github.com/andrew-torda/mutmsa/pkg/zwrap"
)

var ErrNoFile = errors.New("no alignment file for sequence")

// State is where a request ended up.
type State int

const (
	Applied State = iota
	Skipped
	Failed
)

func (s State) String() string {
	switch s {
	case Applied:
		return "applied"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Outcome is the result of one mutation, or of one file that had no
// mutations (then Mutation is empty).
type Outcome struct {
	ID       string
	Mutation string
	State    State
	OutPath  string
	Stats    mutation.Stats
	Err      error
}

// Options contains all the choices passed in from the caller.
type Options struct {
	InDir   string
	OutDir  string     // defaults to InDir
	Format  msa.Format // defaults to a3m, Ext is used for files without one
	NWorker int        // files processed at once, at least 1
	DryRun  bool       // Do not write any files
	Vbsty   int        // above 1, log the census of each mutated column
	Logger  *log.Logger
}

type job struct {
	path, id string
	ext      string // for the output files
	muts     []string
}

// SeqID strips an optional ".gz" and then whatever extension is left,
// so P1.msa and P1.a3m.gz both belong to P1. Hidden files are not
// alignments.
func SeqID(name string) (id, ext string, ok bool) {
	if strings.HasPrefix(name, ".") {
		return "", "", false
	}
	name = zwrap.TrimExt(name)
	ext = filepath.Ext(name)
	id = strings.TrimSuffix(name, ext)
	return id, ext, id != ""
}

// fixOpts fills in defaults without changing the caller's copy.
func fixOpts(opts *Options) Options {
	o := *opts
	if o.OutDir == "" {
		o.OutDir = o.InDir
	}
	if o.Format.Read == nil {
		o.Format = msa.A3M
	}
	if o.NWorker < 1 {
		o.NWorker = 1
	}
	if o.Logger == nil {
		o.Logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return o
}

// Run does the whole directory. The error is only for things that stop
// everything, like an unreadable directory or a cancelled context. The
// outcomes come back in file name order, then in request order.
func Run(ctx context.Context, opts *Options, reqs *mutcsv.Requests) ([]Outcome, error) {
	o := fixOpts(opts)
	if reqs == nil {
		reqs = mutcsv.NewRequests()
	}
	ents, err := os.ReadDir(o.InDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", msa.ErrIO, err)
	}
	sort.Slice(ents, func(i, j int) bool { return ents[i].Name() < ents[j].Name() })

	var jobs []job
	var results [][]Outcome
	seen := make(map[string]bool)
	for _, e := range ents {
		if !e.Type().IsRegular() {
			continue
		}
		id, ext, ok := SeqID(e.Name())
		if !ok {
			continue
		}
		if seen[id] {
			o.Logger.Printf("%s: second file for %s, ignoring it", e.Name(), id)
			continue
		}
		seen[id] = true
		muts := reqs.Get(id)
		if len(muts) == 0 {
			results = append(results, []Outcome{{ID: id, State: Skipped}})
			continue
		}
		if ext == "" {
			ext = o.Format.Ext
		}
		jobs = append(jobs, job{path: filepath.Join(o.InDir, e.Name()), id: id, ext: ext, muts: muts})
	}

	jobRes := make([][]Outcome, len(jobs)) // one slot per job, so no locking
	var g errgroup.Group
	g.SetLimit(o.NWorker)
	for i := range jobs {
		if ctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			jobRes[i] = doFile(&o, &jobs[i])
			return nil
		})
	}
	g.Wait()
	results = append(results, jobRes...)

	var missing []Outcome
	for _, id := range reqs.IDs {
		if seen[id] {
			continue
		}
		for _, m := range reqs.Get(id) {
			err := fmt.Errorf("%w %s in %s", ErrNoFile, id, o.InDir)
			missing = append(missing, Outcome{ID: id, Mutation: m, State: Failed, Err: err})
		}
	}
	results = append(results, missing)
	outcomes := flatten(results)
	sort.SliceStable(outcomes, func(i, j int) bool { return outcomes[i].ID < outcomes[j].ID })
	return outcomes, ctx.Err()
}

func flatten(r [][]Outcome) []Outcome {
	var out []Outcome
	for _, o := range r {
		out = append(out, o...)
	}
	return out
}

// doFile reads one alignment and applies each of its mutations.
func doFile(o *Options, j *job) []Outcome {
	outcomes := make([]Outcome, 0, len(j.muts))
	aln, err := msa.Readfile(j.path, o.Format)
	if err != nil {
		o.Logger.Printf("%s: %v", j.id, err)
		for _, m := range j.muts {
			outcomes = append(outcomes, Outcome{ID: j.id, Mutation: m, State: Failed, Err: err})
		}
		return outcomes
	}
	var cns *census.Census
	for _, m := range j.muts {
		oc := Outcome{ID: j.id, Mutation: m}
		if err := mutOne(o, j, aln, &oc); err != nil {
			o.Logger.Printf("%s %s: %v", j.id, m, err)
			oc.State, oc.Err = Failed, err
		} else {
			oc.State = Applied
			if o.Vbsty > 1 {
				if cns == nil {
					cns = census.Count(aln)
				}
				o.Logger.Printf("%s %s column %d: %s", j.id, m, oc.Stats.Column, colString(cns, oc.Stats))
			}
		}
		outcomes = append(outcomes, oc)
	}
	return outcomes
}

// mutOne applies one mutation string and writes the result.
func mutOne(o *Options, j *job, aln *msa.Alignment, oc *Outcome) error {
	spec, err := mutation.Parse(oc.Mutation)
	if err != nil {
		return err
	}
	out, stats, err := mutation.Apply(aln, spec, j.id)
	if err != nil {
		return err
	}
	oc.Stats = stats
	oc.OutPath = filepath.Join(o.OutDir, j.id+"_"+spec.String()+j.ext)
	if o.DryRun {
		return nil
	}
	return msa.WriteToF(oc.OutPath, out, o.Format)
}

// colString gives something like "A=30 G=2 gaps 5 short 1".
func colString(c *census.Census, st mutation.Stats) string {
	var b strings.Builder
	for _, sc := range c.Column(st.Column) {
		fmt.Fprintf(&b, "%c=%d ", sc.Sym, sc.Count)
	}
	fmt.Fprintf(&b, "gaps %d short %d", st.Gapped, st.Short)
	return b.String()
}

// Summary counts outcomes by state.
func Summary(outcomes []Outcome) (applied, skipped, failed int) {
	for _, oc := range outcomes {
		switch oc.State {
		case Applied:
			applied++
		case Skipped:
			skipped++
		case Failed:
			failed++
		}
	}
	return
}
