package resolve

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/andrew-torda/mutmsa/pkg/msa"
)

// An Aligner turns a query sequence into a wild type alignment. The
// real work is done elsewhere, by a search server or program.
type Aligner interface {
	Align(ctx context.Context, id, seq string) (*msa.Alignment, error)
}

// ExecAligner runs a program which reads the query in fasta format on
// stdin and writes an a3m alignment on stdout.
type ExecAligner struct {
	Args []string // program and its arguments
}

// Align runs the program and parses what it writes.
func (e *ExecAligner) Align(ctx context.Context, id, seq string) (*msa.Alignment, error) {
	if len(e.Args) == 0 {
		return nil, fmt.Errorf("no alignment program given")
	}
	cmd := exec.CommandContext(ctx, e.Args[0], e.Args[1:]...)
	cmd.Stdin = bytes.NewBufferString(">" + id + "\n" + seq + "\n")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s on %s: %w %s", e.Args[0], id, err, stderr.String())
	}
	return msa.Parse(bytes.NewReader(out))
}

// WildType fetches each sequence, aligns it and writes id.ext in
// outdir with the query header replaced by the id. Each id is done on
// its own. The returned map has the error for each id that failed.
func WildType(ctx context.Context, f Fetcher, a Aligner, ids []string, outdir string, format msa.Format) map[string]error {
	failed := make(map[string]error)
	for _, id := range ids {
		if ctx.Err() != nil {
			failed[id] = ctx.Err()
			continue
		}
		if err := wildOne(ctx, f, a, id, outdir, format); err != nil {
			failed[id] = err
		}
	}
	return failed
}

func wildOne(ctx context.Context, f Fetcher, a Aligner, id, outdir string, format msa.Format) error {
	seq, err := f.Fetch(ctx, id)
	if err != nil {
		return err
	}
	aln, err := a.Align(ctx, id, seq)
	if err != nil {
		return err
	}
	if err := aln.SetQueryID(id); err != nil {
		return err
	}
	return msa.WriteToF(filepath.Join(outdir, id+format.Ext), aln, format)
}
