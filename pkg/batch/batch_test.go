package batch_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	. "github.com/andrew-torda/mutmsa/pkg/batch"
	"github.com/andrew-torda/mutmsa/pkg/msa"
	"github.com/andrew-torda/mutmsa/pkg/mutation"
	"github.com/andrew-torda/mutmsa/pkg/mutcsv"
)

const p1 = ">P1\nMAKTAY\n>hit\nMA-TaAY\n"
const p2 = ">P2\nMKKG\n"

// setup writes files into a fresh directory and gives back a logger
// whose output we can look at.
func setup(t *testing.T, files map[string]string) (string, *log.Logger, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	for name, s := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(s), 0644); err != nil {
			t.Fatal(err)
		}
	}
	var b bytes.Buffer
	return dir, log.New(&b, "", 0), &b
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range ents {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func requests(pairs ...string) *mutcsv.Requests {
	r := mutcsv.NewRequests()
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Add(pairs[i], pairs[i+1])
	}
	return r
}

// TestScenario is two files and two mutations for the first. The second
// file has nothing to do.
func TestScenario(t *testing.T) {
	dir, lg, _ := setup(t, map[string]string{"P1.a3m": p1, "P2.a3m": p2})
	opts := &Options{InDir: dir, Logger: lg}
	outcomes, err := Run(context.Background(), opts, requests("P1", "A2G", "P1", "A2S"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"P1.a3m", "P1_A2G.a3m", "P1_A2S.a3m", "P2.a3m"}
	if diff := cmp.Diff(want, listDir(t, dir)); diff != "" {
		t.Fatalf("files (-want +got):\n%s", diff)
	}
	if a, s, f := Summary(outcomes); a != 2 || s != 1 || f != 0 {
		t.Fatalf("summary applied %d skipped %d failed %d", a, s, f)
	}
	aln, err := msa.Readfile(filepath.Join(dir, "P1_A2S.a3m"), msa.A3M)
	if err != nil {
		t.Fatal(err)
	}
	if got := aln.String(); got != ">P1_A2S\nMSKTAY\n>hit\nMS-TaAY\n" {
		t.Fatalf("P1_A2S.a3m has\n%s", got)
	}
	base, _ := os.ReadFile(filepath.Join(dir, "P1.a3m"))
	if string(base) != p1 {
		t.Fatal("base alignment was changed")
	}
	for _, oc := range outcomes {
		if oc.ID == "P2" && (oc.State != Skipped || oc.Mutation != "") {
			t.Errorf("P2 outcome %+v", oc)
		}
	}
}

// TestIsolation has a mismatch, a position off the end and a bad string
// amongst good mutations, a file that is not an alignment and an id with
// no file. Only the good ones give files.
func TestIsolation(t *testing.T) {
	dir, lg, logbuf := setup(t, map[string]string{
		"P1.a3m":    p1,
		"P2.a3m":    p2,
		"BAD.a3m":   "no header here\n",
		"notes.txt": "not an alignment",
	})
	reqs := requests(
		"P1", "S2G", // mismatch, position 2 is A
		"P1", "K3R",
		"P1", "Y9F", // off the end
		"P1", "k3R", // bad string
		"P2", "K2R",
		"BAD", "A1G",
		"P9", "A1G", // no file
	)
	outcomes, err := Run(context.Background(), &Options{InDir: dir, Logger: lg}, reqs)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"BAD.a3m", "P1.a3m", "P1_K3R.a3m", "P2.a3m", "P2_K2R.a3m", "notes.txt"}
	if diff := cmp.Diff(want, listDir(t, dir)); diff != "" {
		t.Fatalf("files (-want +got):\n%s", diff)
	}
	wantErr := map[string]error{
		"P1 S2G":  mutation.ErrMismatch,
		"P1 Y9F":  mutation.ErrPosRange,
		"P1 k3R":  mutation.ErrBadMutation,
		"BAD A1G": msa.ErrMalformed,
		"P9 A1G":  ErrNoFile,
	}
	for _, oc := range outcomes {
		key := oc.ID + " " + oc.Mutation
		if e, ok := wantErr[key]; ok {
			if oc.State != Failed || !errors.Is(oc.Err, e) {
				t.Errorf("%s got %v %v, want %v", key, oc.State, oc.Err, e)
			}
			if oc.ID == "P1" && !strings.Contains(logbuf.String(), key) {
				t.Errorf("%s not in the log", key)
			}
			delete(wantErr, key)
		} else if oc.ID != "notes" && oc.State != Applied {
			t.Errorf("%s should have worked: %v", key, oc.Err)
		}
	}
	if len(wantErr) != 0 {
		t.Errorf("no outcome for %v", wantErr)
	}
	if a, s, f := Summary(outcomes); a != 2 || s != 1 || f != 5 { // notes.txt is skipped
		t.Fatalf("summary applied %d skipped %d failed %d", a, s, f)
	}
}

// TestOtherExtension has alignments called .msa and one with no extension
// at all. Outputs keep the extension of their input.
func TestOtherExtension(t *testing.T) {
	dir, lg, _ := setup(t, map[string]string{
		"P1.msa":      p1,
		"P2.msa":      p2,
		"P3":          ">P3\nAKK\n",
		".hidden.a3m": p1,
	})
	reqs := requests("P1", "A2G", "P1", "A2S", "P3", "A1G", ".hidden", "A2G")
	outcomes, err := Run(context.Background(), &Options{InDir: dir, Logger: lg}, reqs)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{".hidden.a3m", "P1.msa", "P1_A2G.msa", "P1_A2S.msa", "P2.msa", "P3", "P3_A1G.a3m"}
	if diff := cmp.Diff(want, listDir(t, dir)); diff != "" {
		t.Fatalf("files (-want +got):\n%s", diff)
	}
	if a, s, f := Summary(outcomes); a != 3 || s != 1 || f != 1 {
		t.Fatalf("summary applied %d skipped %d failed %d", a, s, f)
	}
	aln, err := msa.Readfile(filepath.Join(dir, "P1_A2G.msa"), msa.A3M)
	if err != nil {
		t.Fatal(err)
	}
	if got := aln.String(); got != ">P1_A2G\nMGKTAY\n>hit\nMG-TaAY\n" {
		t.Fatalf("P1_A2G.msa has\n%s", got)
	}
}

func TestSeqID(t *testing.T) {
	for _, tt := range []struct {
		name, id, ext string
		ok            bool
	}{
		{"P1.a3m", "P1", ".a3m", true},
		{"P1.msa", "P1", ".msa", true},
		{"P1.a3m.gz", "P1", ".a3m", true},
		{"P1_A2G.fasta", "P1_A2G", ".fasta", true},
		{"P3", "P3", "", true},
		{".DS_Store", "", "", false},
		{".gz", "", "", false},
	} {
		id, ext, ok := SeqID(tt.name)
		if id != tt.id || ext != tt.ext || ok != tt.ok {
			t.Errorf("SeqID(%s) got %q %q %t", tt.name, id, ext, ok)
		}
	}
}

func TestOutDirAndDryRun(t *testing.T) {
	dir, lg, _ := setup(t, map[string]string{"P1.a3m": p1})
	outdir := t.TempDir()
	opts := &Options{InDir: dir, OutDir: outdir, DryRun: true, Logger: lg}
	outcomes, err := Run(context.Background(), opts, requests("P1", "A2G"))
	if err != nil {
		t.Fatal(err)
	}
	if len(listDir(t, outdir)) != 0 {
		t.Fatal("dry run wrote files")
	}
	if outcomes[0].State != Applied || outcomes[0].OutPath != filepath.Join(outdir, "P1_A2G.a3m") {
		t.Fatalf("outcome %+v", outcomes[0])
	}
	opts.DryRun = false
	if _, err := Run(context.Background(), opts, requests("P1", "A2G")); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"P1_A2G.a3m"}, listDir(t, outdir)); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

// TestParallel runs many files with several workers. The answer must be
// the same as with one.
func TestParallel(t *testing.T) {
	files := make(map[string]string)
	reqs := mutcsv.NewRequests()
	for _, id := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		files[id+".a3m"] = ">" + id + "\nMAKTAY\n>hit\nMA-TaAY\n"
		reqs.Add(id, "K3R")
		reqs.Add(id, "T4S")
	}
	run := func(nw int) []Outcome {
		dir, lg, _ := setup(t, files)
		outcomes, err := Run(context.Background(), &Options{InDir: dir, NWorker: nw, Logger: lg}, reqs)
		if err != nil {
			t.Fatal(err)
		}
		for i := range outcomes {
			outcomes[i].OutPath = filepath.Base(outcomes[i].OutPath)
		}
		return outcomes
	}
	one, four := run(1), run(4)
	if diff := cmp.Diff(one, four); diff != "" {
		t.Fatalf("workers changed the result (-one +four):\n%s", diff)
	}
	if a, _, _ := Summary(four); a != 16 {
		t.Fatal("applied", a)
	}
}

func TestCancelled(t *testing.T) {
	dir, lg, _ := setup(t, map[string]string{"P1.a3m": p1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, &Options{InDir: dir, Logger: lg}, requests("P1", "A2G"))
	if !errors.Is(err, context.Canceled) {
		t.Fatal("wanted context.Canceled got", err)
	}
	if diff := cmp.Diff([]string{"P1.a3m"}, listDir(t, dir)); diff != "" {
		t.Fatalf("cancelled run wrote files (-want +got):\n%s", diff)
	}
}

func TestGzipAndCensusLog(t *testing.T) {
	var zb bytes.Buffer
	zw := gzip.NewWriter(&zb)
	zw.Write([]byte(p1))
	zw.Close()
	dir, lg, logbuf := setup(t, map[string]string{"P1.a3m.gz": zb.String()})
	opts := &Options{InDir: dir, Vbsty: 2, Logger: lg}
	if _, err := Run(context.Background(), opts, requests("P1", "A2G")); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"P1.a3m.gz", "P1_A2G.a3m"}, listDir(t, dir)); diff != "" {
		t.Fatalf("files (-want +got):\n%s", diff)
	}
	if !strings.Contains(logbuf.String(), "P1 A2G column 2: A=2 gaps 0 short 0") {
		t.Fatalf("census not logged:\n%s", logbuf.String())
	}
}

func TestBadDir(t *testing.T) {
	_, err := Run(context.Background(), &Options{InDir: filepath.Join(t.TempDir(), "nothere")}, nil)
	if !errors.Is(err, msa.ErrIO) {
		t.Fatal("wanted ErrIO got", err)
	}
}

func TestState(t *testing.T) {
	if Applied.String() != "applied" || Failed.String() != "failed" || State(9).String() != "State(9)" {
		t.Fatal("State.String broke")
	}
}
