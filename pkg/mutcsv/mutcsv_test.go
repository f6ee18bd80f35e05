package mutcsv_test

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	. "github.com/andrew-torda/mutmsa/pkg/mutcsv"
	"github.com/andrew-torda/mutmsa/pkg/seq/common"
)

var table1 = `sequence_id,mutation,ddg
P2,G5A,0.1
P1,A2G,-1.5
P1,A2S,0.3
# a comment
P1,A2G,-1.5
,A3T,0
P3,,0
P2, V7L ,1
`

func TestRead(t *testing.T) {
	reqs, err := Read(strings.NewReader(table1))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"P2", "P1"}, reqs.IDs); diff != "" {
		t.Fatalf("order of ids (-want +got):\n%s", diff)
	}
	want := map[string][]string{
		"P1": {"A2G", "A2S"},
		"P2": {"G5A", "V7L"},
	}
	if diff := cmp.Diff(want, reqs.Muts); diff != "" {
		t.Fatalf("mutations (-want +got):\n%s", diff)
	}
	if reqs.NMut() != 4 {
		t.Fatal("NMut got", reqs.NMut())
	}
	if reqs.Get("P9") != nil {
		t.Fatal("unknown id should have no mutations")
	}
}

// The original spreadsheets used "uniprot" and "mut", in any column order.
func TestOldNames(t *testing.T) {
	s := "\ufeffddg,Mut,UniProt\n1.0,A2G,P1\n"
	reqs, err := Read(strings.NewReader(s))
	if err != nil {
		t.Fatal(err)
	}
	if got := reqs.Get("P1"); len(got) != 1 || got[0] != "A2G" {
		t.Fatal("got", got)
	}
}

func TestMissingColumn(t *testing.T) {
	for _, s := range []string{"", "sequence_id,ddg\nP1,1\n", "mutation\nA2G\n"} {
		if _, err := Read(strings.NewReader(s)); !errors.Is(err, ErrNoColumn) {
			t.Errorf("\"%s\" wanted ErrNoColumn got %v", s, err)
		}
	}
}

func TestReadfile(t *testing.T) {
	fname, err := common.WrtTemp(table1)
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(fname)
	reqs, err := Readfile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if len(reqs.IDs) != 2 {
		t.Fatal("ids", reqs.IDs)
	}
	if _, err := Readfile(fname + ".not_there"); err == nil {
		t.Fatal("missing file should fail")
	}
}

// TestAddSpelling has the same mutation written with leading zeros. It
// would give the same output file, so it is only kept once.
func TestAddSpelling(t *testing.T) {
	r := NewRequests()
	for _, m := range []string{"A23T", "A023T", "A0023T", "A23S", "x1", "x1"} {
		r.Add("P1", m)
	}
	if diff := cmp.Diff([]string{"A23T", "A23S", "x1"}, r.Get("P1")); diff != "" {
		t.Fatalf("mutations (-want +got):\n%s", diff)
	}
	if r.NMut() != 3 {
		t.Fatal("NMut got", r.NMut())
	}
}
