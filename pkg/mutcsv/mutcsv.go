// 5 Oct 2026

// Package mutcsv reads tables of mutations, one per row, and groups them
// by sequence identifier. A table looks like
//     sequence_id,mutation,ddg
//     P12345,A23T,-1.2
//     P12345,G40S,0.3
// Columns are found by name in the header row. "uniprot" and "mut" are
// accepted as older names for the first two. Anything else is ignored.
package mutcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andrew-torda/mutmsa/pkg/mutation"
)

var ErrNoColumn = errors.New("missing column")

var (
	idNames  = []string{"sequence_id", "uniprot", "id"}
	mutNames = []string{"mutation", "mut"}
)

// Requests maps ids to mutation strings. IDs keeps the order ids were
// first seen in, and each list keeps the order of the rows.
type Requests struct {
	IDs  []string
	Muts map[string][]string
}

// NewRequests gives an empty set of requests.
func NewRequests() *Requests { return &Requests{Muts: make(map[string][]string)} }

// canon turns A023T into A23T. Strings that do not parse are left as
// they are, so the batch can report them.
func canon(mut string) string {
	if spec, err := mutation.Parse(mut); err == nil {
		return spec.String()
	}
	return mut
}

// Add puts a mutation in the list for id. A mutation already there, even
// if written differently like A023T and A23T, is not added again. The
// first spelling is kept.
func (r *Requests) Add(id, mut string) {
	lst, ok := r.Muts[id]
	if !ok {
		r.IDs = append(r.IDs, id)
	}
	c := canon(mut)
	for _, m := range lst {
		if canon(m) == c {
			return
		}
	}
	r.Muts[id] = append(lst, mut)
}

// Get returns the mutations for an id, nil if there are none.
func (r *Requests) Get(id string) []string { return r.Muts[id] }

// NMut is the total number of mutations.
func (r *Requests) NMut() int {
	n := 0
	for _, lst := range r.Muts {
		n += len(lst)
	}
	return n
}

// findCol returns the index of the first header matching one of names.
func findCol(hdr []string, names []string) int {
	for i, h := range hdr {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, n := range names {
			if h == n {
				return i
			}
		}
	}
	return -1
}

// Read reads a table from rdr. Rows with an empty id or mutation are
// skipped.
func Read(rdr io.Reader) (*Requests, error) {
	cr := csv.NewReader(rdr)
	cr.FieldsPerRecord = -1 // ragged rows are not our business
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	hdr, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty table", ErrNoColumn)
	}
	if err != nil {
		return nil, err
	}
	if len(hdr) > 0 { // excel likes to put a byte order mark at the start
		hdr[0] = strings.TrimPrefix(hdr[0], "\ufeff")
	}
	iid, imut := findCol(hdr, idNames), findCol(hdr, mutNames)
	if iid == -1 {
		return nil, fmt.Errorf("%w: want one of %v", ErrNoColumn, idNames)
	}
	if imut == -1 {
		return nil, fmt.Errorf("%w: want one of %v", ErrNoColumn, mutNames)
	}
	reqs := NewRequests()
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if iid >= len(row) || imut >= len(row) {
			continue
		}
		id, mut := strings.TrimSpace(row[iid]), strings.TrimSpace(row[imut])
		if id == "" || mut == "" {
			continue
		}
		reqs.Add(id, mut)
	}
	return reqs, nil
}

// Readfile reads a table from a file.
func Readfile(fname string) (*Requests, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	reqs, err := Read(fp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return reqs, nil
}
