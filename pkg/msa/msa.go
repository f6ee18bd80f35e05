// 2 Oct 2026

// Package msa holds multiple sequence alignments as they come from a3m
// files. A record is a header and a sequence. Upper case is a match
// state, lower case an insertion relative to the query and "-" a gap.
// The first record is the query.
// We do not interpret the sequences here. The parser passes through
// whatever bytes it finds, so a malformed file comes back out unchanged.
package msa

import (
	"errors"
	"fmt"
	"strings"

	. "github.com/andrew-torda/mutmsa/pkg/seq/common"
)

var (
	ErrMalformed = errors.New("malformed alignment")
	ErrIO        = errors.New("alignment io")
)

// Record is one header and sequence pair. Hdr does not have the
// leading ">".
type Record struct {
	Hdr string
	Seq []byte
}

// Alignment is an ordered list of records. Recs[0] is the query.
type Alignment struct {
	Recs []Record
}

// stdAA marks the twenty amino acids in both cases and the gap.
var stdAA = func() (t [256]bool) {
	for _, c := range []byte("ACDEFGHIKLMNPQRSTVWY") {
		t[c] = true
		t[ToLower(c)] = true
	}
	t[GapChar] = true
	return
}()

// Len is the number of columns the record covers.
func (r Record) Len() int { return len(r.Seq) }

// Copy gives a record which shares no memory with r.
func (r Record) Copy() Record {
	return Record{Hdr: r.Hdr, Seq: append([]byte(nil), r.Seq...)}
}

// Check looks for symbols that are not one of the twenty amino acids or a
// gap. This is only advice. Nothing else in the package cares.
func (r Record) Check() error {
	for i, c := range r.Seq {
		if !stdAA[c] {
			const symerr = "bad sym \"%c\" at position %d in \"%s\""
			return fmt.Errorf(symerr, c, i+1, trimStr(r.Hdr, 40))
		}
	}
	return nil
}

// String gives the record as it would be written, without the final
// newline.
func (r Record) String() string {
	return string(HdrChar) + r.Hdr + "\n" + string(r.Seq)
}

// NSeq returns the number of records
func (aln *Alignment) NSeq() int { return len(aln.Recs) }

// Query returns the first record or nil if there is none.
func (aln *Alignment) Query() *Record {
	if len(aln.Recs) == 0 {
		return nil
	}
	return &aln.Recs[0]
}

// Copy makes a deep copy. Nothing is shared with the original.
func (aln *Alignment) Copy() *Alignment {
	recs := make([]Record, len(aln.Recs))
	for i, r := range aln.Recs {
		recs[i] = r.Copy()
	}
	return &Alignment{Recs: recs}
}

// SetQueryID replaces the whole header of the query. It is used when a
// fresh wild type alignment comes back from a search with some generic
// name like ">101".
func (aln *Alignment) SetQueryID(id string) error {
	q := aln.Query()
	if q == nil {
		return fmt.Errorf("%w: no query record", ErrMalformed)
	}
	q.Hdr = id
	return nil
}

// Check returns the first complaint from any record.
func (aln *Alignment) Check() error {
	for _, r := range aln.Recs {
		if err := r.Check(); err != nil {
			return err
		}
	}
	return nil
}

// ID returns the identifier from a header. Of course it does not really
// know. It takes the first word and, if there is an underscore, whatever
// comes before it. Given
//     P12345_A23T some description
// it returns P12345.
func ID(hdr string) string {
	f := strings.Fields(hdr)
	if len(f) == 0 {
		return ""
	}
	id, _, _ := strings.Cut(f[0], "_")
	return id
}

// trimStr trims a string to n bytes if it is longer
func trimStr(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
