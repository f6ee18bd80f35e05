// 4 Oct 2026

// Package mutation applies a single point substitution, written like
// A23T, to an alignment. The position is in the ungapped numbering of
// the query. The same column is changed in every record that has a
// residue there, keeping that record's case, so match states stay match
// states and insertions stay insertions. Gaps are left alone.
// A mutation whose original residue is not what the query really has
// is refused. Applying it anyway would give a biologically wrong
// alignment with no complaint.
package mutation

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/andrew-torda/mutmsa/pkg/msa"
	"github.com/andrew-torda/mutmsa/pkg/posmap"
	. "github.com/andrew-torda/mutmsa/pkg/seq/common"
)

var (
	ErrBadMutation = errors.New("malformed mutation string")
	ErrMismatch    = errors.New("residue mismatch")
	ErrPosRange    = posmap.ErrPosRange
)

// Spec is a parsed mutation like A23T.
type Spec struct {
	Orig byte // residue we expect in the query
	Pos  int  // 1-based, ungapped query numbering
	New  byte // what it becomes
}

// MismatchError is returned when the query does not have the residue the
// mutation claims.
type MismatchError struct {
	Spec Spec
	Got  byte // what the query really has at Spec.Pos
}

func (e *MismatchError) Error() string {
	const msg = "%v: %s expects %c at position %d, query has %c"
	return fmt.Sprintf(msg, ErrMismatch, e.Spec, e.Spec.Orig, e.Spec.Pos, e.Got)
}

func (e *MismatchError) Unwrap() error { return ErrMismatch }

// Stats says what happened to the records.
type Stats struct {
	Column  int // 1-based alignment column that was changed
	Changed int // records with a residue substituted
	Gapped  int // records with a gap in the column, left alone
	Short   int // records that stop before the column
}

// Parse reads a mutation string. It must be exactly one upper case
// letter, some digits and another upper case letter.
func Parse(s string) (Spec, error) {
	bad := func() (Spec, error) { return Spec{}, fmt.Errorf("%w: \"%s\"", ErrBadMutation, s) }
	if len(s) < 3 || !IsMatch(s[0]) || !IsMatch(s[len(s)-1]) {
		return bad()
	}
	digits := s[1 : len(s)-1]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return bad()
		}
	}
	pos, err := strconv.Atoi(digits)
	if err != nil || pos < 1 { // too many digits or a zero position
		return bad()
	}
	return Spec{Orig: s[0], Pos: pos, New: s[len(s)-1]}, nil
}

// String gives back the canonical form. Leading zeroes are lost.
func (spec Spec) String() string {
	return string(spec.Orig) + strconv.Itoa(spec.Pos) + string(spec.New)
}

// Check makes sure the mutation can go into an aligned query sequence.
// It returns the column to be changed.
func Check(query []byte, spec Spec) (int, error) {
	ug := posmap.Ungapped(query)
	if spec.Pos < 1 || spec.Pos > len(ug) {
		return 0, &posmap.RangeError{Pos: spec.Pos, Len: len(ug)}
	}
	if got := ToUpper(ug[spec.Pos-1]); got != spec.Orig {
		return 0, &MismatchError{Spec: spec, Got: got}
	}
	return posmap.Column(query, spec.Pos)
}

// Apply returns a new alignment with the mutation in place. The input is
// not touched, so one base alignment can be used for many mutations.
// The query header becomes id_A23T. If id is empty, it comes from the
// old query header.
// Nothing is changed unless the mutation passes Check.
func Apply(aln *msa.Alignment, spec Spec, id string) (*msa.Alignment, Stats, error) {
	var stats Stats
	q := aln.Query()
	if q == nil {
		return nil, stats, fmt.Errorf("%w: no query record", msa.ErrMalformed)
	}
	col, err := Check(q.Seq, spec)
	if err != nil {
		return nil, stats, err
	}
	stats.Column = col
	if id == "" {
		id = msa.ID(q.Hdr)
	}

	out := aln.Copy()
	i := col - 1
	for j := range out.Recs {
		s := out.Recs[j].Seq
		switch {
		case i >= len(s):
			stats.Short++
		case s[i] == GapChar:
			stats.Gapped++
		case IsInsert(s[i]):
			s[i] = ToLower(spec.New)
			stats.Changed++
		default:
			s[i] = spec.New
			stats.Changed++
		}
	}
	out.Recs[0].Hdr = id + "_" + spec.String()
	return out, stats, nil
}

// ApplyString parses s and applies it.
func ApplyString(aln *msa.Alignment, s, id string) (*msa.Alignment, Stats, error) {
	spec, err := Parse(s)
	if err != nil {
		return nil, Stats{}, err
	}
	return Apply(aln, spec, id)
}
