// 3 Oct 2026

// Package posmap converts between the numbering of the query, as a
// biologist would write it ("residue 23"), and the columns of the
// aligned query string in an a3m file.
// Only upper case characters (match states) consume a query position.
// Lower case (insertions) and gaps do not. This is the a3m convention
// and everything else depends on it.
package posmap

import (
	"errors"
	"fmt"

	. "github.com/andrew-torda/mutmsa/pkg/seq/common"
)

var ErrPosRange = errors.New("position out of range")

// RangeError says which position was asked for and how many query
// positions there really are.
type RangeError struct {
	Pos int // requested, 1-based
	Len int // number of match states in the query
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%v: position %d, query length %d", ErrPosRange, e.Pos, e.Len)
}

func (e *RangeError) Unwrap() error { return ErrPosRange }

// Ungapped returns the upper case characters of s in order. This is
// the query as it is numbered.
func Ungapped(s []byte) []byte {
	r := make([]byte, 0, len(s))
	for _, c := range s {
		if IsMatch(c) {
			r = append(r, c)
		}
	}
	return r
}

// NQuery counts the upper case characters.
func NQuery(s []byte) int {
	n := 0
	for _, c := range s {
		if IsMatch(c) {
			n++
		}
	}
	return n
}

// Column takes a 1-based query position and returns the 1-based column
// in s where it sits.
func Column(s []byte, qpos int) (int, error) {
	if qpos >= 1 {
		n := 0
		for i, c := range s {
			if IsMatch(c) {
				if n++; n == qpos {
					return i + 1, nil
				}
			}
		}
	}
	return 0, &RangeError{Pos: qpos, Len: NQuery(s)}
}

// Columns maps every query position at once. cols[k-1] is the column of
// query position k.
func Columns(s []byte) []int {
	cols := make([]int, 0, len(s))
	for i, c := range s {
		if IsMatch(c) {
			cols = append(cols, i+1)
		}
	}
	return cols
}
