// 5 Oct 2026
// census counts how often each residue appears in each column of an
// alignment. It is what you look at before deciding a mutation makes
// sense, and what the batch driver prints when it is being chatty.
// Case is folded, so an insertion "a" counts as "A". Gaps have their own
// row. Records that are too short to reach a column are counted
// separately.

package census

import (
	"math"
	"sort"

	"github.com/andrew-torda/matrix"

	"github.com/andrew-torda/mutmsa/pkg/msa"
	"github.com/andrew-torda/mutmsa/pkg/posmap"
	. "github.com/andrew-torda/mutmsa/pkg/seq/common"
)

const maxSym = 128
const badMap = 255
const otherSym byte = 0 // row for anything outside ascii

// Census holds counts.Mat[symbol row][column].
type Census struct {
	counts  *matrix.FMatrix2d
	mapping [maxSym]uint8 // mapping['C'] tells me the row used for C
	revmap  []byte        // revmap[2] tells me the character in row 2
	nseq    int
	ncol    int
	query   []byte
}

// SymCount is one entry of a column.
type SymCount struct {
	Sym   byte
	Count int
}

// symOf folds case and puts everything outside ascii in one row.
func symOf(s byte) byte {
	if s >= maxSym {
		return otherSym
	}
	return ToUpper(s)
}

// Count goes over the alignment once to see which symbols are used and
// once more to count them.
func Count(aln *msa.Alignment) *Census {
	c := &Census{nseq: aln.NSeq()}
	var used [maxSym]bool
	for _, r := range aln.Recs {
		if len(r.Seq) > c.ncol {
			c.ncol = len(r.Seq)
		}
		for _, s := range r.Seq {
			used[symOf(s)] = true
		}
	}
	for i := range c.mapping {
		c.mapping[i] = badMap
	}
	for i, u := range used {
		if u {
			c.mapping[i] = uint8(len(c.revmap))
			c.revmap = append(c.revmap, byte(i))
		}
	}
	c.counts = matrix.NewFMatrix2d(len(c.revmap), c.ncol)
	for _, r := range aln.Recs {
		for i, s := range r.Seq {
			c.counts.Mat[c.mapping[symOf(s)]][i]++
		}
	}
	if q := aln.Query(); q != nil {
		c.query = q.Seq
	}
	return c
}

// NCol is the length of the longest record.
func (c *Census) NCol() int { return c.ncol }

// NSeq is the number of records counted.
func (c *Census) NSeq() int { return c.nseq }

// Get returns how often sym appears in a 1-based column.
func (c *Census) Get(sym byte, col int) int {
	if col < 1 || col > c.ncol || sym >= maxSym {
		return 0
	}
	row := c.mapping[ToUpper(sym)]
	if row == badMap {
		return 0
	}
	return int(c.counts.Mat[row][col-1])
}

// Column lists the symbols in a 1-based column, most common first. Gaps
// and bytes outside ascii are not included. Ties go in alphabetical order.
func (c *Census) Column(col int) []SymCount {
	var r []SymCount
	if col < 1 || col > c.ncol {
		return r
	}
	for row, sym := range c.revmap {
		if n := int(c.counts.Mat[row][col-1]); n > 0 && sym != GapChar && sym != otherSym {
			r = append(r, SymCount{Sym: sym, Count: n})
		}
	}
	sort.SliceStable(r, func(i, j int) bool { return r[i].Count > r[j].Count })
	return r
}

// NGap is the number of gaps in a column.
func (c *Census) NGap(col int) int { return c.Get(GapChar, col) }

// NShort is the number of records which stop before a column. A record
// with a non-ascii byte in the column reaches it, so is not short.
func (c *Census) NShort(col int) int {
	n := c.nseq
	for _, row := range c.counts.Mat {
		if col >= 1 && col <= c.ncol {
			n -= int(row[col-1])
		}
	}
	return n
}

// Frac is the fraction of records carrying sym in a column.
func (c *Census) Frac(sym byte, col int) float32 {
	if c.nseq == 0 {
		return 0
	}
	return float32(c.Get(sym, col)) / float32(c.nseq)
}

// QueryColumn is the census of the column where query position qpos sits.
func (c *Census) QueryColumn(qpos int) (int, []SymCount, error) {
	col, err := posmap.Column(c.query, qpos)
	if err != nil {
		return 0, nil, err
	}
	return col, c.Column(col), nil
}

// GapFrac is the fraction of records with a gap in col.
func (c *Census) GapFrac(col int) float32 { return c.Frac(GapChar, col) }

// Entropy of the residues in col, in bits. Gaps are ignored, so a
// column with one residue type and lots of gaps has zero entropy.
func (c *Census) Entropy(col int) float64 {
	var n int
	counts := c.Column(col)
	for _, sc := range counts {
		n += sc.Count
	}
	var h float64
	for _, sc := range counts {
		p := float64(sc.Count) / float64(n)
		h -= p * math.Log2(p)
	}
	return h
}
