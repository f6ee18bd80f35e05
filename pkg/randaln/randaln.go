// 31 July 2020
// 4 Oct 2026 a3m states instead of plain random letters

// Package randaln makes random a3m alignments. They are for testing and
// benchmarking, so the content is not important, but the mixture of
// match states, insertions and gaps is.
package randaln

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/andrew-torda/mutmsa/pkg/msa"
	. "github.com/andrew-torda/mutmsa/pkg/seq/common"
)

var letters = []byte("ACDEFGHIKLMNPQRSTVWY")

// Args is the set of arguments passed to the main function
type Args struct {
	Iseed  int64     // random number seed
	Wrtr   io.Writer // where we write to
	Cmmt   string    // Comment for the sequences
	Nseq   int       // number of sequences including the query
	Len    int       // number of match columns
	PGap   float32   // probability of a gap in a match column
	PIns   float32   // probability of an insertion before a match column
	QryGap bool      // allow gaps and insertions in the query too
	MkErr  bool      // make some records short, as if truncated
}

// row makes one aligned sequence with nMatch match columns.
func row(rnd *rand.Rand, nMatch int, pGap, pIns float32) []byte {
	s := make([]byte, 0, nMatch+nMatch/4)
	for i := 0; i < nMatch; i++ {
		for rnd.Float32() < pIns {
			s = append(s, ToLower(letters[rnd.Intn(len(letters))]))
		}
		if rnd.Float32() < pGap {
			s = append(s, GapChar)
		} else {
			s = append(s, letters[rnd.Intn(len(letters))])
		}
	}
	return s
}

// Query returns a single random query row with gaps and insertions
// using the probabilities in args. It never has zero match states.
func Query(args *Args) []byte {
	rnd := rand.New(rand.NewSource(args.Iseed))
	s := row(rnd, args.Len, args.PGap, args.PIns)
	s = append(s, letters[rnd.Intn(len(letters))])
	return s
}

// Alignment builds a random alignment. The query has no gaps or
// insertions unless args.QryGap is set, which is what search programs
// usually give back.
func Alignment(args *Args) *msa.Alignment {
	rnd := rand.New(rand.NewSource(args.Iseed))
	width := len(fmt.Sprintf("%d", args.Nseq))
	aln := &msa.Alignment{Recs: make([]msa.Record, 0, args.Nseq)}
	for i := 0; i < args.Nseq; i++ {
		var s []byte
		if i == 0 && !args.QryGap {
			s = row(rnd, args.Len, 0, 0)
		} else {
			s = row(rnd, args.Len, args.PGap, args.PIns)
		}
		if args.MkErr && i > 0 && rnd.Intn(4) == 0 {
			s = s[:rnd.Intn(len(s)+1)]
		}
		hdr := fmt.Sprintf("%s %[2]*d", args.Cmmt, width, i+1)
		aln.Recs = append(aln.Recs, msa.Record{Hdr: hdr, Seq: s})
	}
	return aln
}

// RandAlnMain writes a random alignment to args.Wrtr.
func RandAlnMain(args *Args) error {
	if args.Nseq < 1 {
		return fmt.Errorf("need at least one sequence, not %d", args.Nseq)
	}
	if args.Wrtr == nil {
		return fmt.Errorf("randaln: no writer")
	}
	return Alignment(args).Write(args.Wrtr)
}
