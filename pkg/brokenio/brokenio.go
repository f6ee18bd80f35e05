// brokenio is a wrapper around an io.Reader which breaks on request.
// Typical use: you have a file pointer, a reader from a compressed
// source or an http body. You write
// reader = brokenio.NewReader(reader)
// and everything works as before, but with artificial errors.
// Errors can come after a fixed number of bytes or at random. A failure
// on the very first read looks like a zero length file, which is what
// one often sees in practice.

package brokenio

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
)

// ErrBroken is what a broken read returns.
var ErrBroken = errors.New("brokenio: artificial read failure")

// BrknRdrClsr counts the data that has gone through and decides when
// to fail.
type BrknRdrClsr struct {
	rdr_orig     io.Reader // Wrapped reader
	rnd          *rand.Rand
	failAfter    int     // fail once this many bytes were read, -1 for never
	probZeroFile float32 // Probability of returning a zero length file
	probFail     float32 // Probability any one read fails
	nCalled      int
	nByte        int
	verbose      bool
}

// NewReader returns a new Reader - a wrapper around the old one. By
// default it never breaks.
func NewReader(rIn io.Reader) *BrknRdrClsr {
	return &BrknRdrClsr{
		rdr_orig:  rIn,
		rnd:       rand.New(rand.NewSource(1637)),
		failAfter: -1,
	}
}

// SetVerbose sets the verbosity flag to true or false
func (r *BrknRdrClsr) SetVerbose(newV bool) { r.verbose = newV }

// SetFailAfter makes every read fail once n bytes have been delivered.
func (r *BrknRdrClsr) SetFailAfter(n int) { r.failAfter = n }

// SetProbZeroFile sets the rate at which we simply return 0 bytes on the
// first read. It must be a value from 0 to 1. We do not check.
func (r *BrknRdrClsr) SetProbZeroFile(prob float32) { r.probZeroFile = prob }

// SetProbFail set the probability of a read failing.
func (r *BrknRdrClsr) SetProbFail(prob float32) { r.probFail = prob }

// SetSeed resets the random number generator.
func (r *BrknRdrClsr) SetSeed(seed int64) { r.rnd = rand.New(rand.NewSource(seed)) }

// NByte is the amount of data that got through.
func (r *BrknRdrClsr) NByte() int { return r.nByte }

// Read wraps the original reader.
func (r *BrknRdrClsr) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	r.nCalled++
	if r.nCalled == 1 && r.probZeroFile > 0 && r.rnd.Float32() < r.probZeroFile {
		return 0, io.EOF
	}
	if r.failAfter >= 0 {
		left := r.failAfter - r.nByte
		if left <= 0 {
			return 0, ErrBroken
		}
		if len(p) > left { // stop exactly at the limit
			p = p[:left]
		}
	}
	if r.probFail > 0 && r.rnd.Float32() < r.probFail {
		return 0, ErrBroken
	}
	n, err = r.rdr_orig.Read(p)
	r.nByte += n
	return n, err
}

// Close closes the original if it can be closed.
func (r *BrknRdrClsr) Close() error {
	if r.verbose {
		fmt.Println("Closing", r.nCalled, "calls and", r.nByte, "bytes")
	}
	if c, ok := r.rdr_orig.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
