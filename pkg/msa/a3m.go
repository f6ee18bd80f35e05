// Reader and writer for a3m and aligned fasta.

package msa

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	. "github.com/andrew-torda/mutmsa/pkg/seq/common"
)

// Format is a pair of functions for reading and writing one kind of
// alignment file plus the extension its files use.
type Format struct {
	Name  string
	Ext   string
	Read  func(io.Reader) (*Alignment, error)
	Write func(io.Writer, *Alignment) error
}

const faWidth = 60 // characters per line in aligned fasta output

var (
	A3M   = Format{Name: "a3m", Ext: ".a3m", Read: Parse, Write: writeA3m}
	Fasta = Format{Name: "fasta", Ext: ".fasta", Read: Parse, Write: writeFasta}
)

var formats = []Format{A3M, Fasta}

// FormatByName finds a format from its name ("a3m") or its
// extension (".a3m").
func FormatByName(name string) (Format, error) {
	name = strings.ToLower(name)
	for _, f := range formats {
		if name == f.Name || name == f.Ext {
			return f, nil
		}
	}
	return Format{}, fmt.Errorf("unknown alignment format \"%s\"", name)
}

// Parse reads an alignment. A line starting with ">" starts a record.
// Everything up to the next such line is trimmed of white space and
// glued together to make the sequence. Lines before the first header
// are ignored. No header at all gives ErrMalformed.
func Parse(rdr io.Reader) (*Alignment, error) {
	var aln Alignment
	var cur *Record
	brdr := bufio.NewReader(rdr)
	for {
		line, err := brdr.ReadBytes('\n')
		if len(line) > 0 {
			if line[0] == HdrChar {
				hdr := string(bytes.TrimSpace(line[1:]))
				aln.Recs = append(aln.Recs, Record{Hdr: hdr, Seq: []byte{}})
				cur = &aln.Recs[len(aln.Recs)-1]
			} else if cur != nil { // append copies, so the input can go away
				cur.Seq = append(cur.Seq, bytes.TrimSpace(line)...)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}
	}
	if len(aln.Recs) == 0 {
		return nil, fmt.Errorf("%w: no query record found", ErrMalformed)
	}
	return &aln, nil
}

// writeA3m puts each sequence on one line.
func writeA3m(w io.Writer, aln *Alignment) error {
	bw := bufio.NewWriter(w)
	for _, r := range aln.Recs {
		bw.WriteByte(HdrChar)
		bw.WriteString(r.Hdr)
		bw.WriteByte('\n')
		bw.Write(r.Seq)
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// writeFasta breaks sequences into lines of faWidth.
func writeFasta(w io.Writer, aln *Alignment) error {
	bw := bufio.NewWriter(w)
	for _, r := range aln.Recs {
		bw.WriteByte(HdrChar)
		bw.WriteString(r.Hdr)
		bw.WriteByte('\n')
		s := r.Seq
		for ; len(s) > faWidth; s = s[faWidth:] {
			bw.Write(s[:faWidth])
			bw.WriteByte('\n')
		}
		bw.Write(s)
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// Write writes the alignment in a3m format.
func (aln *Alignment) Write(w io.Writer) error { return writeA3m(w, aln) }

// String is the alignment in a3m format.
func (aln *Alignment) String() string {
	var b strings.Builder
	writeA3m(&b, aln)
	return b.String()
}
