package msa

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/edsrzf/mmap-go"

	"github.com/andrew-torda/mutmsa/pkg/zwrap"
)

// Readfile reads an alignment from a file. An empty name or "-" means
// stdin. Files are memory mapped and may be gzipped.
func Readfile(fname string, f Format) (*Alignment, error) {
	if fname == "" || fname == "-" {
		rdr, err := zwrap.WrapMaybe(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("%w: stdin: %w", ErrIO, err)
		}
		return f.Read(rdr)
	}
	fp, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer fp.Close()
	fi, err := fp.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if fi.Size() == 0 { // cannot map zero bytes
		return nil, fmt.Errorf("%w: %s is empty", ErrMalformed, fname)
	}
	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: mapping %s: %w", ErrIO, fname, err)
	}
	defer mm.Unmap()
	rdr, err := zwrap.WrapMaybe(io.NopCloser(bytes.NewReader(mm)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrIO, fname, err)
	}
	aln, err := f.Read(rdr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return aln, nil
}

// WriteToF writes an alignment to a file, or stdout if the name is empty
// or "-". The data goes to a temporary file in the same directory which
// is renamed at the end, so a failure never leaves half a file behind.
func WriteToF(fname string, aln *Alignment, f Format) error {
	if fname == "" || fname == "-" {
		return f.Write(os.Stdout, aln)
	}
	tmp, err := os.CreateTemp(filepath.Dir(fname), ".tmp_"+filepath.Base(fname))
	if err != nil {
		return fmt.Errorf("%w: creating output alignment file: %w", ErrIO, err)
	}
	tname := tmp.Name()
	tmp.Chmod(0644) // CreateTemp is stingy with permissions
	if err = f.Write(tmp, aln); err != nil {
		tmp.Close()
		os.Remove(tname)
		return fmt.Errorf("%s: %w", fname, err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tname)
		return fmt.Errorf("%w: %s: %w", ErrIO, fname, err)
	}
	if err = os.Rename(tname, fname); err != nil {
		os.Remove(tname)
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}
