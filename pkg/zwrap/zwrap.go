// Package zwrap takes a file pointer or http body and, if the stream is
// gzipped, wraps it so reads come from the decompressor and Close shuts
// down the decompressor followed by the underlying source.
// Alignment files arrive as name.a3m or name.a3m.gz and we do not want
// the callers to care.

package zwrap

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"strings"
)

// Ext is the suffix we strip from gzipped file names.
const Ext = ".gz"

var gzMagic = []byte{0x1f, 0x8b}

type FpGzip struct { // This is what we return.
	fp   io.ReadCloser
	rdr  io.Reader // buffered version of fp, or the decompressor
	zrdr *gzip.Reader
}

// Close closes the decompressor, then the underlying source.
func (fc *FpGzip) Close() error {
	var errs []error
	if fc.zrdr != nil {
		errs = append(errs, fc.zrdr.Close())
	}
	errs = append(errs, fc.fp.Close())
	return errors.Join(errs...)
}

// Read goes to the decompressor if there is one.
func (fc *FpGzip) Read(p []byte) (int, error) { return fc.rdr.Read(p) }

// Gzipped says whether we found a compressed stream.
func (fc *FpGzip) Gzipped() bool { return fc.zrdr != nil }

// Wrap insists that the source is gzipped.
func Wrap(fp io.ReadCloser) (*FpGzip, error) {
	zrdr, err := gzip.NewReader(fp)
	if err != nil {
		return nil, err
	}
	return &FpGzip{fp: fp, rdr: zrdr, zrdr: zrdr}, nil
}

// WrapMaybe peeks at the first two bytes of the source. If they are the
// gzip magic number we decompress, otherwise we pass the bytes through.
// Unlike the older seek-and-retry version, this works on stdin and on
// http bodies.
func WrapMaybe(fp io.ReadCloser) (*FpGzip, error) {
	brdr := bufio.NewReader(fp)
	head, err := brdr.Peek(len(gzMagic))
	if err != nil && err != io.EOF { // a short file is not an error here
		return nil, err
	}
	if !bytes.Equal(head, gzMagic) {
		return &FpGzip{fp: fp, rdr: brdr}, nil
	}
	zrdr, err := gzip.NewReader(brdr)
	if err != nil {
		return nil, err
	}
	return &FpGzip{fp: fp, rdr: zrdr, zrdr: zrdr}, nil
}

// TrimExt removes a trailing ".gz" from a file name.
func TrimExt(fname string) string { return strings.TrimSuffix(fname, Ext) }
