// 7 Oct 2026

// Package resolve finds protein sequences from their identifiers. It
// looks in a local fasta file first and otherwise asks UniProt over
// http. Answers are kept in a Cache which lives as long as one run, so
// a batch with many mutations per protein only fetches each once.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/andrew-torda/mutmsa/pkg/msa"
	"github.com/andrew-torda/mutmsa/pkg/zwrap"
)

var ErrUnknownID = errors.New("unknown sequence id")

// UniProtURL is where the REST interface lives.
const UniProtURL = "https://rest.uniprot.org/uniprotkb/"

// A Fetcher returns the sequence for an identifier.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (string, error)
}

// FastaIndex is a local database, read from a fasta file.
type FastaIndex map[string]string

// Fetch looks id up in the index. There is no network, so ctx is not used.
func (fi FastaIndex) Fetch(_ context.Context, id string) (string, error) {
	if s, ok := fi[id]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: %s not in fasta index", ErrUnknownID, id)
}

// keys gives the names a fasta header can be found under. The first
// word always, and for headers like sp|P69905|HBA_HUMAN, the accession.
func keys(hdr string) []string {
	f := strings.Fields(hdr)
	if len(f) == 0 {
		return nil
	}
	k := []string{f[0]}
	if parts := strings.Split(f[0], "|"); len(parts) >= 2 && parts[1] != "" {
		k = append(k, parts[1])
	}
	return k
}

// ReadFastaIndex reads a fasta file (possibly gzipped). Gaps are kept,
// since some people keep raw sequences in alignment files. The first
// sequence with a name wins.
func ReadFastaIndex(fname string) (FastaIndex, error) {
	aln, err := msa.Readfile(fname, msa.Fasta)
	if err != nil {
		return nil, err
	}
	fi := make(FastaIndex, aln.NSeq())
	for _, r := range aln.Recs {
		for _, k := range keys(r.Hdr) {
			if _, ok := fi[k]; !ok {
				fi[k] = string(r.Seq)
			}
		}
	}
	return fi, nil
}

// UniProt fetches from a UniProt style REST server.
type UniProt struct {
	BaseURL string       // defaults to UniProtURL
	Client  *http.Client // defaults to http.DefaultClient
}

// Fetch asks for base/id.fasta and returns the sequence. A 404 is an
// unknown id.
func (u *UniProt) Fetch(ctx context.Context, id string) (string, error) {
	base, client := u.BaseURL, u.Client
	if base == "" {
		base = UniProtURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if id == "" {
		return "", fmt.Errorf("%w: empty id", ErrUnknownID)
	}
	addr := strings.TrimSuffix(base, "/") + "/" + url.PathEscape(id) + ".fasta"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: %s at %s", ErrUnknownID, id, addr)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("wanted %s using %s, got %s", id, addr, resp.Status)
	}
	rdr, err := zwrap.WrapMaybe(resp.Body)
	if err != nil {
		return "", err
	}
	aln, err := msa.Fasta.Read(rdr)
	if err != nil {
		return "", fmt.Errorf("%s from %s: %w", id, addr, err)
	}
	s := aln.Query().Seq
	if len(s) == 0 {
		return "", fmt.Errorf("%w: %s came back empty", ErrUnknownID, id)
	}
	return string(s), nil
}

// Chain tries each Fetcher in turn. Only an unknown id moves on to the
// next. Any other error is returned at once.
type Chain []Fetcher

// Fetch asks each Fetcher in order until one knows id.
func (c Chain) Fetch(ctx context.Context, id string) (string, error) {
	for _, f := range c {
		s, err := f.Fetch(ctx, id)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, ErrUnknownID) {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownID, id)
}

// Cache remembers what a Fetcher said. Errors are not remembered.
// It is safe for use by several goroutines.
type Cache struct {
	mu   sync.Mutex
	f    Fetcher
	seqs map[string]string
}

// NewCache puts an empty cache in front of f.
func NewCache(f Fetcher) *Cache { return &Cache{f: f, seqs: make(map[string]string)} }

// Fetch answers from the cache if it can, otherwise asks the Fetcher
// and remembers a successful answer.
func (c *Cache) Fetch(ctx context.Context, id string) (string, error) {
	c.mu.Lock()
	s, ok := c.seqs[id]
	c.mu.Unlock()
	if ok {
		return s, nil
	}
	s, err := c.f.Fetch(ctx, id)
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.seqs[id] = s
	c.mu.Unlock()
	return s, nil
}

// Len is the number of sequences held.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seqs)
}
