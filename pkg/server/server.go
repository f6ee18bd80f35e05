// 8 Oct 2026

// Package server puts the mutation engine behind http.
//
//	GET  /health
//	POST /mutate/{mutation}?id=P12345   body: a3m, reply: mutated a3m
//	POST /column/{pos}                  body: a3m, reply: json census
//
// Bodies may be gzipped. Errors come back as json with a kind, so a
// client can tell a residue mismatch from a broken file.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/andrew-torda/mutmsa/pkg/census"
	"github.com/andrew-torda/mutmsa/pkg/msa"
	"github.com/andrew-torda/mutmsa/pkg/mutation"
	"github.com/andrew-torda/mutmsa/pkg/zwrap"
)

const dfltMaxBody = 64 << 20 // big alignments are big

var errBadParam = errors.New("bad path parameter")

// Options for the server. The zero value is fine.
type Options struct {
	MaxBody int64 // largest request body in bytes
	Logger  *log.Logger
}

type handler struct {
	maxBody int64
	lg      *log.Logger
}

// errReply is what goes back on failure.
type errReply struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

type symCount struct {
	Sym   string `json:"sym"`
	Count int    `json:"count"`
}

// colReply is the census of one column.
type colReply struct {
	Pos    int        `json:"pos"`
	Column int        `json:"column"`
	NSeq   int        `json:"nseq"`
	Counts []symCount `json:"counts"`
	Gaps   int        `json:"gaps"`
	Short  int        `json:"short"`
}

// NewServer wires the handlers into a router.
func NewServer(opts *Options) http.Handler {
	h := &handler{maxBody: dfltMaxBody, lg: log.New(os.Stderr, "mutmsad ", log.LstdFlags)}
	if opts != nil {
		if opts.MaxBody > 0 {
			h.maxBody = opts.MaxBody
		}
		if opts.Logger != nil {
			h.lg = opts.Logger
		}
	}
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Post("/mutate/{mutation}", h.mutate)
	r.Post("/column/{pos}", h.column)
	return r
}

// kindStatus maps an error to its kind and an http status.
func kindStatus(err error) (string, int) {
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe):
		return "too_large", http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadParam):
		return "malformed_parameter", http.StatusBadRequest
	case errors.Is(err, mutation.ErrBadMutation):
		return "malformed_mutation", http.StatusBadRequest
	case errors.Is(err, msa.ErrMalformed):
		return "malformed_alignment", http.StatusBadRequest
	case errors.Is(err, mutation.ErrMismatch):
		return "residue_mismatch", http.StatusUnprocessableEntity
	case errors.Is(err, mutation.ErrPosRange):
		return "position_out_of_range", http.StatusUnprocessableEntity
	case errors.Is(err, msa.ErrIO):
		return "io", http.StatusBadRequest
	}
	return "internal", http.StatusInternalServerError
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	kind, status := kindStatus(err)
	h.lg.Printf("%s %s: %s: %v", r.Method, r.URL.Path, kind, err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errReply{Kind: kind, Error: err.Error()})
}

// readAln gets the alignment out of the request body.
func (h *handler) readAln(w http.ResponseWriter, r *http.Request) (*msa.Alignment, error) {
	body := http.MaxBytesReader(w, r.Body, h.maxBody)
	rdr, err := zwrap.WrapMaybe(body)
	if err != nil {
		return nil, errors.Join(msa.ErrIO, err)
	}
	defer rdr.Close()
	return msa.Parse(rdr)
}

func (h *handler) mutate(w http.ResponseWriter, r *http.Request) {
	var mutStr string
	err := runtime.BindStyledParameterWithLocation("simple", false, "mutation",
		runtime.ParamLocationPath, chi.URLParam(r, "mutation"), &mutStr)
	if err != nil {
		h.fail(w, r, fmt.Errorf("%w: %w", errBadParam, err))
		return
	}
	spec, err := mutation.Parse(mutStr)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	aln, err := h.readAln(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out, stats, err := mutation.Apply(aln, spec, r.URL.Query().Get("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Mutmsa-Column", strconv.Itoa(stats.Column))
	w.Header().Set("X-Mutmsa-Changed", strconv.Itoa(stats.Changed))
	w.WriteHeader(http.StatusOK)
	if err := out.Write(w); err != nil {
		h.lg.Printf("writing reply: %v", err)
	}
}

func (h *handler) column(w http.ResponseWriter, r *http.Request) {
	var pos int
	err := runtime.BindStyledParameterWithLocation("simple", false, "pos",
		runtime.ParamLocationPath, chi.URLParam(r, "pos"), &pos)
	if err != nil {
		h.fail(w, r, fmt.Errorf("%w: %w", errBadParam, err))
		return
	}
	aln, err := h.readAln(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	c := census.Count(aln)
	col, counts, err := c.QueryColumn(pos)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	reply := colReply{Pos: pos, Column: col, NSeq: c.NSeq(), Counts: []symCount{},
		Gaps: c.NGap(col), Short: c.NShort(col)}
	for _, sc := range counts {
		reply.Counts = append(reply.Counts, symCount{Sym: string(sc.Sym), Count: sc.Count})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reply)
}
