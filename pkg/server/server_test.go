package server_test

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/andrew-torda/mutmsa/pkg/msa"
	. "github.com/andrew-torda/mutmsa/pkg/server"
)

const set1 = `>P1 wild type
MKTAYIAKQR
>hit1
MK-AYIAKQR
>hit2
mktaYIAKQR
>hit3
MKtaaAYIAKQR
>short
MK
`

type reply struct {
	status int
	hdr    http.Header
	body   []byte
}

func newSrv(t *testing.T, opts *Options) *httptest.Server {
	t.Helper()
	if opts == nil {
		opts = &Options{}
	}
	opts.Logger = log.New(io.Discard, "", 0)
	srv := httptest.NewServer(NewServer(opts))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path string, body []byte) reply {
	t.Helper()
	rsp, err := srv.Client().Post(srv.URL+path, "text/plain", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer rsp.Body.Close()
	b, err := io.ReadAll(rsp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return reply{rsp.StatusCode, rsp.Header, b}
}

func errKind(t *testing.T, b []byte) string {
	t.Helper()
	var e struct {
		Kind  string `json:"kind"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(b, &e); err != nil {
		t.Fatalf("error body %q: %v", b, err)
	}
	if e.Error == "" {
		t.Error("empty error message")
	}
	return e.Kind
}

func TestHealth(t *testing.T) {
	srv := newSrv(t, nil)
	rsp, err := srv.Client().Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	rsp.Body.Close()
	if rsp.StatusCode != http.StatusOK {
		t.Fatal("health got", rsp.Status)
	}
}

func TestMutate(t *testing.T) {
	srv := newSrv(t, nil)
	r := post(t, srv, "/mutate/T3V", []byte(set1))
	if r.status != http.StatusOK {
		t.Fatalf("status %d body %s", r.status, r.body)
	}
	aln, err := msa.Parse(bytes.NewReader(r.body))
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, rec := range aln.Recs {
		got = append(got, rec.Hdr+" "+string(rec.Seq))
	}
	want := []string{
		"P1_T3V MKVAYIAKQR",
		"hit1 MK-AYIAKQR",
		"hit2 mkvaYIAKQR",
		"hit3 MKvaaAYIAKQR",
		"short MK",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mutated alignment (-want +got):\n%s", diff)
	}
	if c := r.hdr.Get("X-Mutmsa-Column"); c != "3" {
		t.Error("column header got", c)
	}
	if c := r.hdr.Get("X-Mutmsa-Changed"); c != "3" {
		t.Error("changed header got", c)
	}
}

func TestMutateID(t *testing.T) {
	srv := newSrv(t, nil)
	r := post(t, srv, "/mutate/T003V?id=BRCA", []byte(set1))
	if r.status != http.StatusOK {
		t.Fatalf("status %d body %s", r.status, r.body)
	}
	if !strings.HasPrefix(string(r.body), ">BRCA_T3V\n") {
		t.Errorf("header not replaced: %s", r.body)
	}
}

func TestMutateGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write([]byte(set1))
	zw.Close()
	srv := newSrv(t, nil)
	r := post(t, srv, "/mutate/M1A", buf.Bytes())
	if r.status != http.StatusOK {
		t.Fatalf("status %d body %s", r.status, r.body)
	}
	if !strings.Contains(string(r.body), "\nAKTAYIAKQR\n") {
		t.Errorf("query not mutated: %s", r.body)
	}
}

func TestMutateErrors(t *testing.T) {
	srv := newSrv(t, nil)
	for _, tt := range []struct {
		path   string
		body   string
		status int
		kind   string
	}{
		{"/mutate/T4V", set1, http.StatusUnprocessableEntity, "residue_mismatch"},
		{"/mutate/A11T", set1, http.StatusUnprocessableEntity, "position_out_of_range"},
		{"/mutate/A0T", set1, http.StatusBadRequest, "malformed_mutation"},
		{"/mutate/t3v", set1, http.StatusBadRequest, "malformed_mutation"},
		{"/mutate/T3V", "MKTAYIAKQR\n", http.StatusBadRequest, "malformed_alignment"},
		{"/mutate/T3V", "", http.StatusBadRequest, "malformed_alignment"},
		{"/column/11", set1, http.StatusUnprocessableEntity, "position_out_of_range"},
		{"/column/abc", set1, http.StatusBadRequest, "malformed_parameter"},
	} {
		r := post(t, srv, tt.path, []byte(tt.body))
		if r.status != tt.status {
			t.Errorf("%s got status %d want %d", tt.path, r.status, tt.status)
			continue
		}
		if k := errKind(t, r.body); k != tt.kind {
			t.Errorf("%s got kind %s want %s", tt.path, k, tt.kind)
		}
	}
}

func TestTooLarge(t *testing.T) {
	srv := newSrv(t, &Options{MaxBody: 16})
	r := post(t, srv, "/mutate/T3V", []byte(set1))
	if r.status != http.StatusRequestEntityTooLarge {
		t.Fatalf("got status %d body %s", r.status, r.body)
	}
	if k := errKind(t, r.body); k != "too_large" {
		t.Error("kind", k)
	}
}

func TestColumn(t *testing.T) {
	srv := newSrv(t, nil)
	r := post(t, srv, "/column/3", []byte(set1))
	if r.status != http.StatusOK {
		t.Fatalf("status %d body %s", r.status, r.body)
	}
	var got struct {
		Pos    int `json:"pos"`
		Column int `json:"column"`
		NSeq   int `json:"nseq"`
		Counts []struct {
			Sym   string `json:"sym"`
			Count int    `json:"count"`
		} `json:"counts"`
		Gaps  int `json:"gaps"`
		Short int `json:"short"`
	}
	if err := json.Unmarshal(r.body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Pos != 3 || got.Column != 3 || got.NSeq != 5 || got.Gaps != 1 || got.Short != 1 {
		t.Errorf("census wrong %+v", got)
	}
	if len(got.Counts) != 1 || got.Counts[0].Sym != "T" || got.Counts[0].Count != 3 {
		t.Errorf("counts wrong %+v", got.Counts)
	}
}
