package iohttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/mganno/mganno/internal/iostream"
	"github.com/mganno/mganno/pkg/annotate"
	"github.com/mganno/mganno/pkg/catalog"
	"github.com/mganno/mganno/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJobs struct {
	jobs map[string]*schema.Job
}

func (f *fakeJobs) ByAccession(
	_ context.Context, accession string,
) (*schema.Job, error) {
	job, ok := f.jobs[accession]
	if !ok {
		return nil, annotate.ErrNotFound("metagenome %s not found", accession)
	}
	return job, nil
}

type fakeCursor struct {
	rows []annotate.CandidateRow
	pos  int
}

func (c *fakeCursor) Next() bool {
	if c.pos >= len(c.rows) {
		return false
	}
	c.pos++
	return true
}

func (c *fakeCursor) Row() annotate.CandidateRow { return c.rows[c.pos-1] }
func (c *fakeCursor) Err() error                 { return nil }
func (c *fakeCursor) Close()                     {}

type fakeCandidates struct {
	rows []annotate.CandidateRow
}

func (f *fakeCandidates) Open(
	_ context.Context, _ *schema.Job, _ *annotate.Plan,
) (annotate.Cursor, error) {
	return &fakeCursor{rows: f.rows}, nil
}

type fakeAnnotations struct {
	records map[string]annotate.Record
}

func (f *fakeAnnotations) Bulk(
	_ context.Context, _ string, md5s []string,
) (map[string]annotate.Record, error) {
	res := make(map[string]annotate.Record)
	for _, m := range md5s {
		if rec, ok := f.records[m]; ok {
			res[m] = rec
		}
	}
	return res, nil
}

func (f *fakeAnnotations) FilterSet(
	_ context.Context, _ catalog.Type, _, _, _ string,
) (annotate.FilterSet, error) {
	return nil, nil
}

type fakeBlob struct {
	data []byte
}

func (b *fakeBlob) ReadRange(
	_ context.Context, off, length int64,
) (io.ReadCloser, error) {
	if off < 0 || off+length > int64(len(b.data)) {
		return nil, errors.New("range out of bounds")
	}
	return io.NopCloser(bytes.NewReader(b.data[off : off+length])), nil
}

func (b *fakeBlob) Size() int64  { return int64(len(b.data)) }
func (b *fakeBlob) Close() error { return nil }

type fakeBlobStore struct {
	blobs map[string][]byte
}

func (s *fakeBlobStore) Open(
	_ context.Context, handle string,
) (annotate.Blob, error) {
	data, ok := s.blobs[handle]
	if !ok {
		return nil, errors.New("no such blob: " + handle)
	}
	return &fakeBlob{data: data}, nil
}

func seqLine(readID, seqID, seq string) string {
	fields := make([]string, 13)
	fields[0] = readID
	fields[1] = seqID
	fields[12] = seq
	return strings.Join(fields, "\t") + "\n"
}

// testMux builds a mux around one public and one private job sharing a
// single-record sequence blob.
func testMux(t *testing.T) *http.ServeMux {
	t.Helper()

	line := seqLine("read_1", "seq_1", "ACGT")
	blobs := &fakeBlobStore{blobs: map[string][]byte{
		"mgm1.1.seq": []byte(line),
	}}
	cand := &fakeCandidates{rows: []annotate.CandidateRow{
		{Md5: "aa", Offset: 0, Length: int64(len(line))},
	}}
	ann := &fakeAnnotations{records: map[string]annotate.Record{
		"aa": {Md5: "aa", Organisms: []string{"Escherichia coli"}},
	}}

	jobs := &fakeJobs{jobs: map[string]*schema.Job{
		"mgm1.1": {
			ID: 1, Accession: "mgm1.1", Version: 1,
			Public:       true,
			SequenceBlob: "mgm1.1.seq",
		},
		"mgm2.1": {
			ID: 2, Accession: "mgm2.1", Version: 1,
			Public: false, Owner: "secret-token",
			SequenceBlob: "mgm1.1.seq",
		},
	}}

	h := &Handler{
		Jobs: jobs,
		Pipeline: &iostream.Pipeline{
			Candidates:  cand,
			Annotations: ann,
			Blobs:       blobs,
			ChunkSize:   100,
			QueueDepth:  1,
			Log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		},
		Log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	mux := http.NewServeMux()
	h.Register(mux)
	return mux
}

func TestAnnotationStream(t *testing.T) {
	mux := testMux(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/annotation/sequence/mgm1.1", nil)
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"text/plain; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "sequence id\tread id")
	assert.Contains(t, body, "mgm1.1|read_1|RefSeq")
	assert.Contains(t, body, "organism=[Escherichia coli]")
	assert.Contains(t, body, "Download complete. 1 rows retrieved")
}

func TestAnnotationErrors(t *testing.T) {
	mux := testMux(t)

	tests := []struct {
		name   string
		url    string
		status int
	}{
		{"unknown target", "/annotation/taxonomy/mgm1.1", http.StatusBadRequest},
		{"malformed accession", "/annotation/sequence/notanid", http.StatusBadRequest},
		{"unknown job", "/annotation/sequence/mgm9.9", http.StatusNotFound},
		{"bad type", "/annotation/sequence/mgm1.1?type=taxon", http.StatusBadRequest},
		{"fasta similarity", "/annotation/similarity/mgm1.1?format=fasta", http.StatusBadRequest},
	}

	for _, v := range tests {
		t.Run(v.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, v.url, nil)
			mux.ServeHTTP(rec, req)

			assert.Equal(t, v.status, rec.Code)
			assert.Equal(t,
				"application/json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), "ERROR")
		})
	}
}

func TestAnnotationAuthorization(t *testing.T) {
	mux := testMux(t)

	t.Run("private without token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/annotation/sequence/mgm2.1", nil)
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("private with wrong token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/annotation/sequence/mgm2.1", nil)
		req.Header.Set("auth", "wrong")
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("private with owner token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/annotation/sequence/mgm2.1", nil)
		req.Header.Set("auth", "secret-token")
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Download complete")
	})
}

func TestAnnotationGzip(t *testing.T) {
	mux := testMux(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/annotation/sequence/mgm1.1?compress=gzip", nil)
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	gz, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Download complete. 1 rows retrieved")
}

// A pre-stream failure on a compressed request must still produce the
// plain JSON error object, without a Content-Encoding header left over
// from the requested compression.
func TestAnnotationGzipPreStreamError(t *testing.T) {
	mux := testMux(t)

	// mgm1.1 carries no similarity blob handle.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/annotation/similarity/mgm1.1?compress=gzip", nil)
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Contains(t, payload["ERROR"], "mgm1.1")
}

func TestParseParamsQueryOnly(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/annotation/sequence/mgm1.1?type=function&source=KEGG"+
			"&evalue=10&filter=kinase&md5s=aa,bb", nil)

	p, err := parseParams(req, annotate.SchemaSequence, "mgm1.1")
	require.NoError(t, err)

	assert.Equal(t, "function", p.Type)
	assert.Equal(t, "KEGG", p.Source)
	assert.Equal(t, "10", p.Evalue)
	assert.Equal(t, "kinase", p.Filter)
	assert.Equal(t, []string{"aa", "bb"}, p.Md5s)
}

func TestParseParamsBodyWins(t *testing.T) {
	body := strings.NewReader(
		`{"type":"feature","source":"SwissProt","data":["cc","dd"]}`)
	req := httptest.NewRequest(http.MethodPost,
		"/annotation/sequence/mgm1.1?type=function&md5s=aa", body)
	req.Header.Set("Content-Type", "application/json")

	p, err := parseParams(req, annotate.SchemaSequence, "mgm1.1")
	require.NoError(t, err)

	assert.Equal(t, "feature", p.Type)
	assert.Equal(t, "SwissProt", p.Source)
	assert.Equal(t, []string{"cc", "dd"}, p.Md5s, "data aliases md5s")
}

func TestParseParamsVersionEncodings(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"number", `{"version":2}`},
		{"string", `{"version":"2"}`},
	}

	for _, v := range tests {
		t.Run(v.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost,
				"/annotation/sequence/mgm1.1", strings.NewReader(v.body))
			req.Header.Set("Content-Type", "application/json")

			p, err := parseParams(req, annotate.SchemaSequence, "mgm1.1")
			require.NoError(t, err)
			assert.Equal(t, "2", p.Version)
		})
	}
}

func TestParseParamsForm(t *testing.T) {
	body := strings.NewReader("type=ontology&source=Subsystems&md5s=aa,bb")
	req := httptest.NewRequest(http.MethodPost,
		"/annotation/sequence/mgm1.1", body)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	p, err := parseParams(req, annotate.SchemaSequence, "mgm1.1")
	require.NoError(t, err)

	assert.Equal(t, "ontology", p.Type)
	assert.Equal(t, "Subsystems", p.Source)
	assert.Equal(t, []string{"aa", "bb"}, p.Md5s)
}

func TestParseParamsBadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost,
		"/annotation/sequence/mgm1.1", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")

	_, err := parseParams(req, annotate.SchemaSequence, "mgm1.1")
	require.Error(t, err)

	var reqErr *annotate.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusBadRequest, reqErr.Status)
}
