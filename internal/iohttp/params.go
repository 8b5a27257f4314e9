// Package iohttp exposes the annotation streaming API over HTTP.
// It parses and merges request parameters, runs the authorization
// boundary check, and hands resolved plans to the stream pipeline.
package iohttp

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/mganno/mganno/pkg/annotate"
)

// postBody is the JSON body accepted on POST requests. Fields present
// in the body override query parameters. "md5s" and "data" are
// synonyms for the explicit identifier list.
type postBody struct {
	Format  string     `json:"format"`
	Md5s    []string   `json:"md5s"`
	Data    []string   `json:"data"`
	Type    string     `json:"type"`
	Version flexString `json:"version"`
	Source  string     `json:"source"`
}

// flexString accepts either a JSON string or a bare number, so bodies
// carrying `"version": 2` and `"version": "2"` both resolve.
type flexString string

func (f *flexString) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// maxBodySize bounds POST bodies; identifier lists are the only large
// payload and 8 MB holds well over 100k md5s.
const maxBodySize = 8 << 20

// parseParams merges query parameters with an optional POST body into
// raw request parameters. Body values win over query values.
func parseParams(
	r *http.Request,
	schema annotate.SchemaKind,
	accession string,
) (annotate.Params, error) {
	q := r.URL.Query()
	p := annotate.Params{
		Accession:   accession,
		Schema:      schema,
		Source:      q.Get("source"),
		Type:        q.Get("type"),
		Format:      q.Get("format"),
		Evalue:      q.Get("evalue"),
		Identity:    q.Get("identity"),
		Length:      q.Get("length"),
		Filter:      q.Get("filter"),
		FilterLevel: q.Get("filter_level"),
		Version:     q.Get("version"),
		Compress:    q.Get("compress") == "gzip",
	}
	if list := q.Get("md5s"); list != "" {
		p.Md5s = strings.Split(list, ",")
	}

	if r.Method != http.MethodPost {
		return p, nil
	}

	ct := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(ct, "application/x-www-form-urlencoded"):
		if err := r.ParseForm(); err != nil {
			return p, annotate.ErrBadRequest("invalid form body: %v", err)
		}
		mergeForm(&p, r)
	default:
		if err := mergeJSON(&p, r.Body); err != nil {
			return p, err
		}
	}
	return p, nil
}

func mergeForm(p *annotate.Params, r *http.Request) {
	if v := r.PostFormValue("format"); v != "" {
		p.Format = v
	}
	if v := r.PostFormValue("type"); v != "" {
		p.Type = v
	}
	if v := r.PostFormValue("version"); v != "" {
		p.Version = v
	}
	if v := r.PostFormValue("source"); v != "" {
		p.Source = v
	}
	if v := r.PostFormValue("md5s"); v != "" {
		p.Md5s = strings.Split(v, ",")
	}
}

func mergeJSON(p *annotate.Params, body io.Reader) error {
	raw, err := io.ReadAll(io.LimitReader(body, maxBodySize))
	if err != nil {
		return annotate.ErrBadRequest("could not read request body: %v", err)
	}
	if len(raw) == 0 {
		return nil
	}

	var b postBody
	if err := json.Unmarshal(raw, &b); err != nil {
		return annotate.ErrBadRequest("invalid JSON body: %v", err)
	}

	if b.Format != "" {
		p.Format = b.Format
	}
	if b.Type != "" {
		p.Type = b.Type
	}
	if b.Version != "" {
		p.Version = string(b.Version)
	}
	if b.Source != "" {
		p.Source = b.Source
	}
	if len(b.Md5s) > 0 {
		p.Md5s = b.Md5s
	}
	if len(b.Data) > 0 {
		p.Md5s = b.Data
	}
	return nil
}
