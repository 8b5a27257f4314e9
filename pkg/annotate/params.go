package annotate

import (
	"strconv"
	"strings"

	"github.com/mganno/mganno/pkg/catalog"
)

// Params are the raw request parameters after the HTTP layer has merged
// query values with a POST body (body values win). All fields are
// strings as received; Resolve validates them against the catalogs.
type Params struct {
	Accession   string
	Schema      SchemaKind
	Source      string
	Type        string
	Format      string
	Evalue      string
	Identity    string
	Length      string
	Filter      string
	FilterLevel string
	Version     string
	Md5s        []string
	Compress    bool
}

// Plan is the immutable resolved form of one annotation request.
// It is threaded through every pipeline stage; nothing mutates it
// after Resolve returns.
type Plan struct {
	Accession   string
	Schema      SchemaKind
	Source      catalog.Source
	Type        catalog.Type
	Format      Format
	Cutoffs     Cutoffs
	Filter      string
	FilterLevel string
	Version     int
	Md5s        []string
	Compress    bool
}

// Resolve validates raw parameters against the fixed catalogs and
// produces the request plan. Any violation short-circuits the request
// with a coded error before any processing occurs.
//
// Documented leniency: a filter_level that is not valid for the
// requested type is silently dropped, not rejected.
// Hard rule: an explicit identifier list forces cutoffs off.
func Resolve(p Params) (*Plan, error) {
	if !catalog.ValidAccession(p.Accession) {
		return nil, ErrBadRequest(
			"invalid metagenome id format: %s", p.Accession)
	}

	typ := p.Type
	if typ == "" {
		typ = string(catalog.TypeOrganism)
	}
	if !catalog.ValidType(typ) {
		return nil, ErrBadRequest(
			"invalid type %s - valid types are: %s",
			typ, enumerate(catalog.TypeNames()))
	}
	t := catalog.Type(typ)

	srcName := p.Source
	if srcName == "" {
		srcName = defaultSource(t)
	}
	src, ok := catalog.LookupSource(srcName)
	if !ok {
		return nil, ErrNotFound(
			"invalid source %s - valid sources are: %s",
			srcName, enumerate(catalog.SourceNames()))
	}
	if !catalog.Compatible(t, src) {
		return nil, ErrBadRequest(
			"source %s (%s) is not valid for type %s",
			src.Name, src.Category, t)
	}

	format, err := resolveFormat(p.Schema, p.Format)
	if err != nil {
		return nil, err
	}

	cutoffs, err := resolveCutoffs(p)
	if err != nil {
		return nil, err
	}

	level := p.FilterLevel
	if level != "" && !catalog.ValidLevel(t, level) {
		// Leniency: unsupported levels are dropped, not rejected.
		level = ""
	}

	version := 0
	if p.Version != "" {
		version, err = strconv.Atoi(p.Version)
		if err != nil || version < 1 {
			return nil, ErrBadRequest("invalid version: %s", p.Version)
		}
	}

	md5s := normalizeMd5s(p.Md5s)
	if len(md5s) > 0 {
		// Explicit identifier lists bypass all numeric cutoffs.
		cutoffs = Cutoffs{}
	}

	return &Plan{
		Accession:   p.Accession,
		Schema:      p.Schema,
		Source:      src,
		Type:        t,
		Format:      format,
		Cutoffs:     cutoffs,
		Filter:      strings.TrimSpace(p.Filter),
		FilterLevel: level,
		Version:     version,
		Md5s:        md5s,
		Compress:    p.Compress,
	}, nil
}

// WantFilterSet reports whether the plan needs a precomputed hierarchy
// filter set: both a free-text filter and a surviving filter_level.
func (p *Plan) WantFilterSet() bool {
	return p.Filter != "" && p.FilterLevel != ""
}

// Trailer reports whether the stream ends with a row-count trailer.
// Fasta streams are machine readable and carry none.
func (p *Plan) Trailer() bool {
	return p.Format != FormatFasta
}

func resolveFormat(schema SchemaKind, raw string) (Format, error) {
	switch schema {
	case SchemaSequence:
		switch raw {
		case "", "tab":
			return FormatTab, nil
		case "fasta":
			return FormatFasta, nil
		}
		return "", ErrBadRequest(
			"invalid format %s - valid formats are: tab, fasta", raw)
	case SchemaSimilarity:
		if raw == "" || raw == "tab" {
			return FormatTab, nil
		}
		return "", ErrBadRequest(
			"invalid format %s - similarity supports only: tab", raw)
	}
	return "", ErrBadRequest("invalid target: %s", schema)
}

func resolveCutoffs(p Params) (Cutoffs, error) {
	c := DefaultCutoffs()
	if p.Evalue != "" {
		v, err := strconv.ParseFloat(p.Evalue, 64)
		if err != nil {
			return c, ErrBadRequest("invalid evalue: %s", p.Evalue)
		}
		c.Evalue = &v
	}
	if p.Identity != "" {
		v, err := strconv.ParseFloat(p.Identity, 64)
		if err != nil {
			return c, ErrBadRequest("invalid identity: %s", p.Identity)
		}
		c.Identity = &v
	}
	if p.Length != "" {
		v, err := strconv.ParseFloat(p.Length, 64)
		if err != nil {
			return c, ErrBadRequest("invalid length: %s", p.Length)
		}
		c.Length = &v
	}
	return c, nil
}

// normalizeMd5s trims, lowercases and deduplicates the explicit
// identifier list while preserving order.
func normalizeMd5s(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(raw))
	res := make([]string, 0, len(raw))
	for _, m := range raw {
		m = strings.ToLower(strings.TrimSpace(m))
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		res = append(res, m)
	}
	return res
}

// defaultSource picks the conventional source when a request omits one.
func defaultSource(t catalog.Type) string {
	if t == catalog.TypeOntology {
		return "Subsystems"
	}
	return "RefSeq"
}
