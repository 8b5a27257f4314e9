package iostore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mganno/mganno/pkg/annotate"
	"github.com/mganno/mganno/pkg/catalog"
)

// annotationStore implements annotate.AnnotationStore on the bulk
// annotations table and the taxonomy/ontology hierarchy tables.
type annotationStore struct {
	pool *pgxpool.Pool
}

// NewAnnotationStore creates an annotation store over the given pool.
func NewAnnotationStore(pool *pgxpool.Pool) annotate.AnnotationStore {
	return &annotationStore{pool: pool}
}

// Bulk fetches the annotation record of every identifier present in
// the store for the source, in one query. Identifiers without a record
// are absent from the result; that is expected, not an error.
func (s *annotationStore) Bulk(
	ctx context.Context,
	source string,
	md5s []string,
) (map[string]annotate.Record, error) {
	const query = `
		SELECT md5, accessions, functions, organisms
		FROM annotations
		WHERE source = $1 AND md5 = ANY($2)
	`

	rows, err := s.pool.Query(ctx, query, source, md5s)
	if err != nil {
		return nil, annotate.ErrInternal(
			"annotation lookup failed: %v", err)
	}
	defer rows.Close()

	res := make(map[string]annotate.Record, len(md5s))
	for rows.Next() {
		var rec annotate.Record
		err := rows.Scan(
			&rec.Md5, &rec.Accessions, &rec.Functions, &rec.Organisms)
		if err != nil {
			return nil, annotate.ErrInternal(
				"annotation lookup failed: %v", err)
		}
		res[rec.Md5] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, annotate.ErrInternal(
			"annotation lookup failed: %v", err)
	}
	return res, nil
}

// taxaLevelColumns whitelists filter_level values against taxonomy
// rank columns; the level name is interpolated into SQL and must never
// come from the request unchecked.
var taxaLevelColumns = map[string]string{
	"domain":  "domain",
	"phylum":  "phylum",
	"class":   "class",
	"order":   "order_",
	"family":  "family",
	"genus":   "genus",
	"species": "species",
	"strain":  "strain",
}

// ontologyLevelColumns whitelists filter_level values against ontology
// hierarchy columns.
var ontologyLevelColumns = map[string]string{
	"level1":   "level1",
	"level2":   "level2",
	"level3":   "level3",
	"function": "function",
}

// FilterSet precomputes the accepted leaf names whose hierarchy level
// matches the free-text filter. For organisms the leaves are organism
// names; for ontologies they are accessions of the requested source.
func (s *annotationStore) FilterSet(
	ctx context.Context,
	t catalog.Type,
	source, level, filter string,
) (annotate.FilterSet, error) {
	var query string
	var args []any

	switch t {
	case catalog.TypeOrganism:
		col, ok := taxaLevelColumns[level]
		if !ok {
			return nil, annotate.ErrBadRequest(
				"invalid filter_level: %s", level)
		}
		query = fmt.Sprintf(`
			SELECT DISTINCT organism FROM taxa
			WHERE %s ILIKE '%%' || $1 || '%%'`, col)
		args = []any{filter}
	case catalog.TypeOntology:
		col, ok := ontologyLevelColumns[level]
		if !ok {
			return nil, annotate.ErrBadRequest(
				"invalid filter_level: %s", level)
		}
		query = fmt.Sprintf(`
			SELECT DISTINCT accession FROM ontology_nodes
			WHERE source = $1 AND %s ILIKE '%%' || $2 || '%%'`, col)
		args = []any{source, filter}
	default:
		return nil, annotate.ErrBadRequest(
			"filter_level is not applicable to type %s", t)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, annotate.ErrInternal(
			"hierarchy lookup failed: %v", err)
	}
	defer rows.Close()

	set := make(annotate.FilterSet)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, annotate.ErrInternal(
				"hierarchy lookup failed: %v", err)
		}
		set[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, annotate.ErrInternal(
			"hierarchy lookup failed: %v", err)
	}
	return set, nil
}
