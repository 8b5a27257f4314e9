package annotate

import (
	"strings"

	"github.com/mganno/mganno/pkg/catalog"
)

// tupleBuilder maps one annotation record to the tuple list relevant to
// an annotation type. The dispatch table below is the closed set of
// policies; adding a type means adding exactly one function here.
type tupleBuilder func(Record) []Tuple

var tupleBuilders = map[catalog.Type]tupleBuilder{
	catalog.TypeFeature:  featureTuples,
	catalog.TypeFunction: functionTuples,
	catalog.TypeOrganism: organismTuples,
	catalog.TypeOntology: ontologyTuples,
	catalog.TypeAll:      allTuples,
}

// BuildTuples reduces a record's annotation arrays to the tuples
// relevant to the requested type.
func BuildTuples(t catalog.Type, rec Record) []Tuple {
	build, ok := tupleBuilders[t]
	if !ok {
		return nil
	}
	return build(rec)
}

// featureTuples yields one tuple per accession entry.
func featureTuples(rec Record) []Tuple {
	res := make([]Tuple, 0, len(rec.Accessions))
	for _, a := range rec.Accessions {
		res = append(res, Tuple{Accession: a})
	}
	return res
}

// functionTuples yields one tuple per function entry.
func functionTuples(rec Record) []Tuple {
	res := make([]Tuple, 0, len(rec.Functions))
	for _, f := range rec.Functions {
		res = append(res, Tuple{Function: f})
	}
	return res
}

// organismTuples yields one tuple per organism entry.
func organismTuples(rec Record) []Tuple {
	res := make([]Tuple, 0, len(rec.Organisms))
	for _, o := range rec.Organisms {
		res = append(res, Tuple{Organism: o})
	}
	return res
}

// ontologyTuples pairs accession[i] with function[i]. Organisms are
// intentionally absent for this type.
func ontologyTuples(rec Record) []Tuple {
	n := len(rec.Accessions)
	res := make([]Tuple, 0, n)
	for i := 0; i < n; i++ {
		t := Tuple{Accession: rec.Accessions[i]}
		if i < len(rec.Functions) {
			t.Function = rec.Functions[i]
		}
		res = append(res, t)
	}
	return res
}

// allTuples pairs accession[i], function[i] and organism[i] at each
// index, padding the shorter arrays with empty fields.
func allTuples(rec Record) []Tuple {
	n := max(len(rec.Accessions), len(rec.Functions), len(rec.Organisms))
	res := make([]Tuple, 0, n)
	for i := 0; i < n; i++ {
		var t Tuple
		if i < len(rec.Accessions) {
			t.Accession = rec.Accessions[i]
		}
		if i < len(rec.Functions) {
			t.Function = rec.Functions[i]
		}
		if i < len(rec.Organisms) {
			t.Organism = rec.Organisms[i]
		}
		res = append(res, t)
	}
	return res
}

// filterField returns the tuple field the request filter applies to for
// the given type. The organism type filters on organism; ontology and
// feature filter on accession; function filters on function.
func filterField(t catalog.Type, tuple Tuple) string {
	switch t {
	case catalog.TypeOrganism:
		return tuple.Organism
	case catalog.TypeFunction:
		return tuple.Function
	default:
		return tuple.Accession
	}
}

// Filter reduces tuples to those accepted by the request's filters.
//
// Preference order: when a hierarchy filter set is present, exact
// membership of the relevant field decides; otherwise a non-empty
// free-text filter matches as a case-insensitive substring; otherwise
// every tuple passes. Type "all" is never filtered.
func Filter(t catalog.Type, tuples []Tuple, filter string, fset FilterSet) []Tuple {
	if t == catalog.TypeAll {
		return tuples
	}
	if fset != nil {
		res := tuples[:0:0]
		for _, tp := range tuples {
			if fset.Contains(filterField(t, tp)) {
				res = append(res, tp)
			}
		}
		return res
	}
	if filter == "" {
		return tuples
	}
	needle := strings.ToLower(filter)
	res := tuples[:0:0]
	for _, tp := range tuples {
		if strings.Contains(strings.ToLower(filterField(t, tp)), needle) {
			res = append(res, tp)
		}
	}
	return res
}
