package annotate_test

import (
	"testing"

	"github.com/mganno/mganno/pkg/annotate"
	"github.com/mganno/mganno/pkg/catalog"
	"github.com/stretchr/testify/assert"
)

func TestBuildTuples(t *testing.T) {
	rec := annotate.Record{
		Md5:        "aa",
		Accessions: []string{"YP_001", "YP_002"},
		Functions:  []string{"DNA polymerase"},
		Organisms:  []string{"Escherichia coli", "Escherichia coli K-12", "Shigella flexneri"},
	}

	tests := []struct {
		name string
		typ  catalog.Type
		res  []annotate.Tuple
	}{
		{
			name: "feature takes accessions",
			typ:  catalog.TypeFeature,
			res: []annotate.Tuple{
				{Accession: "YP_001"},
				{Accession: "YP_002"},
			},
		},
		{
			name: "function takes functions",
			typ:  catalog.TypeFunction,
			res: []annotate.Tuple{
				{Function: "DNA polymerase"},
			},
		},
		{
			name: "organism takes organisms",
			typ:  catalog.TypeOrganism,
			res: []annotate.Tuple{
				{Organism: "Escherichia coli"},
				{Organism: "Escherichia coli K-12"},
				{Organism: "Shigella flexneri"},
			},
		},
		{
			name: "ontology pairs accession with function",
			typ:  catalog.TypeOntology,
			res: []annotate.Tuple{
				{Accession: "YP_001", Function: "DNA polymerase"},
				{Accession: "YP_002"},
			},
		},
		{
			name: "all pads to the longest array",
			typ:  catalog.TypeAll,
			res: []annotate.Tuple{
				{Accession: "YP_001", Function: "DNA polymerase", Organism: "Escherichia coli"},
				{Accession: "YP_002", Organism: "Escherichia coli K-12"},
				{Organism: "Shigella flexneri"},
			},
		},
	}

	for _, v := range tests {
		t.Run(v.name, func(t *testing.T) {
			assert.Equal(t, v.res, annotate.BuildTuples(v.typ, rec))
		})
	}
}

func TestBuildTuplesEmptyRecord(t *testing.T) {
	for _, typ := range []catalog.Type{
		catalog.TypeFeature, catalog.TypeFunction, catalog.TypeOrganism,
		catalog.TypeOntology, catalog.TypeAll,
	} {
		assert.Empty(t, annotate.BuildTuples(typ, annotate.Record{Md5: "aa"}), typ)
	}
}

func TestFilterSubstring(t *testing.T) {
	tuples := []annotate.Tuple{
		{Organism: "Escherichia coli"},
		{Organism: "Escherichia coli K-12"},
		{Organism: "Shigella flexneri"},
	}

	res := annotate.Filter(catalog.TypeOrganism, tuples, "escherichia", nil)
	assert.Len(t, res, 2, "substring match is case-insensitive")

	res = annotate.Filter(catalog.TypeOrganism, tuples, "", nil)
	assert.Len(t, res, 3, "no filter passes everything")

	res = annotate.Filter(catalog.TypeOrganism, tuples, "Bacillus", nil)
	assert.Empty(t, res)
}

func TestFilterSetTakesPrecedence(t *testing.T) {
	tuples := []annotate.Tuple{
		{Organism: "Escherichia coli"},
		{Organism: "Escherichia coli K-12"},
		{Organism: "Shigella flexneri"},
	}
	fset := annotate.FilterSet{"Escherichia coli": {}}

	// With a hierarchy set the match is exact membership: the K-12
	// strain would pass a substring filter but is not in the set.
	res := annotate.Filter(catalog.TypeOrganism, tuples, "Escherichia coli", fset)
	assert.Equal(t, []annotate.Tuple{{Organism: "Escherichia coli"}}, res)
}

func TestFilterAllTypeNeverFiltered(t *testing.T) {
	tuples := []annotate.Tuple{
		{Accession: "YP_001", Organism: "Escherichia coli"},
	}

	res := annotate.Filter(catalog.TypeAll, tuples, "no such thing",
		annotate.FilterSet{"nothing": {}})
	assert.Equal(t, tuples, res)
}

func TestFilterFieldByType(t *testing.T) {
	tuples := []annotate.Tuple{
		{Accession: "COG0001", Function: "glutamate racemase"},
	}

	// Ontology and feature filter on accession, function on function.
	assert.Len(t, annotate.Filter(catalog.TypeOntology, tuples, "cog", nil), 1)
	assert.Len(t, annotate.Filter(catalog.TypeFeature, tuples, "cog", nil), 1)
	assert.Len(t, annotate.Filter(catalog.TypeFunction, tuples, "racemase", nil), 1)
	assert.Empty(t, annotate.Filter(catalog.TypeFunction, tuples, "cog", nil))
}
