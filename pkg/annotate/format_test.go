package annotate_test

import (
	"strings"
	"testing"

	"github.com/mganno/mganno/pkg/annotate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqPlan(t *testing.T, format string) *annotate.Plan {
	t.Helper()
	plan, err := annotate.Resolve(annotate.Params{
		Accession: "mgm4447943.3",
		Schema:    annotate.SchemaSequence,
		Format:    format,
	})
	require.NoError(t, err)
	return plan
}

func simPlan(t *testing.T) *annotate.Plan {
	t.Helper()
	plan, err := annotate.Resolve(annotate.Params{
		Accession: "mgm4447943.3",
		Schema:    annotate.SchemaSimilarity,
	})
	require.NoError(t, err)
	return plan
}

func TestHeader(t *testing.T) {
	h := annotate.Header(seqPlan(t, "tab"))
	assert.Equal(t,
		"sequence id\tread id\tsequence\t"+
			"semicolon separated list of annotations", h)

	assert.Empty(t, annotate.Header(seqPlan(t, "fasta")),
		"fasta carries no header")

	h = annotate.Header(simPlan(t))
	cols := strings.Split(h, "\t")
	assert.Len(t, cols, 12)
	assert.Equal(t, "query|hit", cols[0])
	assert.Equal(t, "e-value", cols[9])
}

func TestRecordID(t *testing.T) {
	id := annotate.RecordID("mgm4447943.3", "read_77", "RefSeq")
	assert.Equal(t, "mgm4447943.3|read_77|RefSeq", id)
}

func TestAnnotationString(t *testing.T) {
	tests := []struct {
		name   string
		tuples []annotate.Tuple
		res    string
	}{
		{
			name: "full tuple",
			tuples: []annotate.Tuple{
				{Accession: "YP_001", Function: "polymerase", Organism: "E. coli"},
			},
			res: "accession=[YP_001];function=[polymerase];organism=[E. coli]",
		},
		{
			name: "tuples join with double pipe",
			tuples: []annotate.Tuple{
				{Organism: "E. coli"},
				{Organism: "S. flexneri"},
			},
			res: "organism=[E. coli]||organism=[S. flexneri]",
		},
		{
			name: "empty components are skipped",
			tuples: []annotate.Tuple{
				{Function: "polymerase"},
			},
			res: "function=[polymerase]",
		},
		{
			name:   "no tuples",
			tuples: nil,
			res:    "",
		},
		{
			name: "fully empty tuple is dropped",
			tuples: []annotate.Tuple{
				{},
				{Organism: "E. coli"},
			},
			res: "organism=[E. coli]",
		},
	}

	for _, v := range tests {
		t.Run(v.name, func(t *testing.T) {
			assert.Equal(t, v.res, annotate.AnnotationString(v.tuples))
		})
	}
}

func seqRecord(id, seqID, seq string) []string {
	fields := make([]string, 13)
	fields[0] = id
	fields[1] = seqID
	fields[12] = seq
	return fields
}

func TestFormatRowSequenceTab(t *testing.T) {
	plan := seqPlan(t, "tab")
	fields := seqRecord("read_77", "seq_1", "ACGT")

	row := annotate.FormatRow(plan, fields, "organism=[E. coli]")
	assert.Equal(t,
		"mgm4447943.3|read_77|RefSeq\tseq_1\tACGT\torganism=[E. coli]",
		row)
}

func TestFormatRowSequenceFasta(t *testing.T) {
	plan := seqPlan(t, "fasta")
	fields := seqRecord("read_77", "seq_1", "ACGT")

	row := annotate.FormatRow(plan, fields, "organism=[E. coli]")
	assert.Equal(t,
		">mgm4447943.3|read_77|RefSeq|organism=[E. coli]\nACGT",
		row)
}

func TestFormatRowSimilarity(t *testing.T) {
	plan := simPlan(t)
	fields := []string{
		"read_77", "99.2", "48", "0", "0",
		"1", "48", "12", "60", "1e-20", "95.3",
	}

	row := annotate.FormatRow(plan, fields, "organism=[E. coli]")
	cols := strings.Split(row, "\t")
	require.Len(t, cols, 12)
	assert.Equal(t, "mgm4447943.3|read_77|RefSeq", cols[0])
	assert.Equal(t, "99.2", cols[1])
	assert.Equal(t, "95.3", cols[10])
	assert.Equal(t, "organism=[E. coli]", cols[11])
}

func TestFormatRowMalformedSequenceRecord(t *testing.T) {
	plan := seqPlan(t, "tab")

	// Short records emit what is there instead of panicking.
	row := annotate.FormatRow(plan, []string{"read_77", "ACGT"}, "x")
	assert.Equal(t, "mgm4447943.3|read_77|RefSeq\tACGT\tACGT\tx", row)
}

func TestTrailer(t *testing.T) {
	assert.Equal(t,
		"Download complete. 42 rows retrieved", annotate.Trailer(42))
	assert.Equal(t,
		"Download complete. 0 rows retrieved", annotate.Trailer(0))
}
