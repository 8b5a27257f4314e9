package iostore

import (
	"strings"
	"testing"

	"github.com/mganno/mganno/pkg/annotate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateQueryDefaults(t *testing.T) {
	query, args := candidateQuery(3, 4447943, annotate.DefaultCutoffs(), nil)

	assert.Contains(t, query, "a.version = $1")
	assert.Contains(t, query, "a.job_id = $2")
	assert.Contains(t, query, "a.seek IS NOT NULL")
	assert.Contains(t, query, "a.exp_avg >= $3")
	assert.Contains(t, query, "a.ident_avg >= $4")
	assert.Contains(t, query, "a.len_avg >= $5")
	assert.NotContains(t, query, "md5_id = ANY")
	assert.True(t, strings.HasSuffix(
		strings.TrimSpace(query), "ORDER BY a.seek ASC"))

	require.Len(t, args, 5)
	assert.Equal(t, 3, args[0])
	assert.Equal(t, int64(4447943), args[1])
	assert.Equal(t, float64(annotate.DefaultEvalue), args[2])
	assert.Equal(t, float64(annotate.DefaultIdentity), args[3])
	assert.Equal(t, float64(annotate.DefaultLength), args[4])
}

func TestCandidateQueryNoCutoffs(t *testing.T) {
	// An explicit identifier list runs without numeric cutoffs.
	query, args := candidateQuery(1, 7, annotate.Cutoffs{}, []int64{10, 11})

	assert.NotContains(t, query, "exp_avg")
	assert.NotContains(t, query, "ident_avg")
	assert.NotContains(t, query, "len_avg")
	assert.Contains(t, query, "a.md5_id = ANY($3)")

	require.Len(t, args, 3)
	assert.Equal(t, []int64{10, 11}, args[2])
}

func TestCandidateQueryPartialCutoffs(t *testing.T) {
	id := 80.0
	query, args := candidateQuery(1, 7, annotate.Cutoffs{Identity: &id}, nil)

	assert.NotContains(t, query, "exp_avg")
	assert.Contains(t, query, "a.ident_avg >= $3")
	assert.NotContains(t, query, "len_avg")
	require.Len(t, args, 3)
	assert.Equal(t, 80.0, args[2])
}

func TestEmptyCursor(t *testing.T) {
	var c emptyCursor
	assert.False(t, c.Next())
	assert.NoError(t, c.Err())
	assert.Equal(t, annotate.CandidateRow{}, c.Row())
	c.Close()
}
