package iostream

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/mganno/mganno/pkg/annotate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tabPlan(t *testing.T) *annotate.Plan {
	t.Helper()
	plan, err := annotate.Resolve(annotate.Params{
		Accession: "mgm4447943.3",
		Schema:    annotate.SchemaSequence,
	})
	require.NoError(t, err)
	return plan
}

func fastaPlan(t *testing.T) *annotate.Plan {
	t.Helper()
	plan, err := annotate.Resolve(annotate.Params{
		Accession: "mgm4447943.3",
		Schema:    annotate.SchemaSequence,
		Format:    "fasta",
	})
	require.NoError(t, err)
	return plan
}

func TestEmitterCompletedStream(t *testing.T) {
	var buf bytes.Buffer
	em := newEmitter(&buf, tabPlan(t))
	assert.Equal(t, annotate.StateValidating, em.state)

	require.NoError(t, em.begin())
	assert.Equal(t, annotate.StateStreaming, em.state)

	require.NoError(t, em.emit("row one"))
	require.NoError(t, em.emit("row two"))
	require.NoError(t, em.finish())
	assert.Equal(t, annotate.StateCompleted, em.state)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "sequence id")
	assert.Equal(t, "row one", lines[1])
	assert.Equal(t, "Download complete. 2 rows retrieved", lines[3])
}

func TestEmitterFastaNoHeaderNoTrailer(t *testing.T) {
	var buf bytes.Buffer
	em := newEmitter(&buf, fastaPlan(t))

	require.NoError(t, em.begin())
	require.NoError(t, em.emit(">id\nACGT"))
	require.NoError(t, em.finish())

	assert.Equal(t, ">id\nACGT\n", buf.String())
	assert.Equal(t, annotate.StateCompleted, em.state)
}

func TestEmitterAbort(t *testing.T) {
	var buf bytes.Buffer
	em := newEmitter(&buf, tabPlan(t))

	require.NoError(t, em.begin())
	require.NoError(t, em.emit("row one"))
	em.abort(errors.New("backend gone"))

	assert.Equal(t, annotate.StateAborted, em.state)
	out := buf.String()
	assert.Contains(t, out, "row one")
	assert.Contains(t, out, "ERROR: download incomplete: backend gone")
	assert.NotContains(t, out, "Download complete")
}

func TestEmitterAbortIdempotent(t *testing.T) {
	var buf bytes.Buffer
	em := newEmitter(&buf, tabPlan(t))

	require.NoError(t, em.begin())
	em.abort(errors.New("first"))
	em.abort(errors.New("second"))

	assert.Equal(t, 1, strings.Count(buf.String(), "ERROR: download incomplete"))
	assert.NotContains(t, buf.String(), "second")
}
