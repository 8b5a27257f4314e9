package annotate_test

import (
	"testing"

	"github.com/mganno/mganno/pkg/annotate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(md5 string, offset, length int64) annotate.CandidateRow {
	return annotate.CandidateRow{Md5: md5, Offset: offset, Length: length}
}

func TestBatcherChunking(t *testing.T) {
	b := annotate.NewBatcher(2)

	assert.Nil(t, b.Add(row("aa", 0, 10)))
	batch := b.Add(row("bb", 10, 10))
	require.NotNil(t, batch, "second distinct md5 fills the window")
	assert.Equal(t, []string{"aa", "bb"}, batch.Md5s())

	assert.Nil(t, b.Add(row("cc", 20, 10)))
	final := b.Flush()
	require.NotNil(t, final)
	assert.Equal(t, []string{"cc"}, final.Md5s())

	assert.Nil(t, b.Flush(), "flush after flush is empty")
}

func TestBatcherDuplicateMd5AccumulatesCoords(t *testing.T) {
	b := annotate.NewBatcher(10)

	// Three alignments hit the same reference sequence; each keeps its
	// own raw record coordinates.
	assert.Nil(t, b.Add(row("aa", 0, 10)))
	assert.Nil(t, b.Add(row("aa", 10, 12)))
	assert.Nil(t, b.Add(row("aa", 22, 8)))

	batch := b.Flush()
	require.NotNil(t, batch)
	require.Equal(t, 1, batch.Len())

	entry := batch.Entries()[0]
	assert.Equal(t, "aa", entry.Md5)
	assert.Equal(t, []annotate.Coordinate{
		{Offset: 0, Length: 10},
		{Offset: 10, Length: 12},
		{Offset: 22, Length: 8},
	}, entry.Coords)
}

func TestBatcherExactDuplicateCoordCollapses(t *testing.T) {
	b := annotate.NewBatcher(10)

	assert.Nil(t, b.Add(row("aa", 0, 10)))
	assert.Nil(t, b.Add(row("aa", 0, 10)))

	batch := b.Flush()
	require.NotNil(t, batch)
	assert.Len(t, batch.Entries()[0].Coords, 1)
}

func TestBatcherDuplicateDoesNotFillWindow(t *testing.T) {
	b := annotate.NewBatcher(2)

	assert.Nil(t, b.Add(row("aa", 0, 10)))
	// Same identifier again: the window still holds one distinct md5.
	assert.Nil(t, b.Add(row("aa", 10, 10)))
	assert.Nil(t, b.Add(row("aa", 20, 10)))

	batch := b.Add(row("bb", 30, 10))
	require.NotNil(t, batch)
	assert.Equal(t, 2, batch.Len())
}

func TestBatcherMinimumChunkSize(t *testing.T) {
	b := annotate.NewBatcher(0)
	batch := b.Add(row("aa", 0, 10))
	require.NotNil(t, batch, "chunk sizes below one fall back to one")
	assert.Equal(t, []string{"aa"}, batch.Md5s())
}
