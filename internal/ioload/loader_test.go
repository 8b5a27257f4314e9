package ioload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		res   []string
	}{
		{"plain list", "a;b;c", []string{"a", "b", "c"}},
		{"spaces trimmed", " a ; b ;c", []string{"a", "b", "c"}},
		{"empty entries dropped", "a;;b;", []string{"a", "b"}},
		{"single entry", "hydrolase", []string{"hydrolase"}},
		{"empty input", "", nil},
	}

	for _, v := range tests {
		t.Run(v.name, func(t *testing.T) {
			assert.Equal(t, v.res, splitList(v.input))
		})
	}
}

func writeDump(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.tsv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCountLines(t *testing.T) {
	path := writeDump(t, "# header comment\none\ttwo\n\nthree\tfour\n")

	n, err := countLines(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "comments and blank lines do not count")
}

func TestCountLinesMissingFile(t *testing.T) {
	_, err := countLines("/no/such/file")
	assert.Error(t, err)
}

func TestEachLine(t *testing.T) {
	path := writeDump(t, "# comment\naa\t1\t2\n\nbb\t3\t4\n")

	var got [][]string
	err := eachLine(path, func(fields []string) error {
		got = append(got, fields)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, []string{"aa", "1", "2"}, got[0])
	assert.Equal(t, []string{"bb", "3", "4"}, got[1])
}

func TestEachLineStopsOnError(t *testing.T) {
	path := writeDump(t, "one\ntwo\nthree\n")

	calls := 0
	err := eachLine(path, func(fields []string) error {
		calls++
		if fields[0] == "two" {
			return assert.AnError
		}
		return nil
	})
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 2, calls)
}
