package iostream

import (
	"context"
	"io"
	"strings"

	"github.com/mganno/mganno/pkg/annotate"
)

// fetchRecords reads exactly one byte range from the blob and splits
// it into tab-separated raw records. The range may hold several
// newline-delimited records; empty lines and records without a first
// field are skipped.
//
// A transport error here is fatal to the whole response: output
// headers are already committed, so the caller aborts mid-stream.
func fetchRecords(
	ctx context.Context,
	blob annotate.Blob,
	coord annotate.Coordinate,
) ([][]string, error) {
	rc, err := blob.ReadRange(ctx, coord.Offset, coord.Length)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	var records [][]string
	for _, line := range strings.Split(string(raw), "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if fields[0] == "" {
			continue
		}
		records = append(records, fields)
	}
	return records, nil
}
