package annotate

import (
	"context"
	"io"

	"github.com/mganno/mganno/pkg/catalog"
	"github.com/mganno/mganno/pkg/schema"
)

// Cursor is a streaming, ordered sequence of candidate rows. It must
// support sequential consumption over an unbounded row count without
// materializing the result set; Close releases the underlying resources
// and is safe on every exit path.
type Cursor interface {
	// Next advances to the following row, reporting false at
	// exhaustion or error.
	Next() bool
	// Row returns the current candidate row.
	Row() CandidateRow
	// Err returns the first error encountered while iterating.
	Err() error
	// Close releases the cursor.
	Close()
}

// CandidateSource opens the ordered candidate-row query for one job
// under the plan's cutoffs. Failing to open the query fails the whole
// request before any output is emitted.
type CandidateSource interface {
	Open(ctx context.Context, job *schema.Job, plan *Plan) (Cursor, error)
}

// AnnotationStore provides bulk identifier resolution and hierarchy
// filter-set construction against the reference annotation tables.
type AnnotationStore interface {
	// Bulk returns the annotation record of every requested identifier
	// present in the store for the source. Absent identifiers are
	// silently dropped; coverage is not guaranteed to be total.
	Bulk(ctx context.Context, source string, md5s []string) (map[string]Record, error)

	// FilterSet returns the accepted leaf names whose hierarchy level
	// matches the free-text filter.
	FilterSet(ctx context.Context, t catalog.Type, source, level, filter string) (FilterSet, error)
}

// Blob is a read-only handle to one raw-record blob.
type Blob interface {
	// ReadRange streams exactly [off, off+length) of the blob.
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)
	// Size returns the blob size in bytes.
	Size() int64
	// Close releases the handle.
	Close() error
}

// BlobStore opens raw-record blobs by their content-addressed handle.
type BlobStore interface {
	Open(ctx context.Context, handle string) (Blob, error)
}

// JobStore resolves metagenome jobs by public accession.
type JobStore interface {
	// ByAccession returns the job, or a RequestError with status 404
	// when no job carries the accession.
	ByAccession(ctx context.Context, accession string) (*schema.Job, error)
}
