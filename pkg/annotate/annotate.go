// Package annotate holds the pure core of the annotation resolution
// pipeline: the request plan, candidate rows and batches, annotation
// records and tuples, per-type tuple construction, filtering and output
// formatting.
//
// Impure collaborators (the alignment-row cursor, the bulk annotation
// store, the hierarchy store and the blob store) are specified here as
// interfaces and implemented under internal/.
package annotate

// SchemaKind selects which raw records a request targets.
type SchemaKind string

const (
	// SchemaSequence streams raw sequence records (13 tab columns).
	SchemaSequence SchemaKind = "sequence"
	// SchemaSimilarity streams raw similarity records (BLAST m8 lines).
	SchemaSimilarity SchemaKind = "similarity"
)

// Format selects the output rendering.
type Format string

const (
	FormatTab   Format = "tab"
	FormatFasta Format = "fasta"
)

// Cutoff defaults: negative-log e-value exponent, percent identity and
// alignment length. All three are optional and independently settable.
const (
	DefaultEvalue   = 5
	DefaultIdentity = 60
	DefaultLength   = 15
)

// Cutoffs carries the numeric quality thresholds applied to candidate
// alignment rows. A nil field means "no constraint on this measure".
type Cutoffs struct {
	// Evalue is the maximum e-value expressed as a minimum
	// negative-log exponent: Evalue=10 keeps rows with e <= 1e-10.
	Evalue *float64
	// Identity is the minimum percent identity.
	Identity *float64
	// Length is the minimum alignment length.
	Length *float64
}

// None reports whether no cutoff is active.
func (c Cutoffs) None() bool {
	return c.Evalue == nil && c.Identity == nil && c.Length == nil
}

// DefaultCutoffs returns the standard thresholds applied when a request
// does not set its own.
func DefaultCutoffs() Cutoffs {
	e, i, l := float64(DefaultEvalue), float64(DefaultIdentity), float64(DefaultLength)
	return Cutoffs{Evalue: &e, Identity: &i, Length: &l}
}

// CandidateRow is one surviving alignment under the cutoffs:
// a hit identifier plus the byte-range coordinates of its raw record.
// Rows are ordered by offset so the blob is read monotonically.
type CandidateRow struct {
	Md5    string
	Offset int64
	Length int64
}

// Coordinate is one byte range inside a job's raw-record blob.
type Coordinate struct {
	Offset int64
	Length int64
}

// Record is the annotation metadata for one hit identifier: three
// index-aligned arrays where position i describes one coherent
// (accession, function, organism) tuple. The arrays may be unequally
// populated; ontology sources carry no organisms.
type Record struct {
	Md5        string
	Accessions []string
	Functions  []string
	Organisms  []string
}

// Tuple is one (accession, function, organism) annotation tuple after
// per-type reduction. Fields irrelevant to the requested type are empty.
type Tuple struct {
	Accession string
	Function  string
	Organism  string
}

// FilterSet is a set of accepted taxon or ontology-node names at a
// hierarchy level, precomputed once per request.
type FilterSet map[string]struct{}

// Contains reports membership of name in the set.
func (f FilterSet) Contains(name string) bool {
	_, ok := f[name]
	return ok
}

// StreamState tracks the pipeline's terminal behavior. Once streaming
// has begun, failures can no longer produce a structured error response.
type StreamState int

const (
	// StateValidating covers everything before the first output byte.
	StateValidating StreamState = iota
	// StateStreaming covers the emission loop.
	StateStreaming
	// StateCompleted means the cursor was exhausted and the trailer
	// (when applicable) was written.
	StateCompleted
	// StateAborted means a mid-stream failure terminated the response;
	// the trailer is absent, which is the caller's incompleteness signal.
	StateAborted
)
