package iostore

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mganno/mganno/pkg/annotate"
	"github.com/mganno/mganno/pkg/schema"
)

// candidateSource implements annotate.CandidateSource: it builds and
// opens the single ordered query selecting candidate alignment rows
// under a plan's cutoffs.
type candidateSource struct {
	pool *pgxpool.Pool
}

// NewCandidateSource creates a candidate-row source over the given pool.
func NewCandidateSource(pool *pgxpool.Pool) annotate.CandidateSource {
	return &candidateSource{pool: pool}
}

// Open builds the cursor query and starts streaming its rows.
//
// The query has conjunctive predicates for version, job, each active
// cutoff, non-null byte coordinates and - when an explicit identifier
// list was given - membership in the identifier set. The identifier
// set is first resolved to surrogate keys so the main query joins on
// compact integers. Rows arrive ordered by seek so the blob is read at
// monotonically increasing offsets.
func (s *candidateSource) Open(
	ctx context.Context,
	job *schema.Job,
	plan *annotate.Plan,
) (annotate.Cursor, error) {
	version := plan.Version
	if version == 0 {
		version = job.Version
	}

	var md5IDs []int64
	if len(plan.Md5s) > 0 {
		var err error
		md5IDs, err = s.resolveMd5IDs(ctx, plan.Md5s)
		if err != nil {
			return nil, err
		}
		if len(md5IDs) == 0 {
			// None of the requested identifiers exist; an empty
			// cursor keeps the response well formed.
			return &emptyCursor{}, nil
		}
	}

	query, args := candidateQuery(version, job.ID, plan.Cutoffs, md5IDs)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, annotate.ErrInternal(
			"could not open alignment query: %v", err)
	}
	return &pgxCursor{rows: rows}, nil
}

// candidateQuery renders the ordered candidate-row query. Predicates
// are conjunctive: version, job, non-null byte coordinates, each active
// cutoff and, when surrogate keys were resolved, identifier membership.
func candidateQuery(
	version int,
	jobID int64,
	c annotate.Cutoffs,
	md5IDs []int64,
) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT m.md5, a.seek, a.length
		FROM job_alignments a
		JOIN md5s m ON m.id = a.md5_id
		WHERE a.version = $1
		  AND a.job_id = $2
		  AND a.seek IS NOT NULL
		  AND a.length IS NOT NULL`)
	args := []any{version, jobID}

	if c.Evalue != nil {
		args = append(args, *c.Evalue)
		fmt.Fprintf(&sb, "\n\t\t  AND a.exp_avg >= $%d", len(args))
	}
	if c.Identity != nil {
		args = append(args, *c.Identity)
		fmt.Fprintf(&sb, "\n\t\t  AND a.ident_avg >= $%d", len(args))
	}
	if c.Length != nil {
		args = append(args, *c.Length)
		fmt.Fprintf(&sb, "\n\t\t  AND a.len_avg >= $%d", len(args))
	}
	if len(md5IDs) > 0 {
		args = append(args, md5IDs)
		fmt.Fprintf(&sb, "\n\t\t  AND a.md5_id = ANY($%d)", len(args))
	}

	sb.WriteString("\n\t\tORDER BY a.seek ASC")
	return sb.String(), args
}

// resolveMd5IDs maps explicit hit identifiers to their surrogate keys.
// Unknown identifiers are dropped.
func (s *candidateSource) resolveMd5IDs(
	ctx context.Context,
	md5s []string,
) ([]int64, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id FROM md5s WHERE md5 = ANY($1)`, md5s)
	if err != nil {
		return nil, annotate.ErrInternal(
			"could not resolve identifiers: %v", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, annotate.ErrInternal(
				"could not resolve identifiers: %v", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, annotate.ErrInternal(
			"could not resolve identifiers: %v", err)
	}
	return ids, nil
}

// pgxCursor adapts pgx.Rows to annotate.Cursor. Rows stream from the
// server; the pool connection is held until Close.
type pgxCursor struct {
	rows pgx.Rows
	cur  annotate.CandidateRow
	err  error
}

func (c *pgxCursor) Next() bool {
	if c.err != nil {
		return false
	}
	if !c.rows.Next() {
		return false
	}
	var row annotate.CandidateRow
	if err := c.rows.Scan(&row.Md5, &row.Offset, &row.Length); err != nil {
		c.err = err
		return false
	}
	c.cur = row
	return true
}

func (c *pgxCursor) Row() annotate.CandidateRow {
	return c.cur
}

func (c *pgxCursor) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.rows.Err()
}

func (c *pgxCursor) Close() {
	c.rows.Close()
}

// emptyCursor yields no rows; used when an explicit identifier list
// resolves to nothing.
type emptyCursor struct{}

func (emptyCursor) Next() bool                 { return false }
func (emptyCursor) Row() annotate.CandidateRow { return annotate.CandidateRow{} }
func (emptyCursor) Err() error                 { return nil }
func (emptyCursor) Close()                     {}
