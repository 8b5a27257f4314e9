// Package iostore implements the annotation pipeline's storage
// contracts (job lookup, candidate-row cursor, bulk annotation
// resolution, hierarchy filter sets) on PostgreSQL via pgx.
package iostore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mganno/mganno/pkg/annotate"
	"github.com/mganno/mganno/pkg/schema"
)

// jobStore implements annotate.JobStore.
type jobStore struct {
	pool *pgxpool.Pool
}

// NewJobStore creates a job lookup over the given pool.
func NewJobStore(pool *pgxpool.Pool) annotate.JobStore {
	return &jobStore{pool: pool}
}

// ByAccession resolves one job by its public accession.
func (s *jobStore) ByAccession(
	ctx context.Context,
	accession string,
) (*schema.Job, error) {
	const query = `
		SELECT id, accession, uuid, version, public, owner,
		       sequence_blob, similarity_blob
		FROM jobs
		WHERE accession = $1
	`

	var job schema.Job
	err := s.pool.QueryRow(ctx, query, accession).Scan(
		&job.ID,
		&job.Accession,
		&job.UUID,
		&job.Version,
		&job.Public,
		&job.Owner,
		&job.SequenceBlob,
		&job.SimilarityBlob,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, annotate.ErrNotFound(
			"metagenome not found: %s", accession)
	}
	if err != nil {
		return nil, annotate.ErrInternal(
			"metagenome lookup failed: %v", err)
	}
	return &job, nil
}
