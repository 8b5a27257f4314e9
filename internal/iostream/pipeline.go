package iostream

import (
	"context"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mganno/mganno/pkg/annotate"
	"github.com/mganno/mganno/pkg/schema"
)

// Pipeline wires the annotation resolution stages for the daemon.
// One Pipeline serves many concurrent requests; it holds no per-request
// state.
type Pipeline struct {
	Candidates  annotate.CandidateSource
	Annotations annotate.AnnotationStore
	Blobs       annotate.BlobStore

	// ChunkSize caps distinct identifiers per batch.
	ChunkSize int
	// QueueDepth bounds how many completed batches may wait between
	// cursor consumption and emission. Zero means strictly sequential.
	QueueDepth int

	Log *slog.Logger
}

// Result reports how a stream ended.
type Result struct {
	State annotate.StreamState
	Rows  int
}

// Run executes one annotation request against the job and writes the
// streamed response to w.
//
// Everything that can fail with a structured error response happens
// before the first output byte: filter-set construction, blob open and
// cursor open. After that the stream is committed; failures abort
// mid-stream with an inline marker and no trailer.
func (p *Pipeline) Run(
	ctx context.Context,
	job *schema.Job,
	plan *annotate.Plan,
	w io.Writer,
) (Result, error) {
	em := newEmitter(w, plan)

	// Pre-stream: precompute the hierarchy filter set when both a
	// filter and a surviving filter_level are present.
	var fset annotate.FilterSet
	if plan.WantFilterSet() {
		var err error
		fset, err = p.Annotations.FilterSet(
			ctx, plan.Type, plan.Source.Name, plan.FilterLevel, plan.Filter)
		if err != nil {
			return Result{State: em.state}, err
		}
	}

	handle := job.SequenceBlob
	if plan.Schema == annotate.SchemaSimilarity {
		handle = job.SimilarityBlob
	}
	if handle == "" {
		return Result{State: em.state}, annotate.ErrNotFound(
			"no indexed %s data for %s", plan.Schema, job.Accession)
	}
	blob, err := p.Blobs.Open(ctx, handle)
	if err != nil {
		return Result{State: em.state}, annotate.ErrInternal(
			"could not open record store: %v", err)
	}
	defer blob.Close()

	cursor, err := p.Candidates.Open(ctx, job, plan)
	if err != nil {
		return Result{State: em.state}, err
	}
	defer cursor.Close()

	// The stream is now committed.
	if err := em.begin(); err != nil {
		return Result{State: em.state, Rows: em.rows}, err
	}

	err = p.stream(ctx, cursor, blob, plan, fset, em)
	if err != nil {
		// Mid-stream failure: report inline (when the sink is still
		// writable) and end with no trailer.
		em.abort(err)
		p.Log.Warn("stream aborted",
			"accession", job.Accession, "rows", em.rows, "error", err)
		return Result{State: em.state, Rows: em.rows}, err
	}

	if err := em.finish(); err != nil {
		return Result{State: em.state, Rows: em.rows}, err
	}
	return Result{State: em.state, Rows: em.rows}, nil
}

// stream consumes the cursor into batches and emits each batch.
// Batch production runs ahead of emission through a bounded channel, so
// annotation lookups for batch N can overlap blob reads of batch N-1
// while emission order still tracks the cursor's offset order.
func (p *Pipeline) stream(
	ctx context.Context,
	cursor annotate.Cursor,
	blob annotate.Blob,
	plan *annotate.Plan,
	fset annotate.FilterSet,
	em *emitter,
) error {
	g, ctx := errgroup.WithContext(ctx)
	batches := make(chan *annotate.Batch, p.QueueDepth)

	g.Go(func() error {
		defer close(batches)
		batcher := annotate.NewBatcher(p.ChunkSize)
		for cursor.Next() {
			if full := batcher.Add(cursor.Row()); full != nil {
				select {
				case batches <- full:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		if err := cursor.Err(); err != nil {
			return err
		}
		if last := batcher.Flush(); last != nil {
			select {
			case batches <- last:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	g.Go(func() error {
		for batch := range batches {
			if err := p.emitBatch(ctx, batch, blob, plan, fset, em); err != nil {
				em.abort(err)
				return err
			}
			em.flush()
		}
		return nil
	})

	return g.Wait()
}

// emitBatch resolves one batch's annotations, filters them, fetches the
// surviving raw records and writes the formatted rows.
//
// Filtering happens strictly before the blob fetch: an identifier whose
// tuple list comes out empty contributes no rows and costs no I/O.
//
// Rows come out in first-seen-identifier order, each identifier's
// coordinates in offset order. When a recurring identifier's offsets
// interleave with other identifiers', that differs from strict global
// offset order, though the output is still deterministic for a given
// alignment set.
func (p *Pipeline) emitBatch(
	ctx context.Context,
	batch *annotate.Batch,
	blob annotate.Blob,
	plan *annotate.Plan,
	fset annotate.FilterSet,
	em *emitter,
) error {
	records, err := p.Annotations.Bulk(ctx, plan.Source.Name, batch.Md5s())
	if err != nil {
		return err
	}

	for _, entry := range batch.Entries() {
		rec, ok := records[entry.Md5]
		if !ok {
			// Annotation coverage is not total; identifiers absent
			// from the store are dropped silently.
			continue
		}

		tuples := annotate.BuildTuples(plan.Type, rec)
		tuples = annotate.Filter(plan.Type, tuples, plan.Filter, fset)
		if len(tuples) == 0 {
			continue
		}
		ann := annotate.AnnotationString(tuples)
		if ann == "" {
			continue
		}

		for _, coord := range entry.Coords {
			raws, err := fetchRecords(ctx, blob, coord)
			if err != nil {
				return err
			}
			for _, fields := range raws {
				line := annotate.FormatRow(plan, fields, ann)
				if err := em.emit(line); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
