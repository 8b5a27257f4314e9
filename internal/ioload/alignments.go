package ioload

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnuuid"
	"github.com/jackc/pgx/v5"
	"github.com/mganno/mganno/pkg/catalog"
)

var alignmentColumns = []string{
	"version", "job_id", "md5_id",
	"exp_avg", "ident_avg", "len_avg", "seek", "length",
}

// Alignments imports one job's similarity index rows: md5, exp_avg,
// ident_avg, len_avg, seek, length per line. The job row is created on
// first import (id and version taken from the accession, UUID derived
// with gnuuid) together with the conventional blob handle names; hit
// identifiers are interned into the md5s table before the bulk copy.
func (l *loader) Alignments(
	ctx context.Context,
	accession, path string,
) error {
	pool := l.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	jobID, version, ok := catalog.ParseAccession(accession)
	if !ok {
		return BadAccessionError(accession)
	}

	start := time.Now()
	slog.Info("Loading alignment index",
		"accession", accession, "path", path)

	if err := l.ensureJob(ctx, accession, jobID, version); err != nil {
		return err
	}

	total, err := countLines(path)
	if err != nil {
		return err
	}
	bar := newProgressBar(total, accession)
	defer bar.Finish()

	type alignRow struct {
		md5      string
		expAvg   float64
		identAvg float64
		lenAvg   float64
		seek     int64
		length   int64
	}

	batch := make([]alignRow, 0, l.cfg.Database.BatchSize)
	inserted := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		md5s := make([]string, len(batch))
		for i, r := range batch {
			md5s[i] = r.md5
		}
		ids, err := l.internMd5s(ctx, md5s)
		if err != nil {
			return err
		}

		records := make([][]interface{}, 0, len(batch))
		for _, r := range batch {
			id, ok := ids[r.md5]
			if !ok {
				continue
			}
			records = append(records, []interface{}{
				version, jobID, id,
				r.expAvg, r.identAvg, r.lenAvg, r.seek, r.length,
			})
		}
		_, err = pool.CopyFrom(
			ctx,
			pgx.Identifier{"job_alignments"},
			alignmentColumns,
			pgx.CopyFromRows(records),
		)
		if err != nil {
			return CopyError("job_alignments", err)
		}
		inserted += len(records)
		batch = batch[:0]
		return nil
	}

	lineNo := 0
	err = eachLine(path, func(fields []string) error {
		bar.Increment()
		lineNo++
		if len(fields) < 6 {
			return nil
		}
		var row alignRow
		var err error
		row.md5 = fields[0]
		if row.expAvg, err = strconv.ParseFloat(fields[1], 64); err != nil {
			return ParseError(path, lineNo, err)
		}
		if row.identAvg, err = strconv.ParseFloat(fields[2], 64); err != nil {
			return ParseError(path, lineNo, err)
		}
		if row.lenAvg, err = strconv.ParseFloat(fields[3], 64); err != nil {
			return ParseError(path, lineNo, err)
		}
		if row.seek, err = strconv.ParseInt(fields[4], 10, 64); err != nil {
			return ParseError(path, lineNo, err)
		}
		if row.length, err = strconv.ParseInt(fields[5], 10, 64); err != nil {
			return ParseError(path, lineNo, err)
		}
		batch = append(batch, row)
		if len(batch) >= l.cfg.Database.BatchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := flush(); err != nil {
		return err
	}

	slog.Info("Alignment index loaded",
		"accession", accession,
		"inserted", humanize.Comma(int64(inserted)),
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return nil
}

// ensureJob creates the job row on first import. The blob handles
// follow the fixed naming convention <accession>.seq / <accession>.sim;
// the blobs themselves are placed in the store by the analysis
// pipeline.
func (l *loader) ensureJob(
	ctx context.Context,
	accession string,
	jobID int64,
	version int,
) error {
	const query = `
		INSERT INTO jobs
		  (id, accession, uuid, version, public, owner,
		   sequence_blob, similarity_blob, updated_at)
		VALUES ($1, $2, $3, $4, false, '', $5, $6, now())
		ON CONFLICT (id) DO UPDATE
		SET version = EXCLUDED.version, updated_at = now()
	`
	_, err := l.operator.Pool().Exec(ctx, query,
		jobID,
		accession,
		gnuuid.New(accession).String(),
		version,
		accession+".seq",
		accession+".sim",
	)
	if err != nil {
		return CopyError("jobs", err)
	}
	return nil
}

// internMd5s maps hit identifiers to surrogate keys, inserting unseen
// identifiers first.
func (l *loader) internMd5s(
	ctx context.Context,
	md5s []string,
) (map[string]int64, error) {
	pool := l.operator.Pool()

	_, err := pool.Exec(ctx, `
		INSERT INTO md5s (md5)
		SELECT DISTINCT unnest($1::text[])
		ON CONFLICT (md5) DO NOTHING
	`, md5s)
	if err != nil {
		return nil, CopyError("md5s", err)
	}

	rows, err := pool.Query(ctx,
		`SELECT id, md5 FROM md5s WHERE md5 = ANY($1)`, md5s)
	if err != nil {
		return nil, CopyError("md5s", err)
	}
	defer rows.Close()

	res := make(map[string]int64, len(md5s))
	for rows.Next() {
		var id int64
		var md5 string
		if err := rows.Scan(&id, &md5); err != nil {
			return nil, CopyError("md5s", err)
		}
		res[md5] = id
	}
	return res, rows.Err()
}
