package ioload

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnfmt"
	"github.com/jackc/pgx/v5"
	"github.com/mganno/mganno/pkg/annotate"
	"github.com/mganno/mganno/pkg/catalog"

	// SQLite driver for annotation dumps shipped as database files.
	_ "modernc.org/sqlite"
)

var annotationColumns = []string{
	"md5", "source", "accessions", "functions", "organisms",
}

// Annotations imports bulk annotation records for one source. Dumps
// come either as tab-delimited files (md5, accessions, functions,
// organisms - the array columns ";"-joined) or as SQLite files with an
// equivalent "annotations" table. The format is detected from the file
// extension.
func (l *loader) Annotations(ctx context.Context, source, path string) error {
	pool := l.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	src, ok := catalog.LookupSource(source)
	if !ok {
		return annotate.ErrNotFound("unknown source: %s", source)
	}

	start := time.Now()
	slog.Info("Loading annotations", "source", source, "path", path)

	batch := make([][]interface{}, 0, l.cfg.Database.BatchSize)
	inserted := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		_, err := pool.CopyFrom(
			ctx,
			pgx.Identifier{"annotations"},
			annotationColumns,
			pgx.CopyFromRows(batch),
		)
		if err != nil {
			return CopyError("annotations", err)
		}
		inserted += len(batch)
		batch = batch[:0]
		return nil
	}

	add := func(md5, accessions, functions, organisms string) error {
		md5 = strings.ToLower(strings.TrimSpace(md5))
		if md5 == "" {
			return nil
		}
		batch = append(batch, []interface{}{
			md5,
			src.Name,
			splitList(accessions),
			splitList(functions),
			splitList(organisms),
		})
		if len(batch) >= l.cfg.Database.BatchSize {
			return flush()
		}
		return nil
	}

	var err error
	if strings.HasSuffix(path, ".sqlite") || strings.HasSuffix(path, ".db") {
		err = l.annotationsFromSQLite(ctx, path, add)
	} else {
		err = l.annotationsFromTSV(path, add)
	}
	if err != nil {
		return err
	}
	if err := flush(); err != nil {
		return err
	}

	slog.Info("Annotations loaded",
		"source", source,
		"inserted", humanize.Comma(int64(inserted)),
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return nil
}

func (l *loader) annotationsFromTSV(
	path string,
	add func(md5, accessions, functions, organisms string) error,
) error {
	total, err := countLines(path)
	if err != nil {
		return err
	}
	bar := newProgressBar(total, "annotations")
	defer bar.Finish()

	return eachLine(path, func(fields []string) error {
		bar.Increment()
		if len(fields) < 4 {
			return nil
		}
		return add(fields[0], fields[1], fields[2], fields[3])
	})
}

func (l *loader) annotationsFromSQLite(
	ctx context.Context,
	path string,
	add func(md5, accessions, functions, organisms string) error,
) error {
	sdb, err := sql.Open("sqlite", path)
	if err != nil {
		return FileError(path, err)
	}
	defer sdb.Close()

	var total int
	err = sdb.QueryRowContext(ctx,
		`SELECT count(*) FROM annotations`).Scan(&total)
	if err != nil {
		return FileError(path, err)
	}
	bar := newProgressBar(total, "annotations")
	defer bar.Finish()

	rows, err := sdb.QueryContext(ctx, `
		SELECT md5, accessions, functions, organisms
		FROM annotations
	`)
	if err != nil {
		return FileError(path, err)
	}
	defer rows.Close()

	for rows.Next() {
		var md5 string
		var accessions, functions, organisms sql.NullString
		err := rows.Scan(&md5, &accessions, &functions, &organisms)
		if err != nil {
			return FileError(path, err)
		}
		bar.Increment()
		err = add(md5, accessions.String, functions.String, organisms.String)
		if err != nil {
			return err
		}
	}
	return rows.Err()
}
