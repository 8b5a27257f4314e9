package ioload

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnfmt"
	"github.com/jackc/pgx/v5"
	"github.com/mganno/mganno/pkg/annotate"
	"github.com/mganno/mganno/pkg/catalog"
)

var ontologyColumns = []string{
	"source", "level1", "level2", "level3", "function", "accession",
}

// Ontology imports a tab-delimited functional-hierarchy dump for one
// ontology source: level1..level3, function, accession per line.
func (l *loader) Ontology(ctx context.Context, source, path string) error {
	pool := l.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	src, ok := catalog.LookupSource(source)
	if !ok || src.Category != catalog.CategoryOntology {
		return annotate.ErrBadRequest(
			"not an ontology source: %s", source)
	}

	start := time.Now()
	slog.Info("Loading ontology hierarchy", "source", source, "path", path)

	total, err := countLines(path)
	if err != nil {
		return err
	}
	bar := newProgressBar(total, source)
	defer bar.Finish()

	batch := make([][]interface{}, 0, l.cfg.Database.BatchSize)
	inserted := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		_, err := pool.CopyFrom(
			ctx,
			pgx.Identifier{"ontology_nodes"},
			ontologyColumns,
			pgx.CopyFromRows(batch),
		)
		if err != nil {
			return CopyError("ontology_nodes", err)
		}
		inserted += len(batch)
		batch = batch[:0]
		return nil
	}

	err = eachLine(path, func(fields []string) error {
		bar.Increment()
		if len(fields) < 5 {
			return nil
		}
		if fields[4] == "" {
			return nil
		}
		row := []interface{}{
			src.Name, fields[0], fields[1], fields[2], fields[3], fields[4],
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

	slog.Info("Ontology hierarchy loaded",
		"source", source,
		"inserted", humanize.Comma(int64(inserted)),
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return nil
}
