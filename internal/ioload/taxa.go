package ioload

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnfmt"
	"github.com/jackc/pgx/v5"
)

// taxaColumns is the expected dump layout: eight rank columns and the
// organism leaf.
var taxaColumns = []string{
	"domain", "phylum", "class", "order_",
	"family", "genus", "species", "strain", "organism",
}

// Taxa imports a tab-delimited taxonomy dump. Organism names run
// through gnparser so the stored leaf is the canonical form the
// annotation arrays carry; rows whose organism column is empty are
// skipped.
func (l *loader) Taxa(ctx context.Context, path string) error {
	pool := l.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	start := time.Now()
	slog.Info("Loading taxonomy", "path", path)

	total, err := countLines(path)
	if err != nil {
		return err
	}
	bar := newProgressBar(total, "taxa")
	defer bar.Finish()

	batch := make([][]interface{}, 0, l.cfg.Database.BatchSize)
	inserted := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		_, err := pool.CopyFrom(
			ctx,
			pgx.Identifier{"taxa"},
			taxaColumns,
			pgx.CopyFromRows(batch),
		)
		if err != nil {
			return CopyError("taxa", err)
		}
		inserted += len(batch)
		batch = batch[:0]
		return nil
	}

	err = eachLine(path, func(fields []string) error {
		bar.Increment()
		if len(fields) < 9 {
			return nil
		}
		organism := l.parsers.Canonical(fields[8])
		if organism == "" {
			return nil
		}
		row := make([]interface{}, 0, len(taxaColumns))
		for _, f := range fields[:8] {
			row = append(row, f)
		}
		row = append(row, organism)
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

	slog.Info("Taxonomy loaded",
		"inserted", humanize.Comma(int64(inserted)),
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return nil
}
