// Package ioload implements the Loader interface for importing
// reference and per-job data into PostgreSQL.
// This is an impure I/O package that reads dump files and performs
// bulk inserts with pgx CopyFrom.
package ioload

import (
	"bufio"
	"os"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/mganno/mganno/pkg/config"
	"github.com/mganno/mganno/pkg/db"
	"github.com/mganno/mganno/pkg/lifecycle"
	"github.com/mganno/mganno/pkg/parserpool"
)

// loader implements the lifecycle.Loader interface.
type loader struct {
	cfg      *config.Config
	operator db.Operator
	parsers  parserpool.Pool
}

// New creates a new Loader.
func New(cfg *config.Config, op db.Operator) lifecycle.Loader {
	return &loader{
		cfg:      cfg,
		operator: op,
		parsers:  parserpool.NewPool(cfg.JobsNumber),
	}
}

// newProgressBar creates a progress bar with consistent settings.
func newProgressBar(total int, prefix string) *pb.ProgressBar {
	bar := pb.Full.Start(total)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return bar
}

// countLines counts data lines for progress reporting; comment lines
// (leading '#') are skipped by every loader.
func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, FileError(path, err)
	}
	defer f.Close()

	count := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		count++
	}
	return count, sc.Err()
}

// eachLine streams a dump file's data lines, tab-split.
func eachLine(path string, fn func(fields []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return FileError(path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := fn(strings.Split(line, "\t")); err != nil {
			return err
		}
	}
	return sc.Err()
}

// splitList splits a ";"-joined dump column into its entries.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	res := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
