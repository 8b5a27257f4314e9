package main

import (
	"context"
	"fmt"

	"github.com/mganno/mganno/internal/iodb"
	"github.com/mganno/mganno/internal/ioload"
	"github.com/mganno/mganno/pkg/db"
	"github.com/mganno/mganno/pkg/lifecycle"
	"github.com/spf13/cobra"
)

func getLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Import reference catalogs and per-job alignment indexes",
		Long: `Import bulk data dumps into the annotation database.

Subcommands cover the four dump kinds:
  taxa         flattened taxonomic lineages (one per organism)
  ontology     functional hierarchy for one ontology source
  annotations  md5-keyed annotation records for one source
  alignments   one job's similarity index rows

All imports stream their input and write with PostgreSQL COPY in
batches of database.batch_size rows.`,
	}

	cmd.AddCommand(getLoadTaxaCmd())
	cmd.AddCommand(getLoadOntologyCmd())
	cmd.AddCommand(getLoadAnnotationsCmd())
	cmd.AddCommand(getLoadAlignmentsCmd())

	return cmd
}

// withLoader connects to the database and runs fn with a ready Loader.
func withLoader(fn func(ctx context.Context, l lifecycle.Loader) error) error {
	ctx := context.Background()
	cfg := getConfig()

	var op db.Operator = iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer op.Close()

	return fn(ctx, ioload.New(cfg, op))
}

func getLoadTaxaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "taxa <dump-file>",
		Short: "Import the taxonomy dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLoader(func(ctx context.Context, l lifecycle.Loader) error {
				return l.Taxa(ctx, args[0])
			})
		},
	}
}

func getLoadOntologyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ontology <source> <dump-file>",
		Short: "Import a functional hierarchy dump",
		Long: `Import a functional hierarchy dump for one ontology source.

Valid sources: COG, KO, NOG, Subsystems`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLoader(func(ctx context.Context, l lifecycle.Loader) error {
				return l.Ontology(ctx, args[0], args[1])
			})
		},
	}
}

func getLoadAnnotationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "annotations <source> <dump-file>",
		Short: "Import annotation records for one source",
		Long: `Import md5-keyed annotation records for one source.

Both tab-delimited dumps and SQLite dump files (.sqlite, .db) are
accepted; the format is detected from the file name.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLoader(func(ctx context.Context, l lifecycle.Loader) error {
				return l.Annotations(ctx, args[0], args[1])
			})
		},
	}
}

func getLoadAlignmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alignments <accession> <index-file>",
		Short: "Import one job's similarity index",
		Long: `Import one job's similarity index rows.

The accession identifies the metagenome (for example mgm4447943.3);
the job row and its blob handles are created on first import.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLoader(func(ctx context.Context, l lifecycle.Loader) error {
				return l.Alignments(ctx, args[0], args[1])
			})
		},
	}
}
