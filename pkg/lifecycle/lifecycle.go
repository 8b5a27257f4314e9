// Package lifecycle defines the contracts for managing the mganno
// database: schema creation/migration and bulk reference-data loading.
// Implementations live under internal/.
package lifecycle

import (
	"context"

	"github.com/mganno/mganno/pkg/config"
)

// SchemaManager defines the interface for database schema management.
// It uses GORM AutoMigrate to handle both initial schema creation and
// migrations. Schema management is idempotent - safe to run multiple
// times.
type SchemaManager interface {
	// Create creates the initial database schema using GORM AutoMigrate.
	// If tables already exist, behavior depends on user confirmation via
	// DropAllTables.
	Create(ctx context.Context, cfg *config.Config) error

	// Migrate updates the database schema to the latest version using
	// GORM AutoMigrate.
	Migrate(ctx context.Context, cfg *config.Config) error
}

// Loader defines bulk imports of reference and per-job data.
// Each method streams its input file and writes in batches of
// cfg.Database.BatchSize rows via CopyFrom.
type Loader interface {
	// Taxa imports a tab-delimited taxonomy dump: one flattened lineage
	// per line (domain..strain, organism leaf). Organism names are
	// canonicalized with gnparser before storage.
	Taxa(ctx context.Context, path string) error

	// Ontology imports a tab-delimited functional-hierarchy dump for
	// one ontology source.
	Ontology(ctx context.Context, source, path string) error

	// Annotations imports bulk annotation records for one source.
	// Both tab-delimited dumps and SQLite dump files are accepted;
	// the format is detected from the file.
	Annotations(ctx context.Context, source, path string) error

	// Alignments imports one job's similarity index rows and registers
	// the job's raw-record blobs.
	Alignments(ctx context.Context, accession, path string) error
}
