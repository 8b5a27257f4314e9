// Package config provides configuration management for mganno.
//
// This package has no I/O dependencies (no file operations, no network
// calls). Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
//
// # Environment Variables
//
// Use MGANNO_ prefix with underscores for nesting:
//
//	MGANNO_DATABASE_HOST=localhost
//	MGANNO_DATABASE_PORT=5432
//	MGANNO_SERVER_PORT=8182
//	MGANNO_LOG_LEVEL=info
package config

import (
	"runtime"
)

// Config represents the complete mganno configuration.
type Config struct {
	// Database contains PostgreSQL connection settings for the
	// alignment, annotation and hierarchy tables.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Blob contains settings for the raw-record blob store.
	Blob BlobConfig `mapstructure:"blob" yaml:"blob"`

	// Server contains HTTP daemon settings.
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// Pipeline contains annotation streaming pipeline settings.
	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel
	// operations (name parsing during loads). Defaults to the number
	// of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize defines the number of records per batch for bulk
	// imports (CopyFrom during load).
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// BlobConfig contains settings for the content-addressed blob store
// holding raw sequence and similarity records.
type BlobConfig struct {
	// Backend selects the store implementation.
	// Valid values: "minio", "local".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// Endpoint is the MinIO/S3-compatible endpoint (host:port).
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// AccessKey is the MinIO access key.
	AccessKey string `mapstructure:"access_key" yaml:"access_key"`

	// SecretKey is the MinIO secret key.
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"`

	// Bucket is the bucket holding raw-record blobs.
	Bucket string `mapstructure:"bucket" yaml:"bucket"`

	// UseSSL enables TLS for the MinIO connection.
	UseSSL bool `mapstructure:"use_ssl" yaml:"use_ssl"`

	// Dir is the root directory for the "local" backend.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// ServerConfig contains HTTP daemon settings.
type ServerConfig struct {
	// Port is the port the annotation API listens on.
	Port int `mapstructure:"port" yaml:"port"`

	// ReadTimeout is the request read timeout in seconds.
	// The write path has no timeout: responses are unbounded streams.
	ReadTimeout int `mapstructure:"read_timeout" yaml:"read_timeout"`
}

// PipelineConfig contains annotation pipeline settings.
type PipelineConfig struct {
	// ChunkSize caps the number of distinct hit identifiers resolved
	// and fetched per batch, bounding peak memory per request.
	ChunkSize int `mapstructure:"chunk_size" yaml:"chunk_size"`

	// QueueDepth is the number of completed batches that may wait
	// between batch production and emission. Depth above zero lets
	// annotation lookups overlap blob reads of the previous batch.
	QueueDepth int `mapstructure:"queue_depth" yaml:"queue_depth"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Level is the minimum log level.
	// Valid values: "debug", "info", "warn", "error".
	Level string `mapstructure:"level" yaml:"level"`

	// Format selects the slog handler.
	// Valid values: "text", "json".
	Format string `mapstructure:"format" yaml:"format"`
}

// New creates a Config with default values, modified by the given options.
func New(opts ...Option) *Config {
	cfg := Defaults()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Defaults returns the built-in default configuration.
// The result is always valid.
func Defaults() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "mganno",
			SSLMode:   "disable",
			BatchSize: 50000,
		},
		Blob: BlobConfig{
			Backend:  "minio",
			Endpoint: "localhost:9000",
			Bucket:   "mganno-records",
		},
		Server: ServerConfig{
			Port:        8182,
			ReadTimeout: 30,
		},
		Pipeline: PipelineConfig{
			ChunkSize:  2000,
			QueueDepth: 2,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		JobsNumber: runtime.NumCPU(),
	}
}
