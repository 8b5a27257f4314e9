package config_test

import (
	"runtime"
	"testing"

	"github.com/mganno/mganno/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := config.New()

	t.Run("creates valid default config", func(t *testing.T) {
		require.NotNil(t, cfg)

		// Database defaults
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "postgres", cfg.Database.Password)
		assert.Equal(t, "mganno", cfg.Database.Database)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 50_000, cfg.Database.BatchSize)

		// Blob defaults
		assert.Equal(t, "minio", cfg.Blob.Backend)
		assert.Equal(t, "localhost:9000", cfg.Blob.Endpoint)
		assert.Equal(t, "mganno-records", cfg.Blob.Bucket)

		// Server and pipeline defaults
		assert.Equal(t, 8182, cfg.Server.Port)
		assert.Equal(t, 30, cfg.Server.ReadTimeout)
		assert.Equal(t, 2000, cfg.Pipeline.ChunkSize)
		assert.Equal(t, 2, cfg.Pipeline.QueueDepth)

		// Log defaults
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "text", cfg.Log.Format)

		// JobsNumber defaults to CPU count
		assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)

		assert.NoError(t, cfg.Validate())
	})
}

func TestOptions(t *testing.T) {
	cfg := config.New(
		config.OptDatabaseHost("db.example.org"),
		config.OptDatabasePort(5433),
		config.OptBlobBackend("local"),
		config.OptBlobDir("/var/lib/mganno/blobs"),
		config.OptServerPort(9000),
		config.OptPipelineChunkSize(500),
		config.OptPipelineQueueDepth(0),
		config.OptLogLevel("debug"),
	)

	assert.Equal(t, "db.example.org", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "local", cfg.Blob.Backend)
	assert.Equal(t, "/var/lib/mganno/blobs", cfg.Blob.Dir)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 500, cfg.Pipeline.ChunkSize)
	assert.Equal(t, 0, cfg.Pipeline.QueueDepth)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestOptionsRejectInvalid(t *testing.T) {
	tests := []struct {
		name string
		opt  config.Option
	}{
		{"empty host", config.OptDatabaseHost("")},
		{"zero port", config.OptDatabasePort(0)},
		{"negative port", config.OptDatabasePort(-5)},
		{"unknown backend", config.OptBlobBackend("tape")},
		{"unknown log level", config.OptLogLevel("verbose")},
		{"zero chunk size", config.OptPipelineChunkSize(0)},
		{"negative queue depth", config.OptPipelineQueueDepth(-1)},
		{"zero jobs", config.OptJobsNumber(0)},
	}

	defaults := config.Defaults()
	for _, v := range tests {
		t.Run(v.name, func(t *testing.T) {
			cfg := config.New(v.opt)
			// Invalid values are ignored; config stays at defaults.
			assert.Equal(t, *defaults, *cfg)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Host = "db.example.org"
	cfg.MergeWithDefaults()

	assert.Equal(t, "db.example.org", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 2000, cfg.Pipeline.ChunkSize)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mut    func(*config.Config)
		errMsg string
	}{
		{
			name:   "database port out of range",
			mut:    func(c *config.Config) { c.Database.Port = 70000 },
			errMsg: "database port",
		},
		{
			name:   "server port out of range",
			mut:    func(c *config.Config) { c.Server.Port = 0 },
			errMsg: "server port",
		},
		{
			name:   "chunk size must be positive",
			mut:    func(c *config.Config) { c.Pipeline.ChunkSize = 0 },
			errMsg: "chunk_size",
		},
		{
			name:   "queue depth cannot be negative",
			mut:    func(c *config.Config) { c.Pipeline.QueueDepth = -1 },
			errMsg: "queue_depth",
		},
		{
			name:   "local backend needs dir",
			mut:    func(c *config.Config) { c.Blob.Backend = "local" },
			errMsg: "blob.dir",
		},
	}

	for _, v := range tests {
		t.Run(v.name, func(t *testing.T) {
			cfg := config.Defaults()
			v.mut(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), v.errMsg)
		})
	}
}
