package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseBatchSize sets the number of records per bulk-import batch.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptBlobBackend selects the blob store implementation.
// Valid values: "minio", "local".
func OptBlobBackend(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Blob.Backend", s) {
			c.Blob.Backend = s
		}
	}
}

// OptBlobEndpoint sets the MinIO/S3-compatible endpoint.
func OptBlobEndpoint(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Blob Endpoint", s) {
			c.Blob.Endpoint = s
		}
	}
}

// OptBlobAccessKey sets the MinIO access key.
func OptBlobAccessKey(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		c.Blob.AccessKey = s
	}
}

// OptBlobSecretKey sets the MinIO secret key.
func OptBlobSecretKey(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		c.Blob.SecretKey = s
	}
}

// OptBlobBucket sets the bucket holding raw-record blobs.
func OptBlobBucket(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Blob Bucket", s) {
			c.Blob.Bucket = s
		}
	}
}

// OptBlobUseSSL enables TLS for the MinIO connection.
func OptBlobUseSSL(b bool) Option {
	return func(c *Config) {
		c.Blob.UseSSL = b
	}
}

// OptBlobDir sets the root directory for the local blob backend.
func OptBlobDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Blob Dir", s) {
			c.Blob.Dir = s
		}
	}
}

// OptServerPort sets the HTTP listen port.
func OptServerPort(i int) Option {
	return func(c *Config) {
		if isValidInt("Server Port", i) {
			c.Server.Port = i
		}
	}
}

// OptServerReadTimeout sets the request read timeout in seconds.
func OptServerReadTimeout(i int) Option {
	return func(c *Config) {
		if isValidInt("Server ReadTimeout", i) {
			c.Server.ReadTimeout = i
		}
	}
}

// OptPipelineChunkSize sets the per-batch cap on distinct hit identifiers.
func OptPipelineChunkSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Pipeline ChunkSize", i) {
			c.Pipeline.ChunkSize = i
		}
	}
}

// OptPipelineQueueDepth sets the bounded queue depth between batch
// production and emission. Zero is valid and means strictly sequential.
func OptPipelineQueueDepth(i int) Option {
	return func(c *Config) {
		if i < 0 {
			gn.Warn("<em>Pipeline QueueDepth</em> cannot be negative, ignoring %d", i)
			return
		}
		c.Pipeline.QueueDepth = i
	}
}

// OptLogLevel sets the minimum log level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat selects the slog handler format.
// Valid values: "text", "json".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers.
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Blob.Backend": {"minio": s, "local": s},
		"Log.Level":    {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":   {"json": s, "text": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		[]string{name, val, strings.Join(lines, "\n")},
	)
	return false
}
