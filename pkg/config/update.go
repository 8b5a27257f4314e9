package config

import (
	"fmt"
)

// MergeWithDefaults fills zero-valued fields from the built-in defaults.
// Viper unmarshalling leaves fields absent from the file at their zero
// value; defaults keep the config usable without a complete file.
func (c *Config) MergeWithDefaults() {
	d := Defaults()

	if c.Database.Host == "" {
		c.Database.Host = d.Database.Host
	}
	if c.Database.Port == 0 {
		c.Database.Port = d.Database.Port
	}
	if c.Database.User == "" {
		c.Database.User = d.Database.User
	}
	if c.Database.Password == "" {
		c.Database.Password = d.Database.Password
	}
	if c.Database.Database == "" {
		c.Database.Database = d.Database.Database
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = d.Database.SSLMode
	}
	if c.Database.BatchSize == 0 {
		c.Database.BatchSize = d.Database.BatchSize
	}

	if c.Blob.Backend == "" {
		c.Blob.Backend = d.Blob.Backend
	}
	if c.Blob.Endpoint == "" {
		c.Blob.Endpoint = d.Blob.Endpoint
	}
	if c.Blob.Bucket == "" {
		c.Blob.Bucket = d.Blob.Bucket
	}

	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = d.Server.ReadTimeout
	}

	if c.Pipeline.ChunkSize == 0 {
		c.Pipeline.ChunkSize = d.Pipeline.ChunkSize
	}

	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}

	if c.JobsNumber == 0 {
		c.JobsNumber = d.JobsNumber
	}
}

// Validate checks cross-field constraints that Option validators cannot
// see. Returns the first violation found.
func (c *Config) Validate() error {
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("database port out of range: %d", c.Database.Port)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	if c.Pipeline.ChunkSize < 1 {
		return fmt.Errorf("pipeline chunk_size must be positive: %d",
			c.Pipeline.ChunkSize)
	}
	if c.Pipeline.QueueDepth < 0 {
		return fmt.Errorf("pipeline queue_depth cannot be negative: %d",
			c.Pipeline.QueueDepth)
	}
	if c.Blob.Backend == "local" && c.Blob.Dir == "" {
		return fmt.Errorf("blob backend 'local' requires blob.dir")
	}
	return nil
}
