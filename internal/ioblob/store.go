package ioblob

import (
	"fmt"

	"github.com/mganno/mganno/pkg/annotate"
	"github.com/mganno/mganno/pkg/config"
)

// New creates the blob store selected by the configuration.
func New(cfg *config.BlobConfig) (annotate.BlobStore, error) {
	switch cfg.Backend {
	case "minio":
		return NewMinioStore(cfg)
	case "local":
		return NewLocalStore(cfg.Dir), nil
	default:
		return nil, fmt.Errorf("unknown blob backend: %s", cfg.Backend)
	}
}
