package ioblob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mganno/mganno/pkg/annotate"
)

// localStore implements annotate.BlobStore using the local file system.
// Intended for development and tests; production uses the MinIO backend.
type localStore struct {
	root string
}

// NewLocalStore creates a blob store rooted at the given directory.
func NewLocalStore(root string) annotate.BlobStore {
	return &localStore{root: root}
}

// Open opens a blob for reading.
func (s *localStore) Open(
	ctx context.Context,
	handle string,
) (annotate.Blob, error) {
	path := filepath.Join(s.root, filepath.Clean("/"+handle))
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("blob not found: %s: %w", handle, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &localBlob{f: f, size: info.Size()}, nil
}

type localBlob struct {
	f    *os.File
	size int64
}

func (b *localBlob) Size() int64 {
	return b.size
}

// ReadRange returns a reader over [off, off+length) of the file.
func (b *localBlob) ReadRange(
	ctx context.Context,
	off, length int64,
) (io.ReadCloser, error) {
	if off < 0 || off >= b.size {
		return nil, fmt.Errorf("offset %d outside blob (size %d)", off, b.size)
	}
	if off+length > b.size {
		length = b.size - off
	}
	return io.NopCloser(io.NewSectionReader(b.f, off, length)), nil
}

func (b *localBlob) Close() error {
	return b.f.Close()
}
