// Package ioblob implements the raw-record blob store contracts over
// MinIO/S3-compatible object storage, with a local-directory backend
// for development and tests.
package ioblob

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/mganno/mganno/pkg/annotate"
	"github.com/mganno/mganno/pkg/config"
)

// minioStore implements annotate.BlobStore for MinIO and
// S3-compatible storage.
type minioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore creates a blob store backed by the configured
// MinIO endpoint and bucket.
func NewMinioStore(cfg *config.BlobConfig) (annotate.BlobStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &minioStore{client: client, bucket: cfg.Bucket}, nil
}

// Open opens an existing blob for reading. The object is stat'ed to
// verify existence and capture its size before any range reads.
func (s *minioStore) Open(
	ctx context.Context,
	handle string,
) (annotate.Blob, error) {
	info, err := s.client.StatObject(
		ctx, s.bucket, handle, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil, fmt.Errorf("blob not found: %s", handle)
		}
		return nil, err
	}

	return &minioBlob{
		client: s.client,
		bucket: s.bucket,
		key:    handle,
		size:   info.Size,
	}, nil
}

// minioBlob implements annotate.Blob over range GETs.
type minioBlob struct {
	client *minio.Client
	bucket string
	key    string
	size   int64
}

func (b *minioBlob) Size() int64 {
	return b.size
}

// ReadRange streams [off, off+length) of the object.
func (b *minioBlob) ReadRange(
	ctx context.Context,
	off, length int64,
) (io.ReadCloser, error) {
	opts := minio.GetObjectOptions{}
	end := off + length - 1
	if end >= b.size {
		end = b.size - 1
	}
	if end < off {
		return nil, fmt.Errorf(
			"range [%d,%d) outside blob %s (size %d)",
			off, off+length, b.key, b.size)
	}
	if err := opts.SetRange(off, end); err != nil {
		return nil, err
	}

	obj, err := b.client.GetObject(ctx, b.bucket, b.key, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (b *minioBlob) Close() error {
	return nil
}
