// Package storage fetches model artifact directories from object storage so
// the service can load them from local disk.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

type Object struct {
	Name string
	Size int64
}

type Provider interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)

	DownloadObject(ctx context.Context, bucket, key, filename string) error

	ListObjects(ctx context.Context, bucket, prefix string) ([]Object, error)
}

// ParseS3URI splits an s3://bucket/prefix URI.
func ParseS3URI(uri string) (bucket, prefix string, err error) {
	trimmed, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", fmt.Errorf("invalid s3 uri %q: must start with s3://", uri)
	}
	bucket, prefix, _ = strings.Cut(trimmed, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("invalid s3 uri %q: missing bucket", uri)
	}
	return bucket, strings.TrimSuffix(prefix, "/"), nil
}

// DownloadDir materializes every object under bucket/prefix into destDir,
// preserving names relative to the prefix.
func DownloadDir(ctx context.Context, p Provider, bucket, prefix, destDir string) error {
	objects, err := p.ListObjects(ctx, bucket, prefix)
	if err != nil {
		return fmt.Errorf("failed to list objects under s3://%s/%s: %w", bucket, prefix, err)
	}
	if len(objects) == 0 {
		return fmt.Errorf("no objects found under s3://%s/%s", bucket, prefix)
	}

	for _, obj := range objects {
		rel := strings.TrimPrefix(strings.TrimPrefix(obj.Name, prefix), "/")
		if rel == "" {
			continue
		}
		dest := filepath.Join(destDir, filepath.FromSlash(rel))
		if err := p.DownloadObject(ctx, bucket, obj.Name, dest); err != nil {
			return fmt.Errorf("failed to download s3://%s/%s: %w", bucket, obj.Name, err)
		}
		slog.Info("downloaded model artifact", "bucket", bucket, "key", obj.Name, "dest", dest)
	}

	return nil
}
