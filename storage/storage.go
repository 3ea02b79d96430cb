// Package storage is the object store behind cover images and admin uploads.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"

	// s3:// driver for STORAGE_URL.
	_ "gocloud.dev/blob/s3blob"
)

var (
	ErrInvalidPath = errors.New("invalid storage path")
	ErrEmptyFile   = errors.New("file is empty")
	ErrTooLarge    = errors.New("file exceeds upload limit")
)

// Bucket stores objects by slash separated path and exposes them at a public URL.
type Bucket interface {
	Put(ctx context.Context, objectPath string, r io.Reader, contentType string) error
	Delete(ctx context.Context, objectPath string) error
	PublicURL(objectPath string) string
}

// BlobBucket is a Bucket backed by a gocloud blob bucket. A local bucket keeps
// its objects under <root>/<name> and is served by this process at
// URLPrefix(); a remote one is read from its own public URL.
type BlobBucket struct {
	bucket    *blob.Bucket
	name      string
	dir       string
	publicURL string
	logger    *slog.Logger
}

// OpenLocalBucket opens a bucket on local disk.
func OpenLocalBucket(root, name, baseURL string, logger *slog.Logger) (*BlobBucket, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("invalid bucket name %q", name)
	}

	dir, err := filepath.Abs(filepath.Join(root, name))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve bucket directory: %w", err)
	}

	bucket, err := fileblob.OpenBucket(dir, &fileblob.Options{CreateDir: true, NoTempDir: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket directory: %w", err)
	}

	b := &BlobBucket{
		bucket: bucket,
		name:   name,
		dir:    dir,
		logger: logger,
	}
	b.publicURL = strings.TrimRight(baseURL, "/") + b.URLPrefix()

	logger.Info("storage bucket ready", "dir", dir, "bucket", name)
	return b, nil
}

// OpenBucket opens a bucket from a gocloud URL such as s3://name?region=eu-west-1.
// Objects are linked under publicURL.
func OpenBucket(ctx context.Context, bucketURL, publicURL string, logger *slog.Logger) (*BlobBucket, error) {
	if strings.TrimSpace(publicURL) == "" {
		return nil, errors.New("a public URL is required for a remote bucket")
	}

	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket %s: %w", bucketURL, err)
	}

	logger.Info("storage bucket ready", "url", bucketURL)
	return &BlobBucket{
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}, nil
}

// Dir is the on-disk directory of a local bucket, empty for remote ones.
func (b *BlobBucket) Dir() string {
	return b.dir
}

// URLPrefix is the route under which a local bucket is served.
func (b *BlobBucket) URLPrefix() string {
	if b.dir == "" {
		return ""
	}
	return "/storage/" + b.name
}

func (b *BlobBucket) Close() error {
	return b.bucket.Close()
}

func (b *BlobBucket) Put(ctx context.Context, objectPath string, r io.Reader, contentType string) error {
	key, err := objectKey(objectPath)
	if err != nil {
		return err
	}

	// Cancelling the writer's context before Close discards the partial object.
	writeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	w, err := b.bucket.NewWriter(writeCtx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to create object: %w", err)
	}

	if _, err := io.Copy(w, r); err != nil {
		cancel()
		_ = w.Close()
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to store object: %w", err)
	}

	b.logger.Debug("object stored", "path", key, "content_type", contentType)
	return nil
}

// Delete removes an object. Deleting a missing object is not an error.
func (b *BlobBucket) Delete(ctx context.Context, objectPath string) error {
	key, err := objectKey(objectPath)
	if err != nil {
		return err
	}

	if err := b.bucket.Delete(ctx, key); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	b.logger.Debug("object deleted", "path", key)
	return nil
}

func (b *BlobBucket) PublicURL(objectPath string) string {
	return b.publicURL + "/" + strings.TrimLeft(path.Clean("/"+objectPath), "/")
}

// objectKey accepts only clean relative slash paths.
func objectKey(objectPath string) (string, error) {
	if objectPath == "" || strings.Contains(objectPath, `\`) {
		return "", ErrInvalidPath
	}

	clean := path.Clean("/" + objectPath)
	if clean == "/" || clean != "/"+strings.TrimLeft(objectPath, "/") {
		return "", ErrInvalidPath
	}
	return strings.TrimPrefix(clean, "/"), nil
}
