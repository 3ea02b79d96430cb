package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"portfolio/content"
	"portfolio/models"
)

const sniffLen = 3072

var (
	ErrMissingID     = errors.New("id is required")
	ErrInvalidFolder = errors.New("invalid folder")

	folderPattern = regexp.MustCompile(`^[a-z0-9_-]+(?:/[a-z0-9_-]+)*$`)
	extPattern    = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)
)

// Uploader names incoming files and pushes them into a Bucket.
type Uploader struct {
	bucket  Bucket
	maxSize int64
	logger  *slog.Logger
	now     func() time.Time

	mu   sync.Mutex
	last int64
}

func NewUploader(bucket Bucket, maxSize int64, logger *slog.Logger) *Uploader {
	return &Uploader{
		bucket:  bucket,
		maxSize: maxSize,
		logger:  logger,
		now:     time.Now,
	}
}

// ObjectPath builds folder/<id>-<unix nanos><ext>. Two calls never return the
// same path: when the clock hasn't moved the timestamp is bumped by one.
func (u *Uploader) ObjectPath(folder, id, ext string) (string, error) {
	folder = strings.Trim(strings.ToLower(folder), "/")
	if !folderPattern.MatchString(folder) {
		return "", ErrInvalidFolder
	}

	id = content.Slugify(id)
	if id == "" {
		return "", ErrMissingID
	}

	ext = strings.ToLower(ext)
	if ext != "" && !extPattern.MatchString(ext) {
		ext = ""
	}

	return path.Join(folder, fmt.Sprintf("%s-%d%s", id, u.stamp(), ext)), nil
}

func (u *Uploader) stamp() int64 {
	u.mu.Lock()
	defer u.mu.Unlock()

	ts := u.now().UnixNano()
	if ts <= u.last {
		ts = u.last + 1
	}
	u.last = ts
	return ts
}

// Upload stores r under a generated path and returns where it landed.
// filename only contributes its extension.
func (u *Uploader) Upload(ctx context.Context, r io.Reader, filename, folder, id string) (models.UploadResult, error) {
	start := time.Now()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return models.UploadResult{}, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return models.UploadResult{}, ErrEmptyFile
	}

	mime := mimetype.Detect(head)
	ext := path.Ext(filename)
	if ext == "" {
		ext = mime.Extension()
	}

	objectPath, err := u.ObjectPath(folder, id, ext)
	if err != nil {
		return models.UploadResult{}, err
	}

	body := &limitReader{r: io.MultiReader(bytes.NewReader(head), r), remaining: u.maxSize}
	if err := u.bucket.Put(ctx, objectPath, body, mime.String()); err != nil {
		if errors.Is(err, ErrTooLarge) {
			return models.UploadResult{}, ErrTooLarge
		}
		return models.UploadResult{}, fmt.Errorf("failed to upload %s: %w", objectPath, err)
	}

	u.logger.Info("Upload",
		"duration", time.Since(start),
		"path", objectPath,
		"content_type", mime.String(),
		"bytes", u.maxSize-body.remaining,
	)

	return models.UploadResult{Path: objectPath, URL: u.bucket.PublicURL(objectPath)}, nil
}

// UploadFile is Upload for a multipart form file.
func (u *Uploader) UploadFile(ctx context.Context, fh *multipart.FileHeader, folder, id string) (models.UploadResult, error) {
	if fh.Size == 0 {
		return models.UploadResult{}, ErrEmptyFile
	}
	if fh.Size > u.maxSize {
		return models.UploadResult{}, ErrTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	return u.Upload(ctx, f, fh.Filename, folder, id)
}

// Remove deletes a stored object. Blank paths are ignored.
func (u *Uploader) Remove(ctx context.Context, objectPath string) error {
	if objectPath == "" {
		return nil
	}
	return u.bucket.Delete(ctx, objectPath)
}

type limitReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, ErrTooLarge
	}
	return n, err
}
