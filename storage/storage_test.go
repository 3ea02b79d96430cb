package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "gocloud.dev/blob/memblob"

	"portfolio/logger"
)

func newTestBucket(t *testing.T) *BlobBucket {
	t.Helper()
	b, err := OpenLocalBucket(t.TempDir(), "portfolio", "https://example.com/", logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b
}

func TestLocalBucket_PutAndDelete(t *testing.T) {
	b := newTestBucket(t)
	ctx := context.Background()

	err := b.Put(ctx, "projects/cover.png", strings.NewReader("png bytes"), "image/png")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(b.Dir(), "projects", "cover.png"))
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(data))

	require.NoError(t, b.Delete(ctx, "projects/cover.png"))
	_, err = os.Stat(filepath.Join(b.Dir(), "projects", "cover.png"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, b.Delete(ctx, "projects/cover.png"), "deleting twice is fine")
}

func TestLocalBucket_RejectsEscapingPaths(t *testing.T) {
	b := newTestBucket(t)
	ctx := context.Background()

	for _, p := range []string{"", "../secret", "projects/../../x", `projects\x`, "a/./b"} {
		err := b.Put(ctx, p, strings.NewReader("x"), "text/plain")
		assert.ErrorIs(t, err, ErrInvalidPath, p)
	}
}

func TestLocalBucket_PublicURL(t *testing.T) {
	b := newTestBucket(t)
	assert.Equal(t, "https://example.com/storage/portfolio/blog/a.png", b.PublicURL("blog/a.png"))
	assert.Equal(t, "/storage/portfolio", b.URLPrefix())
}

func TestOpenLocalBucket_InvalidName(t *testing.T) {
	for _, name := range []string{"", "../up", "a/b", ".."} {
		_, err := OpenLocalBucket(t.TempDir(), name, "", logger.Discard())
		assert.Error(t, err, name)
	}
}

func TestOpenBucket_Remote(t *testing.T) {
	ctx := context.Background()
	b, err := OpenBucket(ctx, "mem://", "https://cdn.example.com/", logger.Discard())
	require.NoError(t, err)
	defer b.Close()

	assert.Empty(t, b.Dir())
	assert.Empty(t, b.URLPrefix())
	assert.Equal(t, "https://cdn.example.com/projects/a.png", b.PublicURL("projects/a.png"))

	require.NoError(t, b.Put(ctx, "projects/a.png", strings.NewReader("png"), "image/png"))
	exists, err := b.bucket.Exists(ctx, "projects/a.png")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, b.Delete(ctx, "projects/a.png"))
	exists, err = b.bucket.Exists(ctx, "projects/a.png")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, b.Delete(ctx, "projects/a.png"), "deleting twice is fine")
}

func TestOpenBucket_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := OpenBucket(ctx, "mem://", "", logger.Discard())
	assert.Error(t, err)

	_, err = OpenBucket(ctx, "nosuchscheme://bucket", "https://cdn.example.com", logger.Discard())
	assert.Error(t, err)
}

func TestUploader_TooLargeLeavesNoObject(t *testing.T) {
	b := newTestBucket(t)
	u := NewUploader(b, 16, logger.Discard())

	_, err := u.Upload(context.Background(), strings.NewReader(strings.Repeat("a", 64)), "a.txt", "docs", "big")
	require.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(filepath.Join(b.Dir(), "docs"))
	if err == nil {
		for _, e := range entries {
			assert.False(t, strings.HasPrefix(e.Name(), "big-"), e.Name())
		}
	}
}

func TestUploader_ObjectPath(t *testing.T) {
	u := NewUploader(newTestBucket(t), 1<<20, logger.Discard())
	fixed := time.Unix(1700000000, 0)
	u.now = func() time.Time { return fixed }

	first, err := u.ObjectPath("projects", "my-cool-project", ".PNG")
	require.NoError(t, err)
	second, err := u.ObjectPath("projects", "my-cool-project", ".png")
	require.NoError(t, err)

	assert.Equal(t, "projects/my-cool-project-1700000000000000000.png", first)
	assert.Equal(t, "projects/my-cool-project-1700000000000000001.png", second)
	assert.NotEqual(t, first, second)
}

func TestUploader_ObjectPath_UniqueAcrossCalls(t *testing.T) {
	u := NewUploader(newTestBucket(t), 1<<20, logger.Discard())

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		p, err := u.ObjectPath("blog", "post-1", ".jpg")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(p, "blog/post-1-"))
		assert.False(t, seen[p], "duplicate path %s", p)
		seen[p] = true
	}
}

func TestUploader_ObjectPath_Validation(t *testing.T) {
	u := NewUploader(newTestBucket(t), 1<<20, logger.Discard())

	_, err := u.ObjectPath("projects", "  ", ".png")
	assert.ErrorIs(t, err, ErrMissingID)

	_, err = u.ObjectPath("../etc", "id", ".png")
	assert.ErrorIs(t, err, ErrInvalidFolder)

	p, err := u.ObjectPath("projects", "id", ".tar.gz/../x")
	require.NoError(t, err)
	assert.NotContains(t, p, "..")
}

func TestUploader_Upload(t *testing.T) {
	b := newTestBucket(t)
	u := NewUploader(b, 1<<20, logger.Discard())

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	res, err := u.Upload(context.Background(), bytes.NewReader(png), "cover.png", "projects", "site-redesign")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.Path, "projects/site-redesign-"))
	assert.True(t, strings.HasSuffix(res.Path, ".png"))
	assert.Equal(t, b.PublicURL(res.Path), res.URL)

	stored, err := os.ReadFile(filepath.Join(b.Dir(), filepath.FromSlash(res.Path)))
	require.NoError(t, err)
	assert.Equal(t, png, stored)
}

func TestUploader_Upload_ExtensionFromContent(t *testing.T) {
	u := NewUploader(newTestBucket(t), 1<<20, logger.Discard())

	res, err := u.Upload(context.Background(), strings.NewReader("plain text body"), "notes", "docs", "readme")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(res.Path, ".txt"), res.Path)
}

func TestUploader_Upload_Errors(t *testing.T) {
	u := NewUploader(newTestBucket(t), 16, logger.Discard())
	ctx := context.Background()

	_, err := u.Upload(ctx, strings.NewReader(""), "a.png", "projects", "x")
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = u.Upload(ctx, strings.NewReader(strings.Repeat("a", 64)), "a.txt", "projects", "x")
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestUploader_Remove(t *testing.T) {
	b := newTestBucket(t)
	u := NewUploader(b, 1<<20, logger.Discard())
	ctx := context.Background()

	res, err := u.Upload(ctx, strings.NewReader("hello"), "a.txt", "docs", "a")
	require.NoError(t, err)

	require.NoError(t, u.Remove(ctx, res.Path))
	require.NoError(t, u.Remove(ctx, ""))

	_, err = os.Stat(filepath.Join(b.Dir(), filepath.FromSlash(res.Path)))
	assert.True(t, os.IsNotExist(err))
}
