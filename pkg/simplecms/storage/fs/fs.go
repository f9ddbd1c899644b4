package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/objectkey"
)

// FilesRoute is the HTTP path under which stored files are served.
const FilesRoute = "/media/files/"

var _ simplecms.BlobStore = (*Backend)(nil)

// Backend is a filesystem implementation of the simplecms.BlobStore interface
type Backend struct {
	baseDir   string
	urlPrefix string
	keys      objectkey.Generator
}

// Config options for the filesystem backend
type Config struct {
	BaseDir      string              // Base directory for storing files
	URLPrefix    string              // Optional public origin prepended to file URLs
	KeyGenerator objectkey.Generator // Defaults to objectkey.NewDatePathGenerator()
}

// New creates a new filesystem storage backend
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	keys := config.KeyGenerator
	if keys == nil {
		keys = objectkey.NewDatePathGenerator()
	}

	return &Backend{
		baseDir:   filepath.Clean(config.BaseDir),
		urlPrefix: strings.TrimRight(config.URLPrefix, "/"),
		keys:      keys,
	}, nil
}

// BaseDir returns the directory files are stored under.
func (b *Backend) BaseDir() string {
	return b.baseDir
}

// URL returns the public URL for a locator.
func (b *Backend) URL(locator string) string {
	return b.urlPrefix + FilesRoute + locator
}

// ResolvePath maps a locator to its path on disk
func (b *Backend) ResolvePath(locator string) string {
	return filepath.Join(b.baseDir, filepath.FromSlash(locator))
}

// path resolves a locator and rejects anything escaping the base directory.
func (b *Backend) path(locator string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(locator))
	if locator == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: invalid locator %q", simplecms.ErrValidation, locator)
	}
	return filepath.Join(b.baseDir, clean), nil
}

// Save stores the payload under a freshly generated locator
func (b *Backend) Save(ctx context.Context, reader io.Reader, originalName, mimeType string) (string, string, error) {
	locator := b.keys.GenerateKey(originalName)
	url, err := b.Put(ctx, locator, reader, mimeType)
	if err != nil {
		return "", "", err
	}
	return locator, url, nil
}

// Put writes the payload to locator. A failed write leaves nothing behind.
func (b *Backend) Put(ctx context.Context, locator string, reader io.Reader, mimeType string) (string, error) {
	filePath, err := b.path(locator)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	// Write to a sibling temp file so a failed upload never replaces a good one.
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	discard := func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		b.cleanupEmptyDirectories(dir)
	}

	if _, err := io.Copy(tmp, &contextReader{ctx: ctx, r: reader}); err != nil {
		discard()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		discard()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		discard()
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}

	return b.URL(locator), nil
}

// Open opens a stored file for reading
func (b *Backend) Open(ctx context.Context, locator string) (io.ReadCloser, error) {
	filePath, err := b.path(locator)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if os.IsNotExist(err) {
		return nil, simplecms.ErrBlobNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Delete removes a file and any directories left empty by it
func (b *Backend) Delete(ctx context.Context, locator string) (bool, error) {
	filePath, err := b.path(locator)
	if err != nil {
		return false, err
	}

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete file: %w", err)
	}

	b.cleanupEmptyDirectories(filepath.Dir(filePath))
	return true, nil
}

// cleanupEmptyDirectories recursively removes empty directories up to baseDir
func (b *Backend) cleanupEmptyDirectories(dir string) {
	if dir == b.baseDir || !strings.HasPrefix(dir, b.baseDir) {
		return
	}

	if entries, err := os.ReadDir(dir); err == nil && len(entries) == 0 {
		if os.Remove(dir) == nil {
			b.cleanupEmptyDirectories(filepath.Dir(dir))
		}
	}
}

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
