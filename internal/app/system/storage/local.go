// internal/app/system/storage/local.go
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local stores objects on the filesystem, for development. Presigned
// URLs degrade to the plain public URL; the file server mounted at
// urlPrefix handles delivery.
type Local struct {
	root      string
	urlPrefix string
}

// NewLocal builds a filesystem store rooted at the given directory.
func NewLocal(root, urlPrefix string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage root %s: %w", root, err)
	}
	return &Local{root: root, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

func (l *Local) fullPath(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	return filepath.Join(l.root, filepath.FromSlash(clean)), nil
}

func (l *Local) Put(ctx context.Context, key string, r io.Reader, size int64, opts *PutOptions) error {
	path, err := l.fullPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (l *Local) PresignedURL(ctx context.Context, key string, opts *PresignOptions) (string, error) {
	return l.URL(key), nil
}

func (l *Local) Delete(ctx context.Context, key string) error {
	path, err := l.fullPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (l *Local) URL(key string) string {
	return l.urlPrefix + "/" + strings.TrimLeft(key, "/")
}

func (l *Local) KeyFromURL(u string) string {
	if strings.HasPrefix(u, l.urlPrefix+"/") {
		return strings.TrimPrefix(u, l.urlPrefix+"/")
	}
	return u
}

// GetFullPath exposes the filesystem location of a key so handlers can
// serve files directly in development.
func (l *Local) GetFullPath(key string) (string, error) {
	return l.fullPath(key)
}

// Root returns the storage root directory.
func (l *Local) Root() string { return l.root }
