// internal/app/system/storage/storage.go

// Package storage abstracts the object store holding report files and
// group avatars. The core only ever handles opaque keys and URLs; file
// contents pass straight through to the backend.
//
// Two implementations exist: S3 (any S3-compatible endpoint via
// minio-go) and Local (filesystem, for development). Deletes are
// best-effort at the call sites — the authoritative record is the
// database row, not the blob.
package storage

import (
	"context"
	"io"
	"time"
)

// PutOptions carries metadata for an upload.
type PutOptions struct {
	ContentType string
}

// PresignOptions controls presigned download URLs.
type PresignOptions struct {
	Expires            time.Duration
	ContentDisposition string
}

// Store is the object-storage interface consumed by the features.
type Store interface {
	// Put streams an object to the backend under the given key.
	Put(ctx context.Context, key string, r io.Reader, size int64, opts *PutOptions) error
	// PresignedURL returns a time-limited download URL for the key.
	PresignedURL(ctx context.Context, key string, opts *PresignOptions) (string, error)
	// Delete removes the object. Missing objects are not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the stable public URL for a key (no signing).
	URL(key string) string
	// KeyFromURL recovers the storage key from a URL previously
	// returned by URL. Returns the input unchanged if it does not look
	// like one of ours.
	KeyFromURL(url string) string
}
