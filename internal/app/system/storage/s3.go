// internal/app/system/storage/s3.go
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3 talks to any S3-compatible endpoint (AWS, R2, MinIO).
type S3 struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// S3Config holds the connection settings for an S3-compatible backend.
type S3Config struct {
	Endpoint  string // host[:port], no scheme
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// BaseURL is the public URL prefix objects are served from, e.g.
	// "https://bucket.s3.eu-central-1.amazonaws.com". Defaults to the
	// endpoint + bucket when empty.
	BaseURL string
}

// NewS3 builds an S3-backed store. It does not probe the bucket; a
// misconfigured endpoint surfaces on first use.
func NewS3(cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}
	base := cfg.BaseURL
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}
	return &S3{client: client, bucket: cfg.Bucket, baseURL: strings.TrimRight(base, "/")}, nil
}

func (s *S3) Put(ctx context.Context, key string, r io.Reader, size int64, opts *PutOptions) error {
	put := minio.PutObjectOptions{}
	if opts != nil {
		put.ContentType = opts.ContentType
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, put)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *S3) PresignedURL(ctx context.Context, key string, opts *PresignOptions) (string, error) {
	expires := 1 * time.Hour
	params := make(url.Values)
	if opts != nil {
		if opts.Expires > 0 {
			expires = opts.Expires
		}
		if opts.ContentDisposition != "" {
			params.Set("response-content-disposition", opts.ContentDisposition)
		}
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expires, params)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return u.String(), nil
}

func (s *S3) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *S3) URL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

func (s *S3) KeyFromURL(u string) string {
	if strings.HasPrefix(u, s.baseURL+"/") {
		return strings.TrimPrefix(u, s.baseURL+"/")
	}
	return u
}
