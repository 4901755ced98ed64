package minio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
}

// ObjectStore abstracts the MinIO/S3 operations needed by import and export.
type ObjectStore interface {
	EnsureBucket(ctx context.Context, bucket string) error
	StatObject(ctx context.Context, bucket, key string) (*ObjectInfo, error)
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	PutObject(ctx context.Context, bucket, key string, data []byte) error
}

// NewStore returns a LocalStore for file:// endpoints and an S3Client
// otherwise.
func NewStore(cfg *Config) (ObjectStore, error) {
	if cfg == nil {
		return nil, wrapError(CodeEndpointUnreachable, false, fmt.Errorf("config is required"))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if root := cfg.localRoot(); root != "" {
		return NewLocalStore(root), nil
	}
	return NewS3Client(cfg)
}

// LocalStore persists objects on disk, one directory per bucket.
type LocalStore struct {
	root string
}

// NewLocalStore creates a new local object store rooted at root.
func NewLocalStore(root string) *LocalStore {
	if root == "" {
		root = filepath.Join(os.TempDir(), "httpfs-objects")
	}
	return &LocalStore{root: root}
}

func (s *LocalStore) EnsureBucket(ctx context.Context, bucket string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if bucket == "" {
		return wrapError(CodeBucketNotFound, false, fmt.Errorf("bucket is required"))
	}
	if err := os.MkdirAll(s.bucketPath(bucket), 0o755); err != nil {
		return wrapError(CodePermissionDenied, false, err)
	}
	return nil
}

func (s *LocalStore) StatObject(ctx context.Context, bucket, key string) (*ObjectInfo, error) {
	fullPath, err := s.objectPath(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, s.pathError(err, CodeReadFailed)
	}
	if info.IsDir() {
		return nil, wrapError(CodeObjectNotFound, false, fmt.Errorf("%s/%s is a prefix", bucket, key))
	}
	return &ObjectInfo{Key: key, Size: info.Size(), ContentType: octetStream}, nil
}

func (s *LocalStore) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	fullPath, err := s.objectPath(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, s.pathError(err, CodeReadFailed)
	}
	return data, nil
}

func (s *LocalStore) PutObject(ctx context.Context, bucket, key string, data []byte) error {
	fullPath, err := s.objectPath(ctx, bucket, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return wrapError(CodePermissionDenied, false, err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return wrapError(CodeWriteFailed, true, err)
	}
	return nil
}

func (s *LocalStore) objectPath(ctx context.Context, bucket, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if bucket == "" {
		return "", wrapError(CodeBucketNotFound, false, fmt.Errorf("bucket is required"))
	}
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return "", wrapError(CodeObjectNotFound, false, fmt.Errorf("object key is required"))
	}
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", wrapError(CodePermissionDenied, false, fmt.Errorf("object key %q escapes the bucket", key))
	}
	return filepath.Join(s.bucketPath(bucket), cleaned), nil
}

func (s *LocalStore) pathError(err error, fallback string) *Error {
	if os.IsNotExist(err) {
		return wrapError(CodeObjectNotFound, false, err)
	}
	if os.IsPermission(err) {
		return wrapError(CodePermissionDenied, false, err)
	}
	return wrapError(fallback, true, err)
}

func (s *LocalStore) bucketPath(bucket string) string {
	return filepath.Join(s.root, sanitizePath(bucket))
}
