// Package transfer copies files between an object store and the gateway.
package transfer

import (
	"context"
	"fmt"

	"github.com/nucleus/httpfs/internal/connector/httpfs"
	"github.com/nucleus/httpfs/internal/connector/minio"
	"github.com/nucleus/httpfs/internal/logger"
)

// ObjectReader reads whole objects from a bucket.
type ObjectReader interface {
	StatObject(ctx context.Context, bucket, key string) (*minio.ObjectInfo, error)
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// ObjectWriter stores whole objects in a bucket, creating it on demand.
type ObjectWriter interface {
	EnsureBucket(ctx context.Context, bucket string) error
	PutObject(ctx context.Context, bucket, key string, data []byte) error
}

// FileCreator writes a file through the gateway.
type FileCreator interface {
	CreateFile(ctx context.Context, path string, content []byte, overwrite bool, permission string) (*httpfs.Created, error)
}

// FileOpener reads a file through the gateway.
type FileOpener interface {
	OpenFile(ctx context.Context, path string) (httpfs.RawBytes, error)
}

// Importer copies objects into HDFS.
type Importer struct {
	objects ObjectReader
	gateway FileCreator
}

// NewImporter creates an Importer.
func NewImporter(objects ObjectReader, gateway FileCreator) *Importer {
	return &Importer{objects: objects, gateway: gateway}
}

// Import reads bucket/key and writes it to dstPath with the create-file
// protocol. The object is stat'ed first so a missing object fails before any
// data is read. Gateway errors keep their *httpfs.GatewayError in the chain.
func (i *Importer) Import(ctx context.Context, bucket, key, dstPath string, overwrite bool, permission string) (*httpfs.Created, error) {
	info, err := i.objects.StatObject(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("stat object %s/%s: %w", bucket, key, err)
	}
	logger.Debug("transfer: importing %s/%s (%d bytes, %s)", bucket, key, info.Size, info.ContentType)

	data, err := i.objects.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("read object %s/%s: %w", bucket, key, err)
	}
	if int64(len(data)) != info.Size {
		logger.Warn("transfer: %s/%s changed while reading (stat %d bytes, read %d)", bucket, key, info.Size, len(data))
	}

	created, err := i.gateway.CreateFile(ctx, dstPath, data, overwrite, permission)
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", dstPath, err)
	}

	logger.Info("transfer: imported %s/%s to %s (%d bytes, %d redirects)",
		bucket, key, dstPath, len(data), created.Redirects)
	return created, nil
}

// Exporter copies HDFS files into an object store.
type Exporter struct {
	gateway FileOpener
	objects ObjectWriter
}

// NewExporter creates an Exporter.
func NewExporter(gateway FileOpener, objects ObjectWriter) *Exporter {
	return &Exporter{gateway: gateway, objects: objects}
}

// Export reads srcPath and stores it as bucket/key, returning the number of
// bytes written.
func (e *Exporter) Export(ctx context.Context, srcPath, bucket, key string) (int64, error) {
	data, err := e.gateway.OpenFile(ctx, srcPath)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", srcPath, err)
	}

	if err := e.objects.EnsureBucket(ctx, bucket); err != nil {
		return 0, fmt.Errorf("ensure bucket %s: %w", bucket, err)
	}
	if err := e.objects.PutObject(ctx, bucket, key, data); err != nil {
		return 0, fmt.Errorf("write object %s/%s: %w", bucket, key, err)
	}

	logger.Info("transfer: exported %s to %s/%s (%d bytes)", srcPath, bucket, key, len(data))
	return int64(len(data)), nil
}
