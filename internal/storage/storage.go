// Package storage contains the blob store abstraction and its backends:
// a local filesystem working directory and an S3-compatible object store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"convertapi/internal/config"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("object not found")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1.
// ContentType and Metadata are optional.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the blob store used for uploads and conversion outputs.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Put stores the reader's content under key, replacing any previous object.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Presigner is implemented by backends that can hand out direct download URLs.
type Presigner interface {
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// Key prefixes for the different kinds of stored objects.
const (
	PrefixUploads   = "uploads"
	PrefixConverted = "converted"
	PrefixSplit     = "split"
)

// NewKey returns a collision-free key "<prefix>/<uuid>/<name>".
// name is reduced to its base name; an empty base becomes "file".
func NewKey(prefix, name string) string {
	return path.Join(prefix, uuid.NewString(), SafeName(name))
}

// ScopedKey returns "<prefix>/<scope>/<name>" for outputs that share a scope.
func ScopedKey(prefix, scope, name string) string {
	return path.Join(prefix, scope, SafeName(name))
}

// SafeName strips directories from a caller-supplied file name.
func SafeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := path.Base(name)
	if base == "." || base == "/" || base == ".." || base == "" {
		return "file"
	}
	return base
}

// ReadAll reads an object fully into memory.
func ReadAll(ctx context.Context, s Storage, key string) ([]byte, ObjectInfo, error) {
	rc, info, err := s.Get(ctx, key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	return b, info, nil
}

// Open builds the backend selected by cfg.Backend.
func Open(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocal(cfg.UploadDir)
	case "minio", "s3":
		return NewMinIO(cfg.MinIO)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
