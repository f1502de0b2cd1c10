// Package storage defines the interface for reading crate bodies from object storage.
// The MinIO implementation works with any S3-compatible provider.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned when no object exists under a key.
var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Size        int64
	ContentType string
}

// Storage is the interface for retrieving objects.
type Storage interface {
	// Open returns a reader positioned at the start of the object under key.
	Open(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
}
