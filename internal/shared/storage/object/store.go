package object

import (
	"context"
	"io"
)

// BlobStore defines the contract for storing and retrieving raw file bytes.
// Implementations normalize collaborator responses at this boundary; callers
// never see provider-specific result shapes.
type BlobStore interface {
	Put(ctx context.Context, key string, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// PublicURL resolves a browser-reachable URL for a stored object.
	PublicURL(ctx context.Context, key string) (string, error)
}
