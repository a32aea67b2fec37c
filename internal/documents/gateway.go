package documents

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Yuzhifur/KnowledgeBaseQA/internal/shared/storage/object"
)

// Storage is the gateway between documents and the blob store: it classifies
// uploads, derives canonical paths, and resolves public URLs. Collaborator
// errors surface here with the failing operation named.
type Storage struct {
	Blob object.BlobStore
	// AllowedExtensions optionally narrows uploads beyond the built-in
	// classification (lowercase, dot-prefixed). Empty means no extra filter.
	AllowedExtensions []string
}

// UploadResult describes a stored blob.
type UploadResult struct {
	Path string
	Type FileType
	Size int64
}

// Upload classifies the file, derives its path, and writes the bytes to the
// blob store under that path with the declared content type.
func (s *Storage) Upload(ctx context.Context, filename, contentType string, data []byte) (UploadResult, error) {
	if !s.extensionAllowed(filename) {
		return UploadResult{}, fmt.Errorf("%w: %s", ErrUnsupportedType, filename)
	}

	fileType, err := ClassifyType(filename)
	if err != nil {
		return UploadResult{}, err
	}

	path, err := BuildPath(fileType, filename)
	if err != nil {
		return UploadResult{}, err
	}

	size, err := s.Blob.Put(ctx, path, contentType, bytes.NewReader(data))
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload %s: %w", filename, err)
	}

	return UploadResult{Path: path, Type: fileType, Size: size}, nil
}

// PublicURL resolves a browser-reachable URL for a stored object.
func (s *Storage) PublicURL(ctx context.Context, path string) (string, error) {
	url, err := s.Blob.PublicURL(ctx, path)
	if err != nil {
		return "", fmt.Errorf("resolve url %s: %w", path, err)
	}
	return url, nil
}

// Download opens a stored object for reading.
func (s *Storage) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	rc, err := s.Blob.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", path, err)
	}
	return rc, nil
}

// Remove deletes a stored object.
func (s *Storage) Remove(ctx context.Context, path string) error {
	if err := s.Blob.Delete(ctx, path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

func (s *Storage) extensionAllowed(filename string) bool {
	if len(s.AllowedExtensions) == 0 {
		return true
	}
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return false
	}
	ext := strings.ToLower(filename[idx:])
	for _, allowed := range s.AllowedExtensions {
		if ext == strings.ToLower(strings.TrimSpace(allowed)) {
			return true
		}
	}
	return false
}
