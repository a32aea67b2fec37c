package documents

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Yuzhifur/KnowledgeBaseQA/internal/extract"
	"github.com/Yuzhifur/KnowledgeBaseQA/internal/shared/metrics"
	"github.com/Yuzhifur/KnowledgeBaseQA/internal/shared/telemetry"
)

// Service contains business logic for documents: upload (store + extract +
// persist), listing, preview, and deletion.
type Service struct {
	Repo      Repo
	Storage   *Storage
	Extractor *extract.Extractor
}

// Upload stores the file bytes, extracts text and metadata, and persists the
// document row. Extraction failures degrade to null content; they never fail
// the upload.
func (s *Service) Upload(ctx context.Context, filename, contentType string, r io.Reader) (Document, error) {
	if strings.TrimSpace(filename) == "" {
		return Document{}, fmt.Errorf("%w: filename required", ErrInvalidInput)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read upload %s: %w", filename, err)
	}

	stored, err := s.Storage.Upload(ctx, filename, contentType, data)
	if err != nil {
		return Document{}, err
	}

	content := s.Extractor.Extract(ctx, data, string(stored.Type), filename)
	metadata := extract.Metadata(data, string(stored.Type), filename)

	now := time.Now().UTC()
	doc := Document{
		ID:         uuid.NewString(),
		Filename:   filename,
		FileType:   stored.Type,
		FilePath:   stored.Path,
		FileSize:   stored.Size,
		Content:    content,
		Metadata:   metadata,
		UploadDate: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, fmt.Errorf("persist %s: %w", filename, err)
	}

	metrics.IncDocumentUploaded()
	return doc, nil
}

// List returns documents newest-first, optionally filtered by file type.
func (s *Service) List(ctx context.Context, fileType FileType) ([]Document, error) {
	return s.Repo.List(ctx, fileType)
}

// ByCategory groups all documents by file type. Every supported type appears
// as a key even when empty.
func (s *Service) ByCategory(ctx context.Context) (map[FileType][]Document, error) {
	docs, err := s.Repo.List(ctx, "")
	if err != nil {
		return nil, err
	}

	categories := make(map[FileType][]Document, len(FileTypes()))
	for _, ft := range FileTypes() {
		categories[ft] = []Document{}
	}
	for _, doc := range docs {
		categories[doc.FileType] = append(categories[doc.FileType], doc)
	}
	return categories, nil
}

// Get returns a document by ID.
func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	return s.Repo.GetByID(ctx, id)
}

// Preview returns a document plus, for images, a resolved public URL in place
// of inline content.
func (s *Service) Preview(ctx context.Context, id string) (Document, string, error) {
	doc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Document{}, "", err
	}
	if doc.FileType != FileTypeImage {
		return doc, "", nil
	}
	url, err := s.Storage.PublicURL(ctx, doc.FilePath)
	if err != nil {
		return Document{}, "", err
	}
	return doc, url, nil
}

// Delete removes the blob and then the row. The two deletes are not atomic:
// a blob-store failure is absorbed with a warning so the row still goes away.
func (s *Service) Delete(ctx context.Context, id string) error {
	doc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.Storage.Remove(ctx, doc.FilePath); err != nil {
		telemetry.Warn("documents.blob_delete_failed", map[string]any{
			"document_id": id,
			"file_path":   doc.FilePath,
			"error":       err.Error(),
		})
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.IncDocumentDeleted()
	return nil
}
