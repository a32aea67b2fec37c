package documents

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo used in dev mode and
// tests. SearchContent emulates full-text search with token containment.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Document),
	}
}

// Create stores a new document.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.ID] = doc
	return nil
}

// List returns documents newest-first, optionally filtered by file type.
func (r *MemoryRepo) List(ctx context.Context, fileType FileType) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Document
	for _, doc := range r.data {
		if fileType != "" && doc.FileType != fileType {
			continue
		}
		out = append(out, doc)
	}
	sortNewestFirst(out)
	return out, nil
}

// GetByID returns a document by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.data[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// Delete removes a document.
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

// SearchContent emulates the primary search: any fts token contained in the
// content, or the whole question contained in the filename, case-insensitive.
func (r *MemoryRepo) SearchContent(ctx context.Context, ftsQuery, question string, limit int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var tokens []string
	for _, tok := range strings.Split(ftsQuery, "|") {
		if trimmed := strings.TrimSpace(tok); trimmed != "" {
			tokens = append(tokens, strings.ToLower(trimmed))
		}
	}
	questionLower := strings.ToLower(question)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Document
	for _, doc := range r.data {
		if matchesTokens(doc, tokens) || (questionLower != "" && strings.Contains(strings.ToLower(doc.Filename), questionLower)) {
			out = append(out, doc)
		}
	}
	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListWithContent returns documents whose content is non-null.
func (r *MemoryRepo) ListWithContent(ctx context.Context) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Document
	for _, doc := range r.data {
		if doc.Content != nil {
			out = append(out, doc)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func matchesTokens(doc Document, tokens []string) bool {
	if doc.Content == nil {
		return false
	}
	contentLower := strings.ToLower(*doc.Content)
	for _, tok := range tokens {
		if strings.Contains(contentLower, tok) {
			return true
		}
	}
	return false
}

func sortNewestFirst(docs []Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].UploadDate.After(docs[j].UploadDate)
	})
}

var _ Repo = (*MemoryRepo)(nil)
