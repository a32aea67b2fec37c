package documents

import "context"

// Repo defines persistence operations for documents.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	// List returns documents ordered by upload date descending, optionally
	// filtered by file type ("" means all).
	List(ctx context.Context, fileType FileType) ([]Document, error)
	GetByID(ctx context.Context, id string) (Document, error)
	Delete(ctx context.Context, id string) error
	// SearchContent runs the store's full-text search over content, OR-combined
	// with a substring match of question against filename.
	SearchContent(ctx context.Context, ftsQuery, question string, limit int) ([]Document, error)
	// ListWithContent returns every document whose content is non-null.
	ListWithContent(ctx context.Context) ([]Document, error)
}
