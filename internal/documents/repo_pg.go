package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

const docColumns = "id, filename, file_type, file_path, file_size, content, metadata, upload_date, created_at, updated_at"

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document row.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    filename,
    file_type,
    file_path,
    file_size,
    content,
    metadata,
    upload_date,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	var content sql.NullString
	if doc.Content != nil {
		content = sql.NullString{String: *doc.Content, Valid: true}
	}

	metadata, err := marshalMetadata(doc.Metadata)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.Filename,
		string(doc.FileType),
		doc.FilePath,
		doc.FileSize,
		content,
		metadata,
		doc.UploadDate,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

// List returns documents newest-first, optionally filtered by file type.
func (r *PGRepo) List(ctx context.Context, fileType FileType) ([]Document, error) {
	query := `
SELECT ` + docColumns + `
FROM documents
ORDER BY upload_date DESC`
	args := []any{}
	if fileType != "" {
		query = `
SELECT ` + docColumns + `
FROM documents
WHERE file_type = $1
ORDER BY upload_date DESC`
		args = append(args, string(fileType))
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

// GetByID fetches a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	const query = `
SELECT ` + docColumns + `
FROM documents
WHERE id = $1
LIMIT 1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// Delete removes a document row.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM documents WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchContent runs Postgres full-text search over content, OR-combined with
// a case-insensitive substring match of the question against filename.
func (r *PGRepo) SearchContent(ctx context.Context, ftsQuery, question string, limit int) ([]Document, error) {
	const query = `
SELECT ` + docColumns + `
FROM documents
WHERE to_tsvector('english', coalesce(content, '')) @@ to_tsquery('english', $1)
   OR filename ILIKE '%' || $2 || '%'
ORDER BY upload_date DESC
LIMIT $3`

	rows, err := r.DB.QueryContext(ctx, query, ftsQuery, question, limit)
	if err != nil {
		return nil, fmt.Errorf("full-text search: %w", err)
	}
	defer rows.Close()
	return scanDocuments(rows)
}

// ListWithContent returns every document whose content is non-null.
func (r *PGRepo) ListWithContent(ctx context.Context) ([]Document, error) {
	const query = `
SELECT ` + docColumns + `
FROM documents
WHERE content IS NOT NULL
ORDER BY upload_date DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var content sql.NullString
	var metadata []byte
	if err := row.Scan(
		&doc.ID,
		&doc.Filename,
		&doc.FileType,
		&doc.FilePath,
		&doc.FileSize,
		&content,
		&metadata,
		&doc.UploadDate,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	); err != nil {
		return Document{}, err
	}
	if content.Valid {
		doc.Content = &content.String
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &doc.Metadata); err != nil {
			return Document{}, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return doc, nil
}

func scanDocuments(rows *sql.Rows) ([]Document, error) {
	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func marshalMetadata(meta map[string]any) ([]byte, error) {
	if meta == nil {
		return nil, nil
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	return data, nil
}

var _ Repo = (*PGRepo)(nil)
