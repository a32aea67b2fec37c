package documents

import (
	"strings"
	"time"
)

// Document is the unit of knowledge: an uploaded file plus its extracted
// text. Content is set once at creation and never re-derived.
type Document struct {
	ID         string
	Filename   string
	FileType   FileType
	FilePath   string
	FileSize   int64
	Content    *string
	Metadata   map[string]any
	UploadDate time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasContent reports whether the document carries non-blank extracted text.
// Documents without content (typically images) are excluded from retrieval.
func (d Document) HasContent() bool {
	return d.Content != nil && strings.TrimSpace(*d.Content) != ""
}
