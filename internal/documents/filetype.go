package documents

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Yuzhifur/KnowledgeBaseQA/internal/shared/util"
)

// FileType categorizes a document by its upload format.
type FileType string

const (
	FileTypeText  FileType = "txt"
	FileTypeImage FileType = "img"
	FileTypePDF   FileType = "pdf"
)

// FileTypes lists every supported type in category-listing order.
func FileTypes() []FileType {
	return []FileType{FileTypeText, FileTypeImage, FileTypePDF}
}

// ParseFileType validates a raw file type value (e.g. a query parameter).
func ParseFileType(raw string) (FileType, error) {
	switch FileType(strings.ToLower(strings.TrimSpace(raw))) {
	case FileTypeText:
		return FileTypeText, nil
	case FileTypeImage:
		return FileTypeImage, nil
	case FileTypePDF:
		return FileTypePDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidInput, raw)
	}
}

// ClassifyType derives the file type from the lowercased filename extension.
func ClassifyType(filename string) (FileType, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return FileTypeText, nil
	case ".pdf":
		return FileTypePDF, nil
	case ".jpg", ".jpeg", ".png":
		return FileTypeImage, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, filename)
	}
}

// BuildPath derives the canonical blob-store path for an upload:
// {type}/{timestamp}_{uniqueToken}_{filename}. The fresh token keeps repeated
// filenames from colliding; the type prefix groups objects for browsing.
func BuildPath(fileType FileType, filename string) (string, error) {
	sanitized, err := util.SanitizeFileName(filename)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	timestamp := time.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("%s/%s_%s_%s", fileType, timestamp, uuid.NewString(), sanitized), nil
}
