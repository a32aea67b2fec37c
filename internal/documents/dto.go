package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	ID         string         `json:"id"`
	Filename   string         `json:"filename"`
	FileType   FileType       `json:"file_type"`
	FileSize   int64          `json:"file_size"`
	UploadDate time.Time      `json:"upload_date"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// PreviewResponse carries inline content for text documents and a public URL
// for images.
type PreviewResponse struct {
	ID       string   `json:"id"`
	Filename string   `json:"filename"`
	FileType FileType `json:"file_type"`
	Content  *string  `json:"content"`
	FileURL  *string  `json:"file_url"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		ID:         doc.ID,
		Filename:   doc.Filename,
		FileType:   doc.FileType,
		FileSize:   doc.FileSize,
		UploadDate: doc.UploadDate,
		Metadata:   doc.Metadata,
	}
}

func toPreviewResponse(doc Document, fileURL string) PreviewResponse {
	resp := PreviewResponse{
		ID:       doc.ID,
		Filename: doc.Filename,
		FileType: doc.FileType,
	}
	if doc.FileType == FileTypeImage {
		if fileURL != "" {
			resp.FileURL = &fileURL
		}
		return resp
	}
	resp.Content = doc.Content
	return resp
}
