package extract

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Metadata builds the free-form metadata record for a document. Filename,
// type, and size are always present; PDFs additionally carry page count and
// Title/Author/Subject from the Info dictionary when available. Metadata
// failures are absorbed: the partial record is still returned.
func Metadata(data []byte, fileType string, filename string) map[string]any {
	meta := map[string]any{
		"filename":  filename,
		"file_type": fileType,
		"file_size": len(data),
	}

	if fileType == TypePDF {
		addPDFMetadata(meta, data)
	}

	return meta
}

func addPDFMetadata(meta map[string]any, data []byte) {
	defer func() {
		_ = recover()
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return
	}
	meta["page_count"] = reader.NumPage()

	info := reader.Trailer().Key("Info")
	if info.IsNull() {
		return
	}
	for key, field := range map[string]string{
		"Title":   "title",
		"Author":  "author",
		"Subject": "subject",
	} {
		if val := strings.TrimSpace(info.Key(key).Text()); val != "" {
			meta[field] = val
		}
	}
}
