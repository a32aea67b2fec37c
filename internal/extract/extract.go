package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/Yuzhifur/KnowledgeBaseQA/internal/shared/telemetry"
)

// File type values understood by the extractor. They match the document
// store's file_type column.
const (
	TypeText  = "txt"
	TypePDF   = "pdf"
	TypeImage = "img"
)

// OCRPlaceholder is stored when OCR succeeds but finds no text in an image.
const OCRPlaceholder = "No readable text found in image"

// OCR recognizes text in a raster image.
type OCR interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Extractor produces plain text from uploaded file bytes. A nil OCR engine
// means images yield no content.
type Extractor struct {
	OCR OCR
}

// Extract returns the extracted text for the payload, or nil when the type is
// unknown or nothing can be extracted. It never returns an error: extraction
// failures degrade to nil (or a diagnostic string for OCR) so that one bad
// file cannot abort a batch upload.
func (e *Extractor) Extract(ctx context.Context, data []byte, fileType string, filename string) *string {
	switch fileType {
	case TypeText:
		text := decodeText(data)
		return &text
	case TypePDF:
		text := extractPDF(data, filename)
		return &text
	case TypeImage:
		return e.extractImage(ctx, data, filename)
	default:
		return nil
	}
}

// decodeText decodes as UTF-8 when valid, otherwise falls back to a
// permissive Latin-1 decode where every byte maps to a rune.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		// Latin-1 decoding cannot fail on arbitrary bytes, but keep the
		// degraded path total anyway.
		return string(bytes.ToValidUTF8(data, nil))
	}
	return string(decoded)
}

// extractPDF pulls text page by page and joins pages with newlines. Empty or
// unparsable PDFs yield an empty string.
func extractPDF(data []byte, filename string) (text string) {
	defer func() {
		// The pdf parser panics on some malformed files.
		if rec := recover(); rec != nil {
			telemetry.Warn("extract.pdf_panic", map[string]any{
				"filename": filename,
				"error":    fmt.Sprint(rec),
			})
			text = ""
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		telemetry.Warn("extract.pdf_unparsable", map[string]any{
			"filename": filename,
			"error":    err.Error(),
		})
		return ""
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, pageText)
	}
	return strings.Join(pages, "\n")
}

// extractImage runs OCR and normalizes the result: lines trimmed, blank lines
// dropped. OCR failures yield a diagnostic string rather than aborting.
func (e *Extractor) extractImage(ctx context.Context, data []byte, filename string) *string {
	if e.OCR == nil {
		return nil
	}

	raw, err := e.OCR.Recognize(ctx, data)
	if err != nil {
		telemetry.Warn("extract.ocr_failed", map[string]any{
			"filename": filename,
			"error":    err.Error(),
		})
		diag := fmt.Sprintf("Text extraction failed for this image: %s", err)
		return &diag
	}

	text := normalizeOCRText(raw)
	if text == "" {
		placeholder := OCRPlaceholder
		return &placeholder
	}
	return &text
}

func normalizeOCRText(raw string) string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, "\n")
}
