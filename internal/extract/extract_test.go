package extract_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Yuzhifur/KnowledgeBaseQA/internal/extract"
)

type fakeOCR struct {
	text string
	err  error
}

func (f fakeOCR) Recognize(ctx context.Context, image []byte) (string, error) {
	return f.text, f.err
}

func TestExtractTextUTF8(t *testing.T) {
	e := &extract.Extractor{}

	got := e.Extract(context.Background(), []byte("hello world"), extract.TypeText, "hello.txt")
	if got == nil {
		t.Fatalf("expected content, got nil")
	}
	if *got != "hello world" {
		t.Fatalf("expected %q, got %q", "hello world", *got)
	}
}

func TestExtractTextLatin1Fallback(t *testing.T) {
	e := &extract.Extractor{}

	// 0xE9 is invalid UTF-8 on its own but decodes to 'é' in Latin-1.
	got := e.Extract(context.Background(), []byte{'c', 'a', 'f', 0xE9}, extract.TypeText, "cafe.txt")
	if got == nil {
		t.Fatalf("expected content, got nil")
	}
	if *got != "café" {
		t.Fatalf("expected %q, got %q", "café", *got)
	}
}

func TestExtractUnknownTypeReturnsNil(t *testing.T) {
	e := &extract.Extractor{}

	if got := e.Extract(context.Background(), []byte("data"), "docx", "file.docx"); got != nil {
		t.Fatalf("expected nil for unknown type, got %q", *got)
	}
}

func TestExtractImageWithoutOCR(t *testing.T) {
	e := &extract.Extractor{}

	if got := e.Extract(context.Background(), []byte{0x89, 'P', 'N', 'G'}, extract.TypeImage, "scan.png"); got != nil {
		t.Fatalf("expected nil without an OCR engine, got %q", *got)
	}
}

func TestExtractImageNormalizesOCROutput(t *testing.T) {
	e := &extract.Extractor{OCR: fakeOCR{text: "  first line \n\n  second line  \n"}}

	got := e.Extract(context.Background(), []byte("img"), extract.TypeImage, "scan.png")
	if got == nil {
		t.Fatalf("expected content, got nil")
	}
	if *got != "first line\nsecond line" {
		t.Fatalf("unexpected normalized text: %q", *got)
	}
}

func TestExtractImageEmptyOCRYieldsPlaceholder(t *testing.T) {
	e := &extract.Extractor{OCR: fakeOCR{text: "   \n \n"}}

	got := e.Extract(context.Background(), []byte("img"), extract.TypeImage, "blank.png")
	if got == nil {
		t.Fatalf("expected placeholder, got nil")
	}
	if *got != extract.OCRPlaceholder {
		t.Fatalf("expected placeholder %q, got %q", extract.OCRPlaceholder, *got)
	}
}

func TestExtractImageOCRFailureYieldsDiagnostic(t *testing.T) {
	e := &extract.Extractor{OCR: fakeOCR{err: errors.New("engine unavailable")}}

	got := e.Extract(context.Background(), []byte("img"), extract.TypeImage, "scan.png")
	if got == nil {
		t.Fatalf("expected diagnostic, got nil")
	}
	if !strings.HasPrefix(*got, "Text extraction failed for this image:") {
		t.Fatalf("unexpected diagnostic: %q", *got)
	}
	if !strings.Contains(*got, "engine unavailable") {
		t.Fatalf("diagnostic should carry the cause: %q", *got)
	}
}

func TestExtractCorruptPDFYieldsEmpty(t *testing.T) {
	e := &extract.Extractor{}

	got := e.Extract(context.Background(), []byte("%PDF-1.4 truncated garbage"), extract.TypePDF, "broken.pdf")
	if got == nil {
		t.Fatalf("expected empty string, got nil")
	}
	if *got != "" {
		t.Fatalf("expected empty text for corrupt PDF, got %q", *got)
	}
}

func TestMetadataAlwaysCarriesBasics(t *testing.T) {
	meta := extract.Metadata([]byte("hello"), extract.TypeText, "hello.txt")

	if meta["filename"] != "hello.txt" {
		t.Fatalf("expected filename, got %v", meta["filename"])
	}
	if meta["file_type"] != extract.TypeText {
		t.Fatalf("expected file_type, got %v", meta["file_type"])
	}
	if meta["file_size"] != 5 {
		t.Fatalf("expected file_size 5, got %v", meta["file_size"])
	}
}
