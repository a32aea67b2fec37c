package documents_test

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/Yuzhifur/KnowledgeBaseQA/internal/documents"
)

func TestClassifyType(t *testing.T) {
	cases := []struct {
		filename string
		want     documents.FileType
	}{
		{"notes.txt", documents.FileTypeText},
		{"REPORT.TXT", documents.FileTypeText},
		{"manual.pdf", documents.FileTypePDF},
		{"photo.jpg", documents.FileTypeImage},
		{"photo.jpeg", documents.FileTypeImage},
		{"diagram.png", documents.FileTypeImage},
	}
	for _, tc := range cases {
		got, err := documents.ClassifyType(tc.filename)
		if err != nil {
			t.Fatalf("%s: %v", tc.filename, err)
		}
		if got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.filename, tc.want, got)
		}
	}
}

func TestClassifyTypeRejectsUnsupported(t *testing.T) {
	for _, filename := range []string{"sheet.xlsx", "archive.zip", "noext", "page.html"} {
		if _, err := documents.ClassifyType(filename); !errors.Is(err, documents.ErrUnsupportedType) {
			t.Fatalf("%s: expected ErrUnsupportedType, got %v", filename, err)
		}
	}
}

func TestParseFileType(t *testing.T) {
	if _, err := documents.ParseFileType("docx"); !errors.Is(err, documents.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	got, err := documents.ParseFileType(" PDF ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != documents.FileTypePDF {
		t.Fatalf("expected pdf, got %s", got)
	}
}

func TestBuildPathShape(t *testing.T) {
	path, err := documents.BuildPath(documents.FileTypeText, "notes.txt")
	if err != nil {
		t.Fatalf("build path: %v", err)
	}

	if !strings.HasPrefix(path, "txt/") {
		t.Fatalf("expected type prefix, got %s", path)
	}
	if !strings.HasSuffix(path, "_notes.txt") {
		t.Fatalf("expected sanitized filename suffix, got %s", path)
	}
	pattern := regexp.MustCompile(`^txt/\d{8}_\d{6}_[0-9a-f-]{36}_notes\.txt$`)
	if !pattern.MatchString(path) {
		t.Fatalf("path does not match expected shape: %s", path)
	}
}

func TestBuildPathUniquePerCall(t *testing.T) {
	a, err := documents.BuildPath(documents.FileTypePDF, "manual.pdf")
	if err != nil {
		t.Fatalf("build path: %v", err)
	}
	b, err := documents.BuildPath(documents.FileTypePDF, "manual.pdf")
	if err != nil {
		t.Fatalf("build path: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct paths, both were %s", a)
	}
}

func TestBuildPathRejectsTraversal(t *testing.T) {
	if _, err := documents.BuildPath(documents.FileTypeText, "../../etc/passwd"); !errors.Is(err, documents.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
