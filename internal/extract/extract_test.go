package extract

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTextReadsPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	if err := os.WriteFile(path, []byte("plain resume text"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	text, err := Text(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "plain resume text" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestTextRejectsUnsupportedType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.docx")
	if err := os.WriteFile(path, []byte("binary"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	if _, err := Text(path); err == nil {
		t.Fatal("expected error for unsupported document type")
	}
}

func TestTextMissingFile(t *testing.T) {
	if _, err := Text(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Fatal("expected error for missing document")
	}
}

func TestTextCorruptPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("not a pdf"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	if _, err := Text(path); err == nil {
		t.Fatal("expected error for corrupt pdf")
	}
}
