package extract

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// Text extracts plain text from the document at path. PDF documents are
// parsed page by page; plain-text documents are read as-is. An unreadable or
// unsupported document is an upstream error and is never retried here.
func Text(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading document %q: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return pdfText(data)
	case ".txt":
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported document type %q", filepath.Ext(path))
	}
}

// pdfText extracts text from every page of a PDF. Pages that fail to extract
// are skipped; a document yielding no text at all is an error.
func pdfText(data []byte) (string, error) {
	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("reading pdf: %w", err)
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("counting pdf pages: %w", err)
	}
	if numPages == 0 {
		return "", errors.New("pdf has no pages")
	}

	var builder strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			continue
		}

		ex, err := extractor.New(page)
		if err != nil {
			continue
		}

		pageText, err := ex.ExtractText()
		if err != nil {
			continue
		}

		builder.WriteString(pageText)
	}

	text := strings.TrimSpace(builder.String())
	if text == "" {
		return "", errors.New("no text could be extracted from the pdf")
	}

	return text, nil
}
