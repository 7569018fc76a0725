// Package document turns tender documents (PDF, HTML, zip bundles and plain text)
// into text for requirement extraction.
package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrNoText            = errors.New("no text found in document")
)

// Extract reads the file at path and returns its text.
func Extract(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", path, err)
	}
	return ExtractBytes(ctx, filepath.Base(path), data)
}

// ExtractBytes picks an extractor from the name's extension, or from the content
// when the name has none.
func ExtractBytes(ctx context.Context, name string, data []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch kind(name, data) {
	case ".pdf":
		text, err = extractPDF(ctx, name, data)
	case ".html", ".htm":
		text, err = extractHTML(data)
	case ".zip":
		text, err = extractZip(ctx, data)
	case ".txt", ".md":
		text = string(data)
	default:
		return "", fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}

	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: %w", name, ErrNoText)
	}

	return text, nil
}

func kind(name string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".pdf", ".html", ".htm", ".zip", ".txt", ".md":
		return ext
	}

	switch {
	case bytes.HasPrefix(data, []byte("%PDF")):
		return ".pdf"
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return ".zip"
	}

	head := strings.ToLower(string(data[:min(len(data), 512)]))
	if strings.Contains(head, "<html") || strings.Contains(head, "<!doctype html") {
		return ".html"
	}

	return ""
}
