package document

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// maxZipMember caps how much of a single archive member is read.
const maxZipMember = 10 << 20

// extractZip joins the text of every supported member in archive order.
// Unsupported or empty members are skipped.
func extractZip(ctx context.Context, data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening zip: %w", err)
	}

	var texts []string
	for _, file := range archive.File {
		if file.FileInfo().IsDir() || strings.HasPrefix(filepath.Base(file.Name), ".") {
			continue
		}

		content, err := readMember(file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file.Name, err)
		}

		// nested archives are not unpacked
		if strings.EqualFold(filepath.Ext(file.Name), ".zip") {
			continue
		}

		text, err := ExtractBytes(ctx, file.Name, content)
		if errors.Is(err, ErrUnsupportedFormat) || errors.Is(err, ErrNoText) {
			continue
		}
		if err != nil {
			return "", err
		}
		texts = append(texts, text)
	}

	return strings.Join(texts, "\n\n"), nil
}

func readMember(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(io.LimitReader(rc, maxZipMember))
}
