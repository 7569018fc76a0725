package document

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
)

// maxPDFPages bounds extraction to the opening pages, where eligibility is usually stated.
const maxPDFPages = 15

var (
	whitespace  = regexp.MustCompile(`\s+`)
	hyphenation = regexp.MustCompile(`(\w)-\s+(\w)`)
)

func extractPDF(ctx context.Context, name string, data []byte) (string, error) {
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return "", fmt.Errorf("file is not a PDF document: %w", ErrUnsupportedFormat)
	}

	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: true,
	})
	if err != nil {
		return "", fmt.Errorf("creating pdf parser: %w", err)
	}

	docs, err := p.Parse(ctx, bytes.NewReader(data),
		einoParser.WithURI(name),
		einoParser.WithExtraMeta(map[string]any{"source": name}),
	)
	if err != nil {
		return "", fmt.Errorf("parsing pdf: %w", err)
	}

	pages := make([]string, 0, min(len(docs), maxPDFPages))
	for i, doc := range docs {
		if i >= maxPDFPages {
			break
		}
		if page := CleanPage(doc.Content); page != "" {
			pages = append(pages, page)
		}
	}

	return strings.Join(pages, "\n\n"), nil
}

// CleanPage collapses whitespace and joins words split by line-end hyphenation.
func CleanPage(text string) string {
	text = whitespace.ReplaceAllString(text, " ")
	text = hyphenation.ReplaceAllString(text, "$1$2")
	return strings.TrimSpace(text)
}
