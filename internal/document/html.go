package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const noiseSelector = "nav, footer, header, script, style, noscript, iframe, form, aside, .ad, .ads, .cookie, .banner"

var contentSelectors = []string{"main", "article", ".content", "#content"}

func extractHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	doc.Find(noiseSelector).Remove()

	for _, selector := range contentSelectors {
		if text := cleanWhitespace(doc.Find(selector).First().Text()); text != "" {
			return text, nil
		}
	}

	return cleanWhitespace(doc.Find("body").Text()), nil
}

// cleanWhitespace trims every line and drops blank ones.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
