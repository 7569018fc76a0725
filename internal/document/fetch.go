package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/tender-responder/internal/logger"
	"github.com/spigell/tender-responder/internal/tender"
)

const (
	MaxDocumentSize     = 10 << 20
	MaxTenderDocuments  = 3
	downloadTimeout     = 120 * time.Second
	downloadUserAgent   = "tender-responder"
	downloadContentType = "*/*"
)

var priorityKeywords = []string{"specification", "requirement", "eligibility", "scope", "terms", "tender", "bid"}

var ErrTooLarge = errors.New("document exceeds size limit")

// Fetcher downloads tender documents and extracts their text.
type Fetcher struct {
	HTTPClient *http.Client
	MaxSize    int64
	MaxDocs    int
	logger     *zap.Logger
}

func NewFetcher(logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Fetcher{
		HTTPClient: &http.Client{Timeout: downloadTimeout},
		MaxSize:    MaxDocumentSize,
		MaxDocs:    MaxTenderDocuments,
		logger:     logger,
	}
}

// Download fetches url and refuses bodies over the size limit.
func (f *Fetcher) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", downloadContentType)
	req.Header.Set("User-Agent", downloadUserAgent)

	f.logger.Debug("downloading document", zap.String("url", url))

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	if resp.ContentLength > f.MaxSize {
		return nil, ErrTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.MaxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.MaxSize {
		return nil, ErrTooLarge
	}

	return data, nil
}

// ProcessTender downloads up to MaxDocs of the release's documents, preferred ones first,
// and joins their text.
func (f *Fetcher) ProcessTender(ctx context.Context, release *tender.Release) *Result {
	docs := release.Tender.Documents
	result := &Result{Total: len(docs)}
	if len(docs) == 0 {
		return result
	}

	log := logger.WithTenderFields(f.logger, release.OCID, release.Title())

	var texts []string
	for _, doc := range Prioritize(docs)[:min(len(docs), f.MaxDocs)] {
		if doc.URL == "" {
			continue
		}

		title := doc.Title
		if title == "" {
			title = "Unknown"
		}

		data, err := f.Download(ctx, doc.URL)
		if err != nil {
			log.Warn("document download failed", zap.String("url", doc.URL), zap.Error(err))
			result.Errors = append(result.Errors, "Failed to download: "+title)
			continue
		}

		text, err := ExtractBytes(ctx, documentName(doc), data)
		if err != nil {
			log.Warn("document extraction failed", zap.String("document", title), zap.Error(err))
			result.Errors = append(result.Errors, fmt.Sprintf("No text extracted from: %s - %s", title, err))
			continue
		}

		log.Info("document processed", zap.String("document", title), zap.Int("characters", len(text)))
		texts = append(texts, text)
	}

	result.Text = strings.Join(texts, Break)
	result.Processed = len(texts)

	return result
}

// Prioritize returns docs with the ones whose title suggests requirements first.
// Relative order within each group is kept.
func Prioritize(docs []tender.Document) []tender.Document {
	sorted := slices.Clone(docs)
	slices.SortStableFunc(sorted, func(a, b tender.Document) int {
		pa, pb := isPriority(a), isPriority(b)
		switch {
		case pa == pb:
			return 0
		case pa:
			return -1
		default:
			return 1
		}
	})
	return sorted
}

func isPriority(doc tender.Document) bool {
	title := strings.ToLower(doc.Title)
	for _, keyword := range priorityKeywords {
		if strings.Contains(title, keyword) {
			return true
		}
	}
	return false
}

// documentName picks a file name whose extension routes the document to an extractor.
// Portal documents are PDFs unless their URL or format says otherwise.
func documentName(doc tender.Document) string {
	base := path.Base(strings.SplitN(doc.URL, "?", 2)[0])
	if path.Ext(base) != "" {
		return base
	}

	format := strings.ToLower(doc.Format)
	switch {
	case strings.Contains(format, "html"):
		return base + ".html"
	case strings.Contains(format, "zip"):
		return base + ".zip"
	case strings.Contains(format, "text/plain"):
		return base + ".txt"
	default:
		return base
	}
}
