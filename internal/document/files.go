package document

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// Break separates the texts of different documents.
	Break = "\n\n--- DOCUMENT BREAK ---\n\n"

	extractWorkers = 4
)

// Result is the outcome of processing a batch of documents.
type Result struct {
	Text      string
	Processed int
	Total     int
	Errors    []string
}

// Success reports whether any document yielded text.
func (r *Result) Success() bool {
	return r.Processed > 0
}

func (r *Result) Message() string {
	return fmt.Sprintf("Processed %d/%d documents", r.Processed, r.Total)
}

// ExtractFiles extracts every path concurrently and joins the texts in input order.
// Failing files are reported in the result; an error is returned only when none succeed.
func ExtractFiles(ctx context.Context, paths []string, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	texts := make([]string, len(paths))
	errs := make([]error, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(extractWorkers)

	for i, path := range paths {
		g.Go(func() error {
			text, err := Extract(ctx, path)
			if err != nil {
				logger.Warn("document extraction failed", zap.String("path", path), zap.Error(err))
				errs[i] = err
				return nil
			}

			logger.Info("document processed", zap.String("path", path), zap.Int("characters", len(text)))
			texts[i] = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return collect(texts, errs)
}

func collect(texts []string, errs []error) (*Result, error) {
	result := &Result{Total: len(texts)}

	var kept []string
	for i, text := range texts {
		if errs[i] != nil {
			result.Errors = append(result.Errors, errs[i].Error())
			continue
		}
		kept = append(kept, text)
	}

	result.Text = strings.Join(kept, Break)
	result.Processed = len(kept)

	if result.Total > 0 && !result.Success() {
		return result, fmt.Errorf("no document could be processed: %w", errors.Join(errs...))
	}

	return result, nil
}
