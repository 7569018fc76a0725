package filtering

import (
	"context"
	"fmt"

	"github.com/spigell/tender-responder/internal/tender"
)

type excludeFileFilter struct {
	path string
}

// NewExcludeFile creates a filter that removes listings contained in the exclude file.
func NewExcludeFile(path string) Filter {
	return &excludeFileFilter{
		path: path,
	}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(string) {}

func (f *excludeFileFilter) IsEnabled() bool { return true }

func (f *excludeFileFilter) Validate() error { return nil }

func (f *excludeFileFilter) Apply(_ context.Context, l *tender.Listings) (*tender.Listings, Step, error) {
	initial := l.Len()
	if f.path == "" {
		return l, Step{Initial: initial, Dropped: 0, Left: l.Len()}, nil
	}

	excluded, err := tender.GetExcludedFromFile(f.path)
	if err != nil {
		return l, Step{}, fmt.Errorf("getting excluded tenders from file: %w", err)
	}

	removed := l.Exclude(tender.OCIDField, excluded.OCIDs())

	return l, Step{Initial: initial, Dropped: len(removed), Left: l.Len()}, nil
}
